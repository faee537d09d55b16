// scanpack packs the files described by a project file into a single
// compressed, chunked archive suitable for bulk scanning.
//
// Usage:
//
//	scanpack [flags] <project-file>
//
// The project file lists directories to scan (path), regex filters
// applied to scanned paths (include, exclude), and explicit files (one
// per line). The archive is written next to the project file with the
// .spk extension unless --output is given. The archive is built at a
// temporary path and renamed into place only after it is fully flushed,
// so a partial build is never visible under the final name.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/pflag"

	"github.com/meigma/scanpack"
	"github.com/meigma/scanpack/codec"
	"github.com/meigma/scanpack/project"
	"github.com/meigma/scanpack/scan"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	var (
		output    string
		chunkSize int
		codecName string
		quiet     bool
		verbose   bool
	)

	flags := pflag.NewFlagSet("scanpack", pflag.ContinueOnError)
	flags.StringVarP(&output, "output", "o", "", "archive path (default: project file with .spk extension)")
	flags.IntVar(&chunkSize, "chunk-size", scanpack.DefaultChunkSize, "chunk size threshold in bytes")
	flags.StringVar(&codecName, "codec", "lz4", "compression codec (lz4 or zstd)")
	flags.BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flags.NArg() != 1 {
		return errors.New("usage: scanpack [flags] <project-file>")
	}
	projectPath := flags.Arg(0)

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	proj, err := project.Load(projectPath)
	if err != nil {
		return err
	}

	// Configuration errors surface here, before anything is written.
	filter, err := scan.NewFilter(proj.Include, proj.Exclude)
	if err != nil {
		return fmt.Errorf("filter patterns: %w", err)
	}
	cdc, err := codec.ByName(codecName)
	if err != nil {
		return err
	}

	files := slices.Clone(proj.Files)
	if len(proj.Paths) > 0 {
		log.Debug("scanning folders", "count", len(proj.Paths))
		files = append(files, scan.Files(proj.Paths, filter, log)...)
	}
	slices.Sort(files)
	files = slices.Compact(files)
	log.Debug("build plan", "files", len(files), "codec", cdc.Name(), "chunkSize", chunkSize)

	target := output
	if target == "" {
		target = project.OutputPath(projectPath)
	}

	stats, skipped, err := build(files, target, cdc, chunkSize, newProgressPrinter(stdout, len(files), quiet), log)
	if err != nil {
		return err
	}

	if !quiet {
		ratio := 1.0
		if stats.ResultSize > 0 {
			ratio = float64(stats.FileSize) / float64(stats.ResultSize)
		}
		fmt.Fprintf(stdout, "\r%d files, %d MB in, %d MB out (%.2fx)\n",
			stats.FileCount, stats.FileSize>>20, stats.ResultSize>>20, ratio)
	}
	if skipped > 0 {
		log.Warn("some files were skipped", "count", skipped)
	}
	return nil
}

// build writes the archive for files to target using two-phase publish:
// everything goes to a temporary file in the target directory, which is
// renamed over the target only after the builder reports a fully
// flushed stream. Per-file read failures are logged and skipped; any
// stream or codec failure aborts and removes the temporary file.
func build(files []string, target string, cdc codec.Codec, chunkSize int, printer *progressPrinter, log *slog.Logger) (scanpack.Stats, int, error) {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".spk-*")
	if err != nil {
		return scanpack.Stats{}, 0, fmt.Errorf("create temp archive: %w", err)
	}
	tmpPath := tmp.Name()
	fail := func(err error) (scanpack.Stats, int, error) {
		tmp.Close()
		os.Remove(tmpPath)
		return scanpack.Stats{}, 0, err
	}

	b, err := scanpack.NewBuilder(tmp,
		scanpack.WithChunkSize(chunkSize),
		scanpack.WithCodec(cdc),
		scanpack.WithProgress(printer.report),
	)
	if err != nil {
		return fail(err)
	}

	skipped := 0
	for _, path := range files {
		f, err := readFile(path)
		if err != nil {
			log.Warn("skipping file", "path", path, "error", err)
			skipped++
			continue
		}
		if err := b.Append(f); err != nil {
			return fail(err)
		}
	}

	if err := b.Close(); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return scanpack.Stats{}, 0, err
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return scanpack.Stats{}, 0, fmt.Errorf("publish archive: %w", err)
	}

	return b.Stats(), skipped, nil
}

// readFile loads one input file with the metadata recorded in its chunk
// header.
func readFile(path string) (scanpack.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return scanpack.File{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return scanpack.File{}, err
	}
	return scanpack.File{
		Name:    filepath.ToSlash(path),
		Data:    data,
		Size:    uint64(info.Size()),
		ModTime: uint64(info.ModTime().Unix()),
	}, nil
}
