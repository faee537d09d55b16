package scanpack

import (
	"fmt"
	"io"
	"os"

	"github.com/meigma/scanpack/codec"
)

// DefaultChunkSize is the accumulation threshold used when no
// WithChunkSize option is given.
const DefaultChunkSize = 512 << 10

// Builder packs files into a compressed, chunked container stream.
//
// Appended files accumulate in a chunk until its content size crosses
// the configured threshold. The check runs before the next file is
// accepted, not when the threshold is crossed, so a chunk can overshoot
// by at most one file and no file is ever split across chunks.
//
// A Builder is single-use and not safe for concurrent access.
type Builder struct {
	out       *Writer
	file      *os.File // non-nil when the builder owns the output file
	codec     codec.Codec
	chunkSize int
	chunk     chunk
	stats     tracker
	report    ProgressFunc
	closed    bool
}

// NewBuilder returns a Builder writing to w. The container magic is
// written immediately.
func NewBuilder(w io.Writer, opts ...Option) (*Builder, error) {
	b := &Builder{
		out:       NewWriter(w),
		codec:     codec.NewLZ4(),
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	if err := b.out.Start(); err != nil {
		return nil, err
	}
	return b, nil
}

// CreateFile opens path for writing and returns a Builder that owns the
// file; Close syncs and closes it. Publishing to a final location
// (building at a temporary path, renaming once Close succeeds) is the
// caller's responsibility.
func CreateFile(path string, opts ...Option) (*Builder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}
	b, err := NewBuilder(f, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	b.file = f
	return b, nil
}

// Append queues one file for archiving. If the accumulated chunk
// already exceeds the size threshold, it is flushed first.
func (b *Builder) Append(f File) error {
	if b.closed {
		return ErrClosed
	}
	if b.chunk.totalSize > b.chunkSize {
		if err := b.flushChunk(); err != nil {
			return err
		}
	}
	b.chunk.append(f)
	b.reportProgress()
	return nil
}

// Flush writes the pending chunk, if any. Calling Flush with an empty
// accumulator writes nothing, so repeated flushes are safe.
func (b *Builder) Flush() error {
	if b.closed {
		return ErrClosed
	}
	return b.flushChunk()
}

// Close flushes the pending chunk and drains buffered output. When the
// builder owns its file it is synced and closed. The archive is
// complete only once Close returns nil; closing twice is a no-op.
func (b *Builder) Close() error {
	if b.closed {
		return nil
	}
	if err := b.flushChunk(); err != nil {
		return err
	}
	b.closed = true
	if err := b.out.Flush(); err != nil {
		return err
	}
	if b.file != nil {
		if err := b.file.Sync(); err != nil {
			return err
		}
		return b.file.Close()
	}
	return nil
}

// Stats returns a snapshot of the cumulative build totals.
func (b *Builder) Stats() Stats { return b.stats.snapshot() }

func (b *Builder) flushChunk() error {
	if len(b.chunk.files) == 0 {
		return nil
	}

	payload := serializeChunk(b.chunk.files)
	compressed, err := b.codec.Compress(payload)
	if err != nil {
		return fmt.Errorf("compress chunk: %w", err)
	}
	if bound := b.codec.Bound(len(payload)); len(compressed) > bound {
		return fmt.Errorf("%w: %s produced %d bytes, bound %d for %d input bytes",
			ErrBoundExceeded, b.codec.Name(), len(compressed), bound, len(payload))
	}

	if err := b.out.WriteChunk(len(b.chunk.files), len(payload), compressed); err != nil {
		return err
	}

	b.stats.addChunk(len(b.chunk.files), uint64(len(payload)), uint64(len(compressed)))
	b.chunk = chunk{}
	b.reportProgress()
	return nil
}

func (b *Builder) reportProgress() {
	if b.report != nil {
		b.report(b.stats.snapshot())
	}
}
