// Package project parses the textual project description that drives an
// archive build: which directories to scan, which path patterns to keep
// or drop, and which files to include unconditionally.
package project

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Project is a parsed project description.
type Project struct {
	// Paths lists directories to scan recursively.
	Paths []string

	// Include and Exclude hold regex patterns applied to scanned
	// paths. Files named explicitly are never filtered.
	Include []string
	Exclude []string

	// Files lists paths included unconditionally.
	Files []string
}

// Load reads and parses the project description at path.
func Load(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open project file: %w", err)
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return p, nil
}

// Parse reads a project description. The format is line oriented:
//
//	# comment, stripped anywhere on a line
//	path <directory>
//	include <regex>
//	exclude <regex>
//	<file path>
//
// Directive keywords must be followed by whitespace; any other
// non-blank line is an explicit file path. Blank lines are ignored.
func Parse(r io.Reader) (*Project, error) {
	p := &Project{}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		if arg, ok := directive(line, "path"); ok {
			p.Paths = append(p.Paths, arg)
		} else if arg, ok := directive(line, "include"); ok {
			p.Include = append(p.Include, arg)
		} else if arg, ok := directive(line, "exclude"); ok {
			p.Exclude = append(p.Exclude, arg)
		} else if file := strings.TrimSpace(line); file != "" {
			p.Files = append(p.Files, file)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return p, nil
}

// OutputPath derives the archive path from the project file path by
// replacing its extension with ".spk".
func OutputPath(projectPath string) string {
	return strings.TrimSuffix(projectPath, filepath.Ext(projectPath)) + ".spk"
}

// directive matches "keyword <arg>". The keyword must be followed by a
// space or tab so that file paths sharing a prefix with a keyword (e.g.
// "pathological.txt") are not misparsed.
func directive(line, keyword string) (string, bool) {
	rest, ok := strings.CutPrefix(line, keyword)
	if !ok || rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}
	arg := strings.TrimSpace(rest)
	if arg == "" {
		return "", false
	}
	return arg, true
}
