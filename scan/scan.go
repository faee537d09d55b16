// Package scan discovers the files feeding an archive build: recursive
// directory traversal with optional regex filtering of the discovered
// paths.
package scan

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
)

// Filter accepts or rejects paths using optional include and exclude
// patterns. The zero-value-like filter from NewFilter(nil, nil) accepts
// everything.
type Filter struct {
	include *regexp.Regexp
	exclude *regexp.Regexp
}

// NewFilter compiles the given pattern lists. Each list is combined
// into a single case-insensitive alternation compiled once per build; a
// malformed pattern is a configuration error and must abort the build
// before any output is written.
func NewFilter(include, exclude []string) (*Filter, error) {
	f := &Filter{}
	var err error
	if f.include, err = compileAny(include); err != nil {
		return nil, fmt.Errorf("include: %w", err)
	}
	if f.exclude, err = compileAny(exclude); err != nil {
		return nil, fmt.Errorf("exclude: %w", err)
	}
	return f, nil
}

// HasInclude reports whether an include pattern is set.
func (f *Filter) HasInclude() bool { return f.include != nil }

// HasExclude reports whether an exclude pattern is set.
func (f *Filter) HasExclude() bool { return f.exclude != nil }

// Match reports whether path passes the filter: it must match the
// include pattern when one is set, and must not match the exclude
// pattern. Matching is unanchored, against slash-separated paths.
func (f *Filter) Match(path string) bool {
	if f.include != nil && !f.include.MatchString(path) {
		return false
	}
	if f.exclude != nil && f.exclude.MatchString(path) {
		return false
	}
	return true
}

// compileAny ORs patterns into one case-insensitive regexp. Returns nil
// for an empty list.
func compileAny(patterns []string) (*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	var sb strings.Builder
	sb.WriteString("(?i)")
	for i, p := range patterns {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString("(")
		sb.WriteString(p)
		sb.WriteString(")")
	}
	return regexp.Compile(sb.String())
}

// Files walks each root and returns the slash-separated paths of
// regular files passing the filter, in traversal order. Unreadable
// directories or entries are logged and skipped rather than aborting
// the scan; a missing root is reported the same way.
func Files(roots []string, filter *Filter, log *slog.Logger) []string {
	var out []string
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Warn("skipping unreadable path", "path", path, "error", err)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			p := filepath.ToSlash(path)
			if filter.Match(p) {
				out = append(out, p)
			}
			return nil
		})
		if err != nil {
			log.Warn("scan failed", "root", root, "error", err)
		}
	}
	return out
}
