package main

import (
	"fmt"
	"io"

	"github.com/meigma/scanpack"
)

// progressPrinter renders in-place progress lines on a terminal. The
// last-reported compressed size acts as a latch: the builder emits a
// snapshot after every accepted file, but the totals only move when a
// chunk is written, and redrawing an unchanged line is wasted output.
type progressPrinter struct {
	w     io.Writer
	total int
	last  uint64
	quiet bool
}

func newProgressPrinter(w io.Writer, total int, quiet bool) *progressPrinter {
	return &progressPrinter{w: w, total: total, quiet: quiet}
}

func (p *progressPrinter) report(s scanpack.Stats) {
	if p.quiet || s.ResultSize == p.last {
		return
	}
	p.last = s.ResultSize

	percent := 0
	if p.total > 0 {
		percent = s.FileCount * 100 / p.total
	}
	fmt.Fprintf(p.w, "\r[%3d%%] %d files, %d MB in, %d MB out",
		percent, s.FileCount, s.FileSize>>20, s.ResultSize>>20)
}
