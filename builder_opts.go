package scanpack

import (
	"fmt"

	"github.com/meigma/scanpack/codec"
)

// Option configures a Builder.
type Option func(*Builder) error

// WithChunkSize sets the accumulation threshold in bytes. A chunk is
// flushed once its content size exceeds the threshold, checked before
// the next file is accepted, so a chunk can exceed the threshold by at
// most one file's size.
func WithChunkSize(n int) Option {
	return func(b *Builder) error {
		if n < 1 {
			return fmt.Errorf("chunk size must be at least 1 byte: %d", n)
		}
		b.chunkSize = n
		return nil
	}
}

// WithCodec sets the compression codec. The default is LZ4 in
// high-compression mode.
func WithCodec(c codec.Codec) Option {
	return func(b *Builder) error {
		if c == nil {
			return fmt.Errorf("codec must not be nil")
		}
		b.codec = c
		return nil
	}
}

// WithProgress registers a callback receiving statistics snapshots as
// the build advances.
func WithProgress(fn ProgressFunc) Option {
	return func(b *Builder) error {
		b.report = fn
		return nil
	}
}
