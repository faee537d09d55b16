package scanpack

import "errors"

var (
	// ErrClosed is returned when appending to or flushing a builder
	// after Close.
	ErrClosed = errors.New("scanpack: builder closed")

	// ErrBoundExceeded is returned when a codec produces more bytes
	// than its declared worst-case bound. This indicates a corrupted
	// buffer or a codec implementation mismatch; the build cannot
	// continue.
	ErrBoundExceeded = errors.New("scanpack: compressed size exceeds codec bound")
)
