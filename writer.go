package scanpack

import (
	"bufio"
	"errors"
	"io"

	"github.com/meigma/scanpack/format"
)

// Writer emits the container stream: the magic once, then one chunk
// block per WriteChunk call, packed back to back with no padding.
// Blocks appear in the order they are written; sequential scan is the
// only read pattern the format supports.
type Writer struct {
	w       *bufio.Writer
	started bool
}

// NewWriter returns a Writer emitting to w. Output is buffered; the
// caller must Flush (or use Builder.Close) before the stream is
// complete.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriterSize(w, 64<<10)}
}

// Start writes the container magic. It must be called exactly once,
// before the first WriteChunk.
func (w *Writer) Start() error {
	if w.started {
		return errors.New("scanpack: writer already started")
	}
	w.started = true
	_, err := w.w.Write(format.Magic[:])
	return err
}

// WriteChunk appends one chunk block: a chunk header carrying the file
// count and both payload sizes, immediately followed by the compressed
// bytes.
func (w *Writer) WriteChunk(fileCount, uncompressedSize int, compressed []byte) error {
	if !w.started {
		return errors.New("scanpack: writer not started")
	}

	var hdr [format.ChunkHeaderSize]byte
	format.PutChunkHeader(hdr[:], format.ChunkHeader{
		FileCount:        uint32(fileCount),
		UncompressedSize: uint64(uncompressedSize),
		CompressedSize:   uint64(len(compressed)),
	})

	if _, err := w.w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.w.Write(compressed)
	return err
}

// Flush drains buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
