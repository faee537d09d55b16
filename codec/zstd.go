package codec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Zstd compresses with zstd at its highest level. Better ratios than
// LZ4 on text-heavy corpora at the cost of slower decode.
type Zstd struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewZstd returns a zstd codec tuned for ratio over speed. The encoder
// is single-threaded to match the strictly sequential build pipeline.
func NewZstd() *Zstd {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedBestCompression),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		panic("codec: zstd encoder initialization failed: " + err.Error())
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		panic("codec: zstd decoder initialization failed: " + err.Error())
	}
	return &Zstd{enc: enc, dec: dec}
}

// Name implements Codec.
func (*Zstd) Name() string { return "zstd" }

// Bound implements Codec. Based on the reference ZSTD_compressBound
// formula (block framing overhead, extra margin for small inputs) plus
// headroom for the frame header and checksum.
func (*Zstd) Bound(n int) int {
	bound := n + n>>8 + 64
	if n < 128<<10 {
		bound += (128<<10 - n) >> 11
	}
	return bound
}

// Compress implements Codec.
func (z *Zstd) Compress(src []byte) ([]byte, error) {
	return z.enc.EncodeAll(src, nil), nil
}

// Decompress implements Codec.
func (z *Zstd) Decompress(src []byte, uncompressedSize int) ([]byte, error) {
	dst, err := z.dec.DecodeAll(src, make([]byte, 0, uncompressedSize))
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if len(dst) != uncompressedSize {
		return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(dst), uncompressedSize)
	}
	return dst, nil
}
