package codec

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// LZ4 compresses with LZ4 in high-compression mode. It is the container
// default: decode speed is what matters for a format built for repeated
// bulk scanning, and the HC match search only costs time once, at build
// time.
type LZ4 struct {
	c lz4.CompressorHC
}

// NewLZ4 returns an LZ4 codec at the highest compression level.
func NewLZ4() *LZ4 {
	return &LZ4{c: lz4.CompressorHC{Level: lz4.Level9}}
}

// Name implements Codec.
func (*LZ4) Name() string { return "lz4" }

// Bound implements Codec.
func (*LZ4) Bound(n int) int { return lz4.CompressBlockBound(n) }

// Compress implements Codec. Input the compressor cannot shrink is
// emitted as a literals-only LZ4 block, so the output is always a
// decodable block.
func (l *LZ4) Compress(src []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(src)))
	n, err := l.c.CompressBlock(src, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if n == 0 {
		// CompressBlock signals incompressible input with n == 0.
		n = literalBlock(dst, src)
	}
	return dst[:n], nil
}

// Decompress implements Codec.
func (*LZ4) Decompress(src []byte, uncompressedSize int) ([]byte, error) {
	dst := make([]byte, uncompressedSize)
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	if n != uncompressedSize {
		return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", n, uncompressedSize)
	}
	return dst, nil
}

// literalBlock encodes src into dst as a single literal run with no
// matches. The LZ4 block format allows the final sequence to carry
// literals only, which makes this a valid block for any input. dst must
// be at least CompressBlockBound(len(src)) bytes.
func literalBlock(dst, src []byte) int {
	di := 0
	n := len(src)
	if n < 15 {
		dst[di] = byte(n) << 4
		di++
	} else {
		dst[di] = 0xF0
		di++
		rem := n - 15
		for rem >= 255 {
			dst[di] = 255
			di++
			rem -= 255
		}
		dst[di] = byte(rem)
		di++
	}
	return di + copy(dst[di:], src)
}
