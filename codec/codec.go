// Package codec abstracts the block compression used for chunk
// payloads, so the archive pipeline never touches a compression library
// directly and the algorithm can be swapped without changing the
// serializer or the container writer.
package codec

import "fmt"

// Codec compresses whole chunk payloads. Implementations must guarantee
// that Compress never returns more than Bound(len(src)) bytes and that
// Decompress with the original uncompressed size reproduces the input
// exactly.
type Codec interface {
	// Name returns the codec's short identifier (e.g. "lz4").
	Name() string

	// Bound returns the worst-case compressed size for n input bytes.
	Bound(n int) int

	// Compress returns the compressed form of src.
	Compress(src []byte) ([]byte, error)

	// Decompress reverses Compress. The caller supplies the exact
	// uncompressed size recorded at compression time; any mismatch is
	// an error. The build pipeline never calls this — it exists for
	// readers and verification.
	Decompress(src []byte, uncompressedSize int) ([]byte, error)
}

// ByName returns the codec registered under name.
func ByName(name string) (Codec, error) {
	switch name {
	case "lz4":
		return NewLZ4(), nil
	case "zstd":
		return NewZstd(), nil
	default:
		return nil, fmt.Errorf("codec: unknown codec %q", name)
	}
}
