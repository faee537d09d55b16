// Package format defines the scanpack container wire format.
//
// A container is the 8-byte magic followed by zero or more chunk blocks,
// packed back to back with no padding:
//
//	magic            [8]byte
//	repeated {
//	    ChunkHeader  20 bytes
//	    compressed   ChunkHeader.CompressedSize bytes
//	}
//
// Decompressing a block's payload yields ChunkHeader.UncompressedSize
// bytes laid out as:
//
//	FileHeader × ChunkHeader.FileCount   44 bytes each
//	name bytes, concatenated in file order
//	data bytes, concatenated in file order
//
// Every offset in a FileHeader is absolute within the payload, so a
// reader locates any file's name and contents with two offset/length
// pairs and no separate index. All integers are unsigned little-endian,
// written field by field; nothing in the format depends on in-memory
// struct layout.
package format

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Magic identifies a scanpack container. The layout mirrors the PNG
// signature: a high bit to catch 7-bit transfer corruption, the format
// name with a version digit, then CRLF/EOF bytes to catch newline
// translation.
var Magic = [MagicSize]byte{0x89, 'S', 'P', 'K', '1', 0x0D, 0x0A, 0x1A}

// Fixed sizes of the container's encoded records, in bytes.
const (
	MagicSize       = 8
	ChunkHeaderSize = 4 + 8 + 8
	FileHeaderSize  = 8 + 4 + 8 + 8 + 8 + 8
)

// ErrBadMagic is returned when a buffer does not begin with the
// container magic.
var ErrBadMagic = errors.New("format: bad magic")

// ChunkHeader precedes each compressed chunk block in the container.
type ChunkHeader struct {
	FileCount        uint32
	UncompressedSize uint64
	CompressedSize   uint64
}

// FileHeader is one record of the header array at the start of a
// chunk's uncompressed payload. NameOffset and DataOffset are absolute
// byte offsets within the payload.
type FileHeader struct {
	NameOffset uint64
	NameLength uint32
	DataOffset uint64
	DataSize   uint64
	FileSize   uint64 // original size on disk
	TimeStamp  uint64 // modification time, unix seconds
}

// CheckMagic verifies that b begins with the container magic.
func CheckMagic(b []byte) error {
	if len(b) < MagicSize || [MagicSize]byte(b[:MagicSize]) != Magic {
		return ErrBadMagic
	}
	return nil
}

// PutChunkHeader encodes h into dst, which must be at least
// ChunkHeaderSize bytes.
func PutChunkHeader(dst []byte, h ChunkHeader) {
	_ = dst[ChunkHeaderSize-1]
	binary.LittleEndian.PutUint32(dst[0:], h.FileCount)
	binary.LittleEndian.PutUint64(dst[4:], h.UncompressedSize)
	binary.LittleEndian.PutUint64(dst[12:], h.CompressedSize)
}

// ParseChunkHeader decodes a ChunkHeader from the start of src.
func ParseChunkHeader(src []byte) (ChunkHeader, error) {
	if len(src) < ChunkHeaderSize {
		return ChunkHeader{}, fmt.Errorf("format: chunk header truncated: %d bytes", len(src))
	}
	return ChunkHeader{
		FileCount:        binary.LittleEndian.Uint32(src[0:]),
		UncompressedSize: binary.LittleEndian.Uint64(src[4:]),
		CompressedSize:   binary.LittleEndian.Uint64(src[12:]),
	}, nil
}

// PutFileHeader encodes h into dst, which must be at least
// FileHeaderSize bytes.
func PutFileHeader(dst []byte, h FileHeader) {
	_ = dst[FileHeaderSize-1]
	binary.LittleEndian.PutUint64(dst[0:], h.NameOffset)
	binary.LittleEndian.PutUint32(dst[8:], h.NameLength)
	binary.LittleEndian.PutUint64(dst[12:], h.DataOffset)
	binary.LittleEndian.PutUint64(dst[20:], h.DataSize)
	binary.LittleEndian.PutUint64(dst[28:], h.FileSize)
	binary.LittleEndian.PutUint64(dst[36:], h.TimeStamp)
}

// ParseFileHeader decodes a FileHeader from the start of src.
func ParseFileHeader(src []byte) (FileHeader, error) {
	if len(src) < FileHeaderSize {
		return FileHeader{}, fmt.Errorf("format: file header truncated: %d bytes", len(src))
	}
	return FileHeader{
		NameOffset: binary.LittleEndian.Uint64(src[0:]),
		NameLength: binary.LittleEndian.Uint32(src[8:]),
		DataOffset: binary.LittleEndian.Uint64(src[12:]),
		DataSize:   binary.LittleEndian.Uint64(src[20:]),
		FileSize:   binary.LittleEndian.Uint64(src[28:]),
		TimeStamp:  binary.LittleEndian.Uint64(src[36:]),
	}, nil
}

// ParseFileHeaders decodes the header array at the start of a chunk
// payload and validates that every name and data slice lies within the
// payload bounds.
func ParseFileHeaders(payload []byte, count uint32) ([]FileHeader, error) {
	arraySize := uint64(count) * FileHeaderSize
	if arraySize > uint64(len(payload)) {
		return nil, fmt.Errorf("format: header array (%d entries) exceeds payload of %d bytes", count, len(payload))
	}
	headers := make([]FileHeader, count)
	for i := range headers {
		h, err := ParseFileHeader(payload[i*FileHeaderSize:])
		if err != nil {
			return nil, err
		}
		if h.NameOffset > uint64(len(payload)) || uint64(h.NameLength) > uint64(len(payload))-h.NameOffset {
			return nil, fmt.Errorf("format: entry %d: name slice [%d, +%d) out of bounds", i, h.NameOffset, h.NameLength)
		}
		if h.DataOffset > uint64(len(payload)) || h.DataSize > uint64(len(payload))-h.DataOffset {
			return nil, fmt.Errorf("format: entry %d: data slice [%d, +%d) out of bounds", i, h.DataOffset, h.DataSize)
		}
		headers[i] = h
	}
	return headers, nil
}

// Name returns the file's name bytes within payload. The header must
// have been validated against this payload.
func (h FileHeader) Name(payload []byte) []byte {
	return payload[h.NameOffset : h.NameOffset+uint64(h.NameLength)]
}

// Data returns the file's content bytes within payload. The header must
// have been validated against this payload.
func (h FileHeader) Data(payload []byte) []byte {
	return payload[h.DataOffset : h.DataOffset+h.DataSize]
}
