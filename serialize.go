package scanpack

import "github.com/meigma/scanpack/format"

// serializeChunk lays a chunk's files out as one contiguous payload:
// the fixed-width header array, then every name, then every file's
// contents, all in insertion order. Offsets recorded in the headers are
// absolute within the returned buffer, so a reader can slice out any
// file with no further bookkeeping. The caller guarantees files is
// non-empty.
func serializeChunk(files []File) []byte {
	headerSize := len(files) * format.FileHeaderSize
	nameSize, dataSize := 0, 0
	for i := range files {
		nameSize += len(files[i].Name)
		dataSize += len(files[i].Data)
	}

	buf := make([]byte, headerSize+nameSize+dataSize)
	nameOffset := headerSize
	dataOffset := headerSize + nameSize

	for i := range files {
		f := &files[i]
		format.PutFileHeader(buf[i*format.FileHeaderSize:], format.FileHeader{
			NameOffset: uint64(nameOffset),
			NameLength: uint32(len(f.Name)),
			DataOffset: uint64(dataOffset),
			DataSize:   uint64(len(f.Data)),
			FileSize:   f.Size,
			TimeStamp:  f.ModTime,
		})
		copy(buf[nameOffset:], f.Name)
		copy(buf[dataOffset:], f.Data)
		nameOffset += len(f.Name)
		dataOffset += len(f.Data)
	}

	return buf
}
