package scanpack

// File is one input queued for archiving. Name is stored verbatim as
// the archive key. Data holds the complete contents; the builder takes
// ownership of the slice until the enclosing chunk is flushed.
type File struct {
	Name    string
	Data    []byte
	Size    uint64 // original size on disk
	ModTime uint64 // modification time, unix seconds
}

// chunk accumulates files between flushes. totalSize counts content
// bytes only; names and header records are excluded from the threshold
// accounting.
type chunk struct {
	files     []File
	totalSize int
}

func (c *chunk) append(f File) {
	c.files = append(c.files, f)
	c.totalSize += len(f.Data)
}
