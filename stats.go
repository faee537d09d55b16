package scanpack

// Stats is a read-only snapshot of cumulative build totals. Every field
// is non-decreasing for the lifetime of one build; values change only
// when a chunk is written.
type Stats struct {
	// FileCount is the number of files written to the archive.
	FileCount int

	// FileSize is the sum of uncompressed chunk payload lengths.
	FileSize uint64

	// ResultSize is the sum of compressed chunk lengths, excluding the
	// container magic and chunk headers.
	ResultSize uint64
}

// tracker accumulates Stats across chunk writes.
type tracker struct {
	s Stats
}

func (t *tracker) addChunk(files int, payloadLen, compressedLen uint64) {
	t.s.FileCount += files
	t.s.FileSize += payloadLen
	t.s.ResultSize += compressedLen
}

func (t *tracker) snapshot() Stats { return t.s }
