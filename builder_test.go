package scanpack

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/scanpack/codec"
	"github.com/meigma/scanpack/format"
)

type archivedFile struct {
	name    string
	data    []byte
	size    uint64
	modTime uint64
}

type archivedChunk struct {
	header format.ChunkHeader
	files  []archivedFile
}

// readArchive parses a complete container and verifies the structural
// invariants of every chunk along the way: magic, header/payload size
// agreement, monotone offsets, and the final offset landing exactly on
// the payload end.
func readArchive(t *testing.T, raw []byte, c codec.Codec) []archivedChunk {
	t.Helper()

	require.NoError(t, format.CheckMagic(raw))
	off := format.MagicSize

	var chunks []archivedChunk
	for off < len(raw) {
		h, err := format.ParseChunkHeader(raw[off:])
		require.NoError(t, err)
		off += format.ChunkHeaderSize

		require.LessOrEqual(t, off+int(h.CompressedSize), len(raw), "compressed block truncated")
		payload, err := c.Decompress(raw[off:off+int(h.CompressedSize)], int(h.UncompressedSize))
		require.NoError(t, err)
		off += int(h.CompressedSize)

		headers, err := format.ParseFileHeaders(payload, h.FileCount)
		require.NoError(t, err)

		chunk := archivedChunk{header: h}
		prevName, prevData := uint64(0), uint64(0)
		for i, fh := range headers {
			assert.GreaterOrEqual(t, fh.NameOffset, prevName, "name offsets must be monotone")
			assert.GreaterOrEqual(t, fh.DataOffset, prevData, "data offsets must be monotone")
			assert.LessOrEqual(t, fh.DataOffset+fh.DataSize, uint64(len(payload)))
			prevName = fh.NameOffset + uint64(fh.NameLength)
			prevData = fh.DataOffset + fh.DataSize

			chunk.files = append(chunk.files, archivedFile{
				name:    string(fh.Name(payload)),
				data:    bytes.Clone(fh.Data(payload)),
				size:    fh.FileSize,
				modTime: fh.TimeStamp,
			})
			if i == len(headers)-1 {
				assert.Equal(t, uint64(len(payload)), fh.DataOffset+fh.DataSize,
					"last file must end exactly at the payload end")
			}
		}
		chunks = append(chunks, chunk)
	}
	require.Equal(t, len(raw), off, "trailing bytes after last chunk")

	return chunks
}

func testFile(name string, size int) File {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i*7 + len(name))
	}
	return File{Name: name, Data: data, Size: uint64(size), ModTime: 1700000000 + uint64(size)}
}

func TestBuilderRoundTrip(t *testing.T) {
	t.Parallel()

	files := []File{
		testFile("src/a.go", 100),
		testFile("src/b.go", 2500),
		testFile("README.md", 1),
		testFile("data/blob.bin", 9000),
		testFile("empty.txt", 0),
	}

	var buf bytes.Buffer
	b, err := NewBuilder(&buf, WithChunkSize(2048))
	require.NoError(t, err)
	for _, f := range files {
		require.NoError(t, b.Append(f))
	}
	require.NoError(t, b.Close())

	var got []archivedFile
	for _, chunk := range readArchive(t, buf.Bytes(), codec.NewLZ4()) {
		assert.Equal(t, int(chunk.header.FileCount), len(chunk.files))
		got = append(got, chunk.files...)
	}

	require.Len(t, got, len(files))
	for i, f := range files {
		assert.Equal(t, f.Name, got[i].name)
		assert.Equal(t, f.Data, got[i].data)
		assert.Equal(t, f.Size, got[i].size)
		assert.Equal(t, f.ModTime, got[i].modTime)
	}
}

func TestBuilderRoundTripSmallThresholds(t *testing.T) {
	t.Parallel()

	files := []File{
		testFile("a", 3),
		testFile("b", 17),
		testFile("c", 256),
		testFile("d", 1),
	}

	for _, threshold := range []int{1, 2, 16, 255, 1 << 20} {
		var buf bytes.Buffer
		b, err := NewBuilder(&buf, WithChunkSize(threshold))
		require.NoError(t, err)
		for _, f := range files {
			require.NoError(t, b.Append(f))
		}
		require.NoError(t, b.Close())

		var got []archivedFile
		for _, chunk := range readArchive(t, buf.Bytes(), codec.NewLZ4()) {
			got = append(got, chunk.files...)
		}
		require.Len(t, got, len(files), "threshold %d", threshold)
		for i, f := range files {
			assert.Equal(t, f.Name, got[i].name, "threshold %d", threshold)
			assert.Equal(t, f.Data, got[i].data, "threshold %d", threshold)
		}
	}
}

func TestChunkBoundary(t *testing.T) {
	t.Parallel()

	// Threshold 12: a (10 bytes) fits, b (5 bytes) joins it because the
	// check runs before the append. The running total of 15 then
	// triggers a flush before c is accepted.
	var buf bytes.Buffer
	b, err := NewBuilder(&buf, WithChunkSize(12))
	require.NoError(t, err)
	require.NoError(t, b.Append(testFile("a.txt", 10)))
	require.NoError(t, b.Append(testFile("b.txt", 5)))
	require.NoError(t, b.Append(testFile("c.txt", 2000)))
	require.NoError(t, b.Close())

	chunks := readArchive(t, buf.Bytes(), codec.NewLZ4())
	require.Len(t, chunks, 2)

	assert.Equal(t, uint32(2), chunks[0].header.FileCount)
	assert.Equal(t, "a.txt", chunks[0].files[0].name)
	assert.Equal(t, "b.txt", chunks[0].files[1].name)

	assert.Equal(t, uint32(1), chunks[1].header.FileCount)
	assert.Equal(t, "c.txt", chunks[1].files[0].name)
}

func TestChunkBoundaryThresholdOne(t *testing.T) {
	t.Parallel()

	// Every file but the first lands in its own chunk: any non-empty
	// chunk already exceeds a 1-byte threshold.
	var buf bytes.Buffer
	b, err := NewBuilder(&buf, WithChunkSize(1))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, b.Append(testFile(string(rune('a'+i)), 2)))
	}
	require.NoError(t, b.Close())

	chunks := readArchive(t, buf.Bytes(), codec.NewLZ4())
	require.Len(t, chunks, 3)
	for _, chunk := range chunks {
		assert.Equal(t, uint32(1), chunk.header.FileCount)
	}
}

func TestEmptyInput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	b, err := NewBuilder(&buf)
	require.NoError(t, err)
	require.NoError(t, b.Close())

	assert.Equal(t, format.Magic[:], buf.Bytes())
	assert.Equal(t, Stats{}, b.Stats())
}

func TestFlushIdempotent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	b, err := NewBuilder(&buf)
	require.NoError(t, err)
	require.NoError(t, b.Append(testFile("a", 10)))

	require.NoError(t, b.Flush())
	sizeAfterFirst := buf.Len()
	statsAfterFirst := b.Stats()

	// A second flush with nothing accumulated must not emit an empty
	// chunk block.
	require.NoError(t, b.Flush())
	assert.Equal(t, sizeAfterFirst, buf.Len())
	assert.Equal(t, statsAfterFirst, b.Stats())

	require.NoError(t, b.Close())
	chunks := readArchive(t, buf.Bytes(), codec.NewLZ4())
	assert.Len(t, chunks, 1)
}

func TestStatsAccuracy(t *testing.T) {
	t.Parallel()

	var snapshots []Stats
	var buf bytes.Buffer
	b, err := NewBuilder(&buf,
		WithChunkSize(64),
		WithProgress(func(s Stats) { snapshots = append(snapshots, s) }),
	)
	require.NoError(t, err)

	files := []File{testFile("a", 50), testFile("b", 60), testFile("c", 70)}
	for _, f := range files {
		require.NoError(t, b.Append(f))
	}
	require.NoError(t, b.Close())

	var wantFiles int
	var wantPayload, wantCompressed uint64
	for _, chunk := range readArchive(t, buf.Bytes(), codec.NewLZ4()) {
		wantFiles += int(chunk.header.FileCount)
		wantPayload += chunk.header.UncompressedSize
		wantCompressed += chunk.header.CompressedSize
	}

	final := b.Stats()
	assert.Equal(t, len(files), final.FileCount)
	assert.Equal(t, wantFiles, final.FileCount)
	assert.Equal(t, wantPayload, final.FileSize)
	assert.Equal(t, wantCompressed, final.ResultSize)

	// Snapshots never decrease.
	prev := Stats{}
	for _, s := range snapshots {
		assert.GreaterOrEqual(t, s.FileCount, prev.FileCount)
		assert.GreaterOrEqual(t, s.FileSize, prev.FileSize)
		assert.GreaterOrEqual(t, s.ResultSize, prev.ResultSize)
		prev = s
	}
	assert.Equal(t, final, prev)
}

func TestBuilderZstd(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	b, err := NewBuilder(&buf, WithChunkSize(128), WithCodec(codec.NewZstd()))
	require.NoError(t, err)

	files := []File{testFile("a", 200), testFile("b", 300)}
	for _, f := range files {
		require.NoError(t, b.Append(f))
	}
	require.NoError(t, b.Close())

	var got []archivedFile
	for _, chunk := range readArchive(t, buf.Bytes(), codec.NewZstd()) {
		got = append(got, chunk.files...)
	}
	require.Len(t, got, 2)
	assert.Equal(t, files[0].Data, got[0].data)
	assert.Equal(t, files[1].Data, got[1].data)
}

func TestBuilderClosed(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	b, err := NewBuilder(&buf)
	require.NoError(t, err)
	require.NoError(t, b.Close())

	assert.ErrorIs(t, b.Append(testFile("a", 1)), ErrClosed)
	assert.ErrorIs(t, b.Flush(), ErrClosed)
	assert.NoError(t, b.Close())
}

func TestBuilderOptionErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	_, err := NewBuilder(&buf, WithChunkSize(0))
	assert.Error(t, err)
	_, err = NewBuilder(&buf, WithCodec(nil))
	assert.Error(t, err)
}

func TestCreateFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.spk")
	b, err := CreateFile(path)
	require.NoError(t, err)
	require.NoError(t, b.Append(testFile("a", 10)))
	require.NoError(t, b.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	chunks := readArchive(t, raw, codec.NewLZ4())
	require.Len(t, chunks, 1)
	assert.Equal(t, "a", chunks[0].files[0].name)
}

func TestCreateFileBadPath(t *testing.T) {
	t.Parallel()

	_, err := CreateFile(filepath.Join(t.TempDir(), "missing", "out.spk"))
	assert.Error(t, err)
}
