package scan

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(p), 0o644))
	}
}

func TestFilterMatch(t *testing.T) {
	t.Parallel()

	f, err := NewFilter([]string{`\.go$`, `\.md$`}, []string{`vendor/`})
	require.NoError(t, err)
	assert.True(t, f.HasInclude())
	assert.True(t, f.HasExclude())

	assert.True(t, f.Match("src/main.go"))
	assert.True(t, f.Match("README.md"))
	assert.False(t, f.Match("src/main.c"))
	assert.False(t, f.Match("vendor/lib/a.go"))

	// Patterns are case-insensitive.
	assert.True(t, f.Match("SRC/MAIN.GO"))
	assert.False(t, f.Match("VENDOR/a.GO"))
}

func TestFilterEmpty(t *testing.T) {
	t.Parallel()

	f, err := NewFilter(nil, nil)
	require.NoError(t, err)
	assert.False(t, f.HasInclude())
	assert.False(t, f.HasExclude())
	assert.True(t, f.Match("anything/at/all"))
}

func TestFilterBadPattern(t *testing.T) {
	t.Parallel()

	_, err := NewFilter([]string{`(`}, nil)
	assert.Error(t, err)
	_, err = NewFilter(nil, []string{`[z-a]`})
	assert.Error(t, err)
}

func TestFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root,
		"a.go",
		"b.txt",
		"sub/c.go",
		"sub/deep/d.go",
		"skip/e.go",
	)

	f, err := NewFilter([]string{`\.go$`}, []string{`skip/`})
	require.NoError(t, err)

	got := Files([]string{root}, f, discard())
	want := []string{
		filepath.ToSlash(filepath.Join(root, "a.go")),
		filepath.ToSlash(filepath.Join(root, "sub/c.go")),
		filepath.ToSlash(filepath.Join(root, "sub/deep/d.go")),
	}
	assert.ElementsMatch(t, want, got)
}

func TestFilesMissingRoot(t *testing.T) {
	t.Parallel()

	got := Files([]string{filepath.Join(t.TempDir(), "nope")}, &Filter{}, discard())
	assert.Empty(t, got)
}
