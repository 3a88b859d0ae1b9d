package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"q2.csv", "q1.csv", "book.xlsx", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	paths, err := DiscoverInputs(dir)
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "book.xlsx"),
		filepath.Join(dir, "q1.csv"),
		filepath.Join(dir, "q2.csv"),
	}
	assert.Equal(t, want, paths, "sorted, directories and unsupported files skipped")
}

func TestDiscoverInputs_MissingDir(t *testing.T) {
	_, err := DiscoverInputs(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "direct.csv")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	sub := filepath.Join(dir, "batch")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.csv"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "b.xlsx"), []byte("x"), 0o644))

	paths, err := ExpandInputs([]string{file, sub})
	require.NoError(t, err)
	assert.Equal(t, []string{file, filepath.Join(sub, "a.csv"), filepath.Join(sub, "b.xlsx")}, paths)
}

func TestExpandInputs_EmptyDir(t *testing.T) {
	_, err := ExpandInputs([]string{t.TempDir()})
	assert.ErrorContains(t, err, "no csv or xlsx files")
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("results.CSV"))
	assert.True(t, IsSupported("/tmp/book.xlsx"))
	assert.False(t, IsSupported("report.pdf"))
}
