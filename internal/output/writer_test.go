package output

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aagalakova/Media-processor/internal/logging"
	"github.com/aagalakova/Media-processor/internal/media"
)

func variant(name, data string) media.Variant {
	return media.Variant{Name: name, Data: []byte(data), Size: int64(len(data))}
}

func TestWriterWritesVariants(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w, err := NewWriter(dir, false, logging.Discard())
	require.NoError(t, err)

	paths, err := w.Write([]media.Variant{variant("a.png", "one"), variant("a_2.png", "two")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "a_2.png")}, paths)

	data, err := os.ReadFile(filepath.Join(dir, "a_2.png"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
	assert.Equal(t, uint64(6), w.BytesWritten())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary files must not be left behind")
}

func TestWriterResolvesExistingNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.mp4"), []byte("old"), 0o644))

	w, err := NewWriter(dir, false, logging.Discard())
	require.NoError(t, err)

	paths, err := w.Write([]media.Variant{variant("clip.mp4", "new"), variant("clip.mp4", "newer")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "clip - dup1.mp4"),
		filepath.Join(dir, "clip - dup2.mp4"),
	}, paths)

	old, err := os.ReadFile(filepath.Join(dir, "clip.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))
}

func TestWriterOverwrite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.mp4"), []byte("old"), 0o644))

	w, err := NewWriter(dir, true, logging.Discard())
	require.NoError(t, err)

	paths, err := w.Write([]media.Variant{variant("clip.mp4", "new"), variant("clip.mp4", "again")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "clip.mp4"), paths[0])
	assert.Equal(t, filepath.Join(dir, "clip - dup1.mp4"), paths[1], "a run never overwrites its own output")

	data, err := os.ReadFile(filepath.Join(dir, "clip.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWriterStripsDirectories(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, false, logging.Discard())
	require.NoError(t, err)

	paths, err := w.Write([]media.Variant{variant("../escape.png", "x")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.png"), paths[0])
}

func TestWriterSinkReportsErrors(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, false, logging.Discard())
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	var got error
	w.Sink(func(err error) { got = err })([]media.Variant{variant("a.png", "x")})
	assert.Error(t, got)
	assert.Empty(t, w.Written())
}
