package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_PutGetDelete(t *testing.T) {
	dir := t.TempDir()
	blobs, err := NewLocal(filepath.Join(dir, "uploads"))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, blobs.Put(ctx, "a.png", strings.NewReader("png-bytes"), 9, "image/png"))

	blob, err := blobs.Get(ctx, "a.png")
	require.NoError(t, err)
	data, err := io.ReadAll(blob.Body)
	require.NoError(t, err)
	require.NoError(t, blob.Body.Close())
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, int64(9), blob.Size)
	assert.Equal(t, "image/png", blob.ContentType)

	require.NoError(t, blobs.Delete(ctx, "a.png"))
	_, err = blobs.Get(ctx, "a.png")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, blobs.Delete(ctx, "a.png"), "deleting a missing blob is not an error")
}

func TestLocal_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	blobs, err := NewLocal(dir)
	require.NoError(t, err)

	require.NoError(t, blobs.Put(context.Background(), "b.jpg", strings.NewReader("jpeg"), 4, "image/jpeg"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b.jpg", entries[0].Name())
}

func TestLocal_RejectsUnsafeNames(t *testing.T) {
	blobs, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, name := range []string{"../escape.png", "sub/dir.png", ".hidden", "", ".."} {
		assert.ErrorIs(t, blobs.Put(ctx, name, strings.NewReader("x"), 1, ""), ErrInvalidName, name)
		_, err := blobs.Get(ctx, name)
		assert.ErrorIs(t, err, ErrNotFound, name)
	}
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("3f1c9e0e-8d5b-4a43-9c53-0d2b8f1a7e6d.png"))
	assert.False(t, ValidName("a/b"))
	assert.False(t, ValidName(`a\b`))
	assert.False(t, ValidName(strings.Repeat("a", 200)))
}
