package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_PutAndDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocal(root, "/media/")
	require.NoError(t, err)
	store.now = func() time.Time { return time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC) }

	ctx := context.Background()
	url, err := store.Put(ctx, "articles", "Cover.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "/media/articles/2026/03/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	rel := strings.TrimPrefix(url, "/media/")
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, store.Delete(ctx, url))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(ctx, url), "second delete is a no-op")
}

func TestLocal_PutGeneratesDistinctNames(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/media")
	require.NoError(t, err)

	ctx := context.Background()
	a, err := store.Put(ctx, "articles", "a.jpg", strings.NewReader("1"))
	require.NoError(t, err)
	b, err := store.Put(ctx, "articles", "a.jpg", strings.NewReader("2"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestLocal_DeleteRejectsForeignURL(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/media")
	require.NoError(t, err)

	ctx := context.Background()
	assert.ErrorIs(t, store.Delete(ctx, "https://cdn.example.com/x.png"), ErrForeignURL)
	assert.ErrorIs(t, store.Delete(ctx, "/media/../etc/passwd"), ErrForeignURL)
}
