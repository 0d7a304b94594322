package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rgauld/dialectic/internal/storage"
)

func TestFileStore_UploadDownloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	err = store.Upload(ctx, "content", "proj1/sess1/iteration_1/thesis/gpt-4_1_argument.md", []byte("hello"))
	require.NoError(t, err)

	data, err := store.Download(ctx, "content", "proj1/sess1/iteration_1/thesis/gpt-4_1_argument.md")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), data)
}

func TestFileStore_DownloadMissing(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Download(ctx, "content", "nope.md")
	require.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestFileStore_RejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	err = store.Upload(ctx, "content", "../../etc/passwd", []byte("x"))
	require.Error(t, err)

	_, err = store.Download(ctx, "content", "../secret")
	require.Error(t, err)
}

func TestFileStore_RequiresBucketAndPath(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	err = store.Upload(ctx, "", "a.md", []byte("x"))
	require.Error(t, err)
	_, err = store.Download(ctx, "content", "")
	require.Error(t, err)
}

func TestNewFileStore_EmptyRoot(t *testing.T) {
	_, err := storage.NewFileStore("")
	require.Error(t, err)
}
