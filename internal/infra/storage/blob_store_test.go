package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"fileportal/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"fileportal/internal/errors"
)

func newMemStore(t *testing.T) service.FileStore {
	t.Helper()

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })

	return NewWithBucket(bucket)
}

func TestBlobStore_SaveAndOpen(t *testing.T) {
	store := newMemStore(t)
	ctx := context.Background()

	err := store.Save(ctx, "user_1/report.pdf", strings.NewReader("pdf bytes"))
	require.NoError(t, err)

	r, err := store.Open(ctx, "user_1/report.pdf")
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))
}

func TestBlobStore_OpenMissingKey(t *testing.T) {
	store := newMemStore(t)

	r, err := store.Open(context.Background(), "user_1/missing.txt")
	assert.Nil(t, r)
	assert.True(t, errors.Is(err, service.ErrFileContentMissing))
}

func TestBlobStore_Delete(t *testing.T) {
	store := newMemStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user_1/old.txt", strings.NewReader("old")))
	require.NoError(t, store.Delete(ctx, "user_1/old.txt"))

	_, err := store.Open(ctx, "user_1/old.txt")
	assert.Error(t, err)

	// Deleting an already-deleted key is a no-op.
	assert.NoError(t, store.Delete(ctx, "user_1/old.txt"))
}

func TestBlobStore_SaveReplacesExisting(t *testing.T) {
	store := newMemStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "user_1/notes.txt", strings.NewReader("first")))
	require.NoError(t, store.Save(ctx, "user_1/notes.txt", strings.NewReader("second")))

	r, err := store.Open(ctx, "user_1/notes.txt")
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}
