package service

import (
	"context"
	"io"

	"fileportal/internal/errors"
)

// ErrFileContentMissing is returned when a record's bytes are absent from the
// store, usually after out-of-band bucket changes.
var ErrFileContentMissing = errors.New("file content missing from store")

// FileStore defines the interface for storing and retrieving raw file bytes.
// Records in the database reference blobs here by key; the usecase layer
// never touches the underlying bucket directly.
type FileStore interface {
	// Save writes the contents of r under key, replacing any prior blob.
	Save(ctx context.Context, key string, r io.Reader) error

	// Open returns a reader over the blob stored under key.
	// The caller must close it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob stored under key.
	Delete(ctx context.Context, key string) error
}
