// Package storage implements the domain FileStore on top of gocloud.dev blob
// buckets, so the same code serves local disk in development and cloud object
// storage in production.
package storage

import (
	"context"
	"io"
	"log/slog"

	"fileportal/config"
	"fileportal/internal/domain/lifecycle"
	"fileportal/internal/domain/service"
	"fileportal/internal/errors"

	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // register the file:// bucket scheme
	_ "gocloud.dev/blob/memblob"  // register the mem:// bucket scheme
	"gocloud.dev/gcerrors"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// blobStore is a concrete implementation of the FileStore interface backed by
// a gocloud.dev bucket.
type blobStore struct {
	bucket *blob.Bucket
}

// New opens the configured bucket and registers its shutdown with the
// application lifecycle.
func New(params Params) (service.FileStore, error) {
	if params.Config.Storage == nil || params.Config.Storage.BucketURL == "" {
		return nil, errors.New("storage bucket URL must be provided")
	}

	openCtx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	bucket, err := blob.OpenBucket(openCtx, params.Config.Storage.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", params.Config.Storage.BucketURL)
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	params.Logger.Info("blob storage ready", slog.String("bucketURL", params.Config.Storage.BucketURL))

	return &blobStore{bucket: bucket}, nil
}

// NewWithBucket wraps an already-open bucket. Used by tests with mem:// buckets.
func NewWithBucket(bucket *blob.Bucket) service.FileStore {
	return &blobStore{bucket: bucket}
}

// Save streams the reader's contents into the bucket under the given key.
func (s *blobStore) Save(ctx context.Context, key string, r io.Reader) error {
	w, err := s.bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to open writer for %s", key)
	}

	if _, err := io.Copy(w, r); err != nil {
		// Closing after a failed copy aborts the write where the driver supports it.
		_ = w.Close()

		return errors.Wrapf(err, "failed to write %s", key)
	}

	if err := w.Close(); err != nil {
		return errors.Wrapf(err, "failed to finalize %s", key)
	}

	return nil
}

// Open returns a reader over the stored bytes for the given key.
// The caller owns the returned reader and must close it.
func (s *blobStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, errors.Wrapf(service.ErrFileContentMissing, "key %s", key)
		}

		return nil, errors.Wrapf(err, "failed to open reader for %s", key)
	}

	return r, nil
}

// Delete removes the stored bytes for the given key. Deleting a missing key
// is not an error, so cleanup paths can retry safely.
func (s *blobStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}

		return errors.Wrapf(err, "failed to delete %s", key)
	}

	return nil
}
