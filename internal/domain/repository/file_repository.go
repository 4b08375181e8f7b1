// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"fileportal/internal/domain/entity"
	"fileportal/internal/errors"

	"github.com/google/uuid"
)

// ErrFileNotFound is returned when a file record is not found.
var ErrFileNotFound = errors.New("file not found")

// FileRepository defines the interface for file-metadata database operations.
// The file bytes themselves live in the service.FileStore; this repository
// only manages their records.
type FileRepository interface {
	// CreateFile persists a new file record.
	CreateFile(ctx context.Context, record *entity.FileRecord) error

	// FindFileByID retrieves a file record by its unique ID.
	FindFileByID(ctx context.Context, id uuid.UUID) (*entity.FileRecord, error)

	// FindFilesByUserID retrieves all file records owned by a user,
	// newest first.
	FindFilesByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.FileRecord, error)

	// DeleteFile removes a file record by its ID.
	DeleteFile(ctx context.Context, id uuid.UUID) error

	// CountFiles returns the portal-wide number of stored files.
	CountFiles(ctx context.Context) (int64, error)

	// CountFilesByType returns per-FileType counts across the whole portal.
	CountFilesByType(ctx context.Context) ([]entity.TypeCount, error)

	// CountFilesByUser returns per-owner counts across the whole portal.
	CountFilesByUser(ctx context.Context) ([]entity.UserCount, error)
}
