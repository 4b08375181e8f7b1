package usecase

import (
	"context"
	"io"

	"fileportal/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// UploadFileInput carries one incoming file. Content is streamed into blob
// storage, so the whole file never has to sit in memory.
type UploadFileInput struct {
	UserID   uuid.UUID
	Filename string
	Size     int64
	Content  io.Reader
}

// --- Output DTOs ---

// DownloadFileOutput pairs a file's metadata with a reader over its bytes.
// The caller must close Content.
type DownloadFileOutput struct {
	Record  *entity.FileRecord
	Content io.ReadCloser
}

// FileUsecase defines the interface for file storage operations. All
// operations are scoped to the requesting user; portal statistics are the
// only cross-user view.
type FileUsecase interface {
	ListFiles(ctx context.Context, userID uuid.UUID) ([]*entity.FileRecord, error)
	UploadFile(ctx context.Context, input UploadFileInput) (*entity.FileRecord, error)
	DownloadFile(ctx context.Context, userID, fileID uuid.UUID) (*DownloadFileOutput, error)
	DeleteFile(ctx context.Context, userID, fileID uuid.UUID) error
	GetStats(ctx context.Context) (*entity.PortalStats, error)
}
