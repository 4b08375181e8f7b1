package impl

import (
	"context"
	"fmt"
	"log/slog"

	deliverycontext "fileportal/internal/delivery/context"
	"fileportal/internal/domain/entity"
	domainerrors "fileportal/internal/domain/errors"
	"fileportal/internal/domain/repository"
	"fileportal/internal/domain/service"
	"fileportal/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// fileService implements the FileUsecase interface.
type fileService struct {
	txManager repository.TransactionManager
	fileRepo  repository.FileRepository
	userRepo  repository.UserRepository
	store     service.FileStore
	logger    *slog.Logger
}

// FileServiceParams holds dependencies for FileService, injected by Fx.
type FileServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	FileRepo  repository.FileRepository
	UserRepo  repository.UserRepository
	Store     service.FileStore
	Logger    *slog.Logger
}

// NewFileService is the constructor for fileService.
func NewFileService(params FileServiceParams) usecase.FileUsecase {
	return &fileService{
		txManager: params.TxManager,
		fileRepo:  params.FileRepo,
		userRepo:  params.UserRepo,
		store:     params.Store,
		logger:    params.Logger,
	}
}

func (srv *fileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListFiles returns the user's files, newest first.
func (srv *fileService) ListFiles(ctx context.Context, userID uuid.UUID) ([]*entity.FileRecord, error) {
	records, err := srv.fileRepo.FindFilesByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list files")
	}

	return records, nil
}

// UploadFile streams the content into blob storage and records its metadata.
// The blob is written first; if the record insert then fails the blob is
// deleted best-effort, so the database never references missing bytes.
func (srv *fileService) UploadFile(ctx context.Context, input usecase.UploadFileInput) (*entity.FileRecord, error) {
	owner, err := srv.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrNotFound
		}

		return nil, errors.Wrap(err, "failed to load uploader")
	}

	record := &entity.FileRecord{
		ID:        uuid.New(),
		UserID:    owner.ID,
		OwnerName: owner.Username,
		Filename:  input.Filename,
		FileType:  entity.DetectFileType(input.Filename),
		Size:      input.Size,
	}
	record.StorageKey = fmt.Sprintf("user_%s/%s_%s", owner.ID, record.ID, input.Filename)

	// 1. Write the bytes.
	if err := srv.store.Save(ctx, record.StorageKey, input.Content); err != nil {
		return nil, errors.Wrap(err, "failed to store file content")
	}

	// 2. Record the metadata.
	if err := srv.fileRepo.CreateFile(ctx, record); err != nil {
		if cleanupErr := srv.store.Delete(ctx, record.StorageKey); cleanupErr != nil {
			srv.log(ctx).Error("Failed to clean up orphaned blob after record insert failure",
				slog.String("storageKey", record.StorageKey), slog.Any("error", cleanupErr))
		}

		return nil, errors.Wrap(err, "failed to create file record")
	}

	srv.log(ctx).Info("File uploaded",
		slog.Any("fileID", record.ID),
		slog.String("filename", record.Filename),
		slog.String("fileType", string(record.FileType)),
		slog.Int64("size", record.Size),
	)

	return record, nil
}

// DownloadFile opens a reader over one of the user's files.
func (srv *fileService) DownloadFile(ctx context.Context, userID, fileID uuid.UUID) (*usecase.DownloadFileOutput, error) {
	record, err := srv.findOwnedFile(ctx, userID, fileID)
	if err != nil {
		return nil, err
	}

	content, err := srv.store.Open(ctx, record.StorageKey)
	if err != nil {
		if errors.Is(err, service.ErrFileContentMissing) {
			return nil, domainerrors.ErrFileNotFound
		}

		return nil, errors.Wrap(err, "failed to open file content")
	}

	return &usecase.DownloadFileOutput{Record: record, Content: content}, nil
}

// DeleteFile removes the record and its stored bytes.
func (srv *fileService) DeleteFile(ctx context.Context, userID, fileID uuid.UUID) error {
	record, err := srv.findOwnedFile(ctx, userID, fileID)
	if err != nil {
		return err
	}

	if err := srv.fileRepo.DeleteFile(ctx, fileID); err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return domainerrors.ErrFileNotFound
		}

		return errors.Wrap(err, "failed to delete file record")
	}

	// The record is gone; losing the blob deletion only leaks storage, so
	// it is not a reason to fail the request.
	if err := srv.store.Delete(ctx, record.StorageKey); err != nil {
		srv.log(ctx).Error("Failed to delete blob for removed file",
			slog.String("storageKey", record.StorageKey), slog.Any("error", err))
	}

	return nil
}

// GetStats aggregates portal-wide file counts.
func (srv *fileService) GetStats(ctx context.Context) (*entity.PortalStats, error) {
	total, err := srv.fileRepo.CountFiles(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count files")
	}

	byType, err := srv.fileRepo.CountFilesByType(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count files by type")
	}

	byUser, err := srv.fileRepo.CountFilesByUser(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count files by user")
	}

	return &entity.PortalStats{
		TotalFiles:  total,
		FilesByType: byType,
		FilesByUser: byUser,
	}, nil
}

// findOwnedFile loads a record and verifies it belongs to the user. Files of
// other users are reported as not found rather than forbidden, so file IDs
// cannot be probed.
func (srv *fileService) findOwnedFile(ctx context.Context, userID, fileID uuid.UUID) (*entity.FileRecord, error) {
	record, err := srv.fileRepo.FindFileByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, domainerrors.ErrFileNotFound
		}

		return nil, errors.Wrap(err, "failed to find file")
	}
	if record.UserID != userID {
		return nil, domainerrors.ErrFileNotFound
	}

	return record, nil
}
