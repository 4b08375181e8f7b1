package postgres

import (
	"context"

	"fileportal/internal/domain/entity"
	domainerrors "fileportal/internal/domain/errors"
	"fileportal/internal/domain/repository"
	"fileportal/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// fileRepository implements the domain.FileRepository interface using GORM.
type fileRepository struct {
	db *gorm.DB
}

// fileRow joins a file record with its owner's username so listings can show
// who uploaded each file without a second query.
type fileRow struct {
	model.UploadedFileModel
	OwnerName string
}

// NewFileRepository is the constructor for fileRepository.
func NewFileRepository(db *gorm.DB) repository.FileRepository {
	return &fileRepository{db: db}
}

// CreateFile persists a new file record.
func (repo *fileRepository) CreateFile(ctx context.Context, record *entity.FileRecord) error {
	fileM := fromFileDomain(record)
	if fileM.ID == uuid.Nil {
		fileM.ID = uuid.New()
	}

	if err := repo.db.WithContext(ctx).Create(fileM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create file record")
	}

	record.ID = fileM.ID
	record.UploadDate = fileM.UploadDate

	return nil
}

// FindFileByID retrieves a file record by its unique ID.
func (repo *fileRepository) FindFileByID(ctx context.Context, id uuid.UUID) (*entity.FileRecord, error) {
	row := new(fileRow)
	err := repo.db.WithContext(ctx).
		Model(&model.UploadedFileModel{}).
		Select("uploaded_files.*, users.username AS owner_name").
		Joins("JOIN users ON users.id = uploaded_files.user_id").
		Where("uploaded_files.id = ?", id).
		First(row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrFileNotFound
		}

		return nil, errors.Wrap(err, "failed to find file by id")
	}

	return toFileDomain(row), nil
}

// FindFilesByUserID retrieves all file records owned by a user, newest first.
func (repo *fileRepository) FindFilesByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.FileRecord, error) {
	var rows []fileRow
	err := repo.db.WithContext(ctx).
		Model(&model.UploadedFileModel{}).
		Select("uploaded_files.*, users.username AS owner_name").
		Joins("JOIN users ON users.id = uploaded_files.user_id").
		Where("uploaded_files.user_id = ?", userID).
		Order("uploaded_files.upload_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list files by user")
	}

	records := make([]*entity.FileRecord, 0, len(rows))
	for i := range rows {
		records = append(records, toFileDomain(&rows[i]))
	}

	return records, nil
}

// DeleteFile removes a file record by its ID.
func (repo *fileRepository) DeleteFile(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.UploadedFileModel{})
	if err := result.Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete file record")
	}
	if result.RowsAffected == 0 {
		return repository.ErrFileNotFound
	}

	return nil
}

// CountFiles returns the portal-wide number of stored files.
func (repo *fileRepository) CountFiles(ctx context.Context) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.UploadedFileModel{}).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count files")
	}

	return count, nil
}

// CountFilesByType returns per-type counts across the whole portal.
func (repo *fileRepository) CountFilesByType(ctx context.Context) ([]entity.TypeCount, error) {
	var counts []entity.TypeCount
	err := repo.db.WithContext(ctx).
		Model(&model.UploadedFileModel{}).
		Select("file_type, COUNT(*) AS count").
		Group("file_type").
		Order("file_type").
		Find(&counts).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to count files by type")
	}

	return counts, nil
}

// CountFilesByUser returns per-owner counts across the whole portal.
func (repo *fileRepository) CountFilesByUser(ctx context.Context) ([]entity.UserCount, error) {
	var counts []entity.UserCount
	err := repo.db.WithContext(ctx).
		Model(&model.UploadedFileModel{}).
		Select("users.username AS username, COUNT(*) AS count").
		Joins("JOIN users ON users.id = uploaded_files.user_id").
		Group("users.username").
		Order("users.username").
		Find(&counts).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to count files by user")
	}

	return counts, nil
}

// --- Mapper Functions ---

func toFileDomain(data *fileRow) *entity.FileRecord {
	if data == nil {
		return nil
	}

	return &entity.FileRecord{
		ID:         data.ID,
		UserID:     data.UserID,
		OwnerName:  data.OwnerName,
		Filename:   data.Filename,
		FileType:   entity.FileType(data.FileType),
		Size:       data.Size,
		StorageKey: data.StorageKey,
		UploadDate: data.UploadDate,
	}
}

func fromFileDomain(data *entity.FileRecord) *model.UploadedFileModel {
	if data == nil {
		return nil
	}

	return &model.UploadedFileModel{
		ID:         data.ID,
		UserID:     data.UserID,
		Filename:   data.Filename,
		FileType:   string(data.FileType),
		Size:       data.Size,
		StorageKey: data.StorageKey,
		UploadDate: data.UploadDate,
	}
}
