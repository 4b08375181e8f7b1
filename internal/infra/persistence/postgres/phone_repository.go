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

// phoneRepository implements the domain.PhoneRepository interface using GORM.
type phoneRepository struct {
	db *gorm.DB
}

// NewPhoneRepository is the constructor for phoneRepository.
func NewPhoneRepository(db *gorm.DB) repository.PhoneRepository {
	return &phoneRepository{db: db}
}

// CreatePhoneNumber persists a new phone number for a user.
func (repo *phoneRepository) CreatePhoneNumber(ctx context.Context, phone *entity.PhoneNumber) error {
	phoneM := fromPhoneDomain(phone)
	if phoneM.ID == uuid.Nil {
		phoneM.ID = uuid.New()
	}

	if err := repo.db.WithContext(ctx).Create(phoneM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required phone number information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create phone number")
	}

	phone.ID = phoneM.ID
	phone.CreatedAt = phoneM.CreatedAt
	phone.UpdatedAt = phoneM.UpdatedAt

	return nil
}

// FindPhoneNumberByID retrieves a phone number by its unique ID.
func (repo *phoneRepository) FindPhoneNumberByID(ctx context.Context, id uuid.UUID) (*entity.PhoneNumber, error) {
	phoneM := new(model.PhoneNumberModel)
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(phoneM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPhoneNumberNotFound
		}

		return nil, errors.Wrap(err, "failed to find phone number by id")
	}

	return toPhoneDomain(phoneM), nil
}

// FindPhoneNumbersByUserID retrieves all phone numbers belonging to a user.
func (repo *phoneRepository) FindPhoneNumbersByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.PhoneNumber, error) {
	var models []model.PhoneNumberModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list phone numbers by user")
	}

	phones := make([]*entity.PhoneNumber, 0, len(models))
	for i := range models {
		phones = append(phones, toPhoneDomain(&models[i]))
	}

	return phones, nil
}

// UpdatePhoneNumber updates an existing phone number record.
func (repo *phoneRepository) UpdatePhoneNumber(ctx context.Context, phone *entity.PhoneNumber) error {
	phoneM := fromPhoneDomain(phone)

	result := repo.db.WithContext(ctx).
		Model(&model.PhoneNumberModel{}).
		Where("id = ?", phoneM.ID).
		Updates(map[string]any{
			"number":     phoneM.Number,
			"is_primary": phoneM.IsPrimary,
		})
	if err := result.Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update phone number")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPhoneNumberNotFound
	}

	return nil
}

// DeletePhoneNumber removes a phone number by its ID.
func (repo *phoneRepository) DeletePhoneNumber(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.PhoneNumberModel{})
	if err := result.Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete phone number")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPhoneNumberNotFound
	}

	return nil
}

// ClearPrimaryPhoneNumbers unsets the primary flag on every phone number of
// the user except the one identified by exceptID.
func (repo *phoneRepository) ClearPrimaryPhoneNumbers(ctx context.Context, userID uuid.UUID, exceptID uuid.UUID) error {
	query := repo.db.WithContext(ctx).
		Model(&model.PhoneNumberModel{}).
		Where("user_id = ? AND is_primary = ?", userID, true)
	if exceptID != uuid.Nil {
		query = query.Where("id <> ?", exceptID)
	}

	if err := query.Update("is_primary", false).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear primary phone numbers")
	}

	return nil
}

// --- Mapper Functions ---

func toPhoneDomain(data *model.PhoneNumberModel) *entity.PhoneNumber {
	if data == nil {
		return nil
	}

	return &entity.PhoneNumber{
		ID:        data.ID,
		UserID:    data.UserID,
		Number:    data.Number,
		IsPrimary: data.IsPrimary,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func fromPhoneDomain(data *entity.PhoneNumber) *model.PhoneNumberModel {
	if data == nil {
		return nil
	}

	return &model.PhoneNumberModel{
		ID:        data.ID,
		UserID:    data.UserID,
		Number:    data.Number,
		IsPrimary: data.IsPrimary,
	}
}
