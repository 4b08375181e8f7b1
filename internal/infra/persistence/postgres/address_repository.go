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

// addressRepository implements the domain.AddressRepository interface using GORM.
type addressRepository struct {
	db *gorm.DB
}

// NewAddressRepository is the constructor for addressRepository.
func NewAddressRepository(db *gorm.DB) repository.AddressRepository {
	return &addressRepository{db: db}
}

// CreateAddress persists a new address for a user.
func (repo *addressRepository) CreateAddress(ctx context.Context, address *entity.Address) error {
	addressM := fromAddressDomain(address)
	if addressM.ID == uuid.Nil {
		addressM.ID = uuid.New()
	}

	if err := repo.db.WithContext(ctx).Create(addressM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required address information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create address")
	}

	address.ID = addressM.ID
	address.CreatedAt = addressM.CreatedAt
	address.UpdatedAt = addressM.UpdatedAt

	return nil
}

// FindAddressByID retrieves an address by its unique ID.
func (repo *addressRepository) FindAddressByID(ctx context.Context, id uuid.UUID) (*entity.Address, error) {
	addressM := new(model.AddressModel)
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(addressM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAddressNotFound
		}

		return nil, errors.Wrap(err, "failed to find address by id")
	}

	return toAddressDomain(addressM), nil
}

// FindAddressesByUserID retrieves all addresses belonging to a user.
func (repo *addressRepository) FindAddressesByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	var models []model.AddressModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list addresses by user")
	}

	addresses := make([]*entity.Address, 0, len(models))
	for i := range models {
		addresses = append(addresses, toAddressDomain(&models[i]))
	}

	return addresses, nil
}

// UpdateAddress updates an existing address record.
func (repo *addressRepository) UpdateAddress(ctx context.Context, address *entity.Address) error {
	addressM := fromAddressDomain(address)

	result := repo.db.WithContext(ctx).
		Model(&model.AddressModel{}).
		Where("id = ?", addressM.ID).
		Updates(map[string]any{
			"street":      addressM.Street,
			"city":        addressM.City,
			"state":       addressM.State,
			"postal_code": addressM.PostalCode,
			"country":     addressM.Country,
			"is_default":  addressM.IsDefault,
		})
	if err := result.Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update address")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAddressNotFound
	}

	return nil
}

// DeleteAddress removes an address by its ID.
func (repo *addressRepository) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.AddressModel{})
	if err := result.Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete address")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAddressNotFound
	}

	return nil
}

// ClearDefaultAddresses unsets the default flag on every address of the user
// except the one identified by exceptID.
func (repo *addressRepository) ClearDefaultAddresses(ctx context.Context, userID uuid.UUID, exceptID uuid.UUID) error {
	query := repo.db.WithContext(ctx).
		Model(&model.AddressModel{}).
		Where("user_id = ? AND is_default = ?", userID, true)
	if exceptID != uuid.Nil {
		query = query.Where("id <> ?", exceptID)
	}

	if err := query.Update("is_default", false).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to clear default addresses")
	}

	return nil
}

// --- Mapper Functions ---

func toAddressDomain(data *model.AddressModel) *entity.Address {
	if data == nil {
		return nil
	}

	return &entity.Address{
		ID:         data.ID,
		UserID:     data.UserID,
		Street:     data.Street,
		City:       data.City,
		State:      data.State,
		PostalCode: data.PostalCode,
		Country:    data.Country,
		IsDefault:  data.IsDefault,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

func fromAddressDomain(data *entity.Address) *model.AddressModel {
	if data == nil {
		return nil
	}

	return &model.AddressModel{
		ID:         data.ID,
		UserID:     data.UserID,
		Street:     data.Street,
		City:       data.City,
		State:      data.State,
		PostalCode: data.PostalCode,
		Country:    data.Country,
		IsDefault:  data.IsDefault,
	}
}
