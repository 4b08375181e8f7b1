package impl

import (
	"context"
	"log/slog"

	deliverycontext "fileportal/internal/delivery/context"
	"fileportal/internal/domain/entity"
	domainerrors "fileportal/internal/domain/errors"
	"fileportal/internal/domain/repository"
	"fileportal/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	txManager   repository.TransactionManager
	userRepo    repository.UserRepository
	addressRepo repository.AddressRepository
	phoneRepo   repository.PhoneRepository
	logger      *slog.Logger
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	UserRepo    repository.UserRepository
	AddressRepo repository.AddressRepository
	PhoneRepo   repository.PhoneRepository
	Logger      *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		txManager:   params.TxManager,
		userRepo:    params.UserRepo,
		addressRepo: params.AddressRepo,
		phoneRepo:   params.PhoneRepo,
		logger:      params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile loads the account together with its addresses and phone numbers.
func (srv *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*usecase.ProfileOutput, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrNotFound
		}

		return nil, errors.Wrap(err, "failed to load user profile")
	}

	addresses, err := srv.addressRepo.FindAddressesByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load profile addresses")
	}

	phones, err := srv.phoneRepo.FindPhoneNumbersByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load profile phone numbers")
	}

	return &usecase.ProfileOutput{
		User:         user,
		Addresses:    addresses,
		PhoneNumbers: phones,
	}, nil
}

// UpdateProfile applies the provided account field changes.
func (srv *profileService) UpdateProfile(ctx context.Context, input usecase.UpdateProfileInput) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrNotFound
		}

		return nil, errors.Wrap(err, "failed to load user for update")
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, domainerrors.ErrEmailTaken
		}

		return nil, errors.Wrap(err, "failed to update user profile")
	}

	srv.log(ctx).Debug("Profile updated", slog.Any("userID", user.ID))

	return user, nil
}

// ListAddresses returns all addresses belonging to the user.
func (srv *profileService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error) {
	addresses, err := srv.addressRepo.FindAddressesByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list addresses")
	}

	return addresses, nil
}

// CreateAddress stores a new address. When it is flagged as default, every
// other address of the user is demoted inside the same transaction.
func (srv *profileService) CreateAddress(ctx context.Context, input usecase.AddressInput) (*entity.Address, error) {
	address := &entity.Address{
		UserID:     input.UserID,
		Street:     input.Street,
		City:       input.City,
		State:      input.State,
		PostalCode: input.PostalCode,
		Country:    input.Country,
		IsDefault:  input.IsDefault,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.AddressRepo()

		if err := addressRepo.CreateAddress(ctx, address); err != nil {
			return errors.Wrap(err, "failed to create address")
		}

		if address.IsDefault {
			if err := addressRepo.ClearDefaultAddresses(ctx, input.UserID, address.ID); err != nil {
				return errors.Wrap(err, "failed to demote previous default address")
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return address, nil
}

// UpdateAddress rewrites an existing address, keeping the single-default rule.
func (srv *profileService) UpdateAddress(ctx context.Context, addressID uuid.UUID, input usecase.AddressInput) (*entity.Address, error) {
	var updated *entity.Address
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		addressRepo := repoFactory.AddressRepo()

		existing, err := addressRepo.FindAddressByID(ctx, addressID)
		if err != nil {
			if errors.Is(err, repository.ErrAddressNotFound) {
				return domainerrors.ErrNotFound
			}

			return errors.Wrap(err, "failed to load address for update")
		}
		// Addresses are only visible to their owner.
		if existing.UserID != input.UserID {
			return domainerrors.ErrNotFound
		}

		existing.Street = input.Street
		existing.City = input.City
		existing.State = input.State
		existing.PostalCode = input.PostalCode
		existing.Country = input.Country
		existing.IsDefault = input.IsDefault

		if err := addressRepo.UpdateAddress(ctx, existing); err != nil {
			return errors.Wrap(err, "failed to update address")
		}

		if existing.IsDefault {
			if err := addressRepo.ClearDefaultAddresses(ctx, input.UserID, existing.ID); err != nil {
				return errors.Wrap(err, "failed to demote previous default address")
			}
		}

		updated = existing

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteAddress removes one of the user's addresses.
func (srv *profileService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	existing, err := srv.addressRepo.FindAddressByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return domainerrors.ErrNotFound
		}

		return errors.Wrap(err, "failed to load address for deletion")
	}
	if existing.UserID != userID {
		return domainerrors.ErrNotFound
	}

	if err := srv.addressRepo.DeleteAddress(ctx, addressID); err != nil {
		return errors.Wrap(err, "failed to delete address")
	}

	return nil
}

// ListPhoneNumbers returns all phone numbers belonging to the user.
func (srv *profileService) ListPhoneNumbers(ctx context.Context, userID uuid.UUID) ([]*entity.PhoneNumber, error) {
	phones, err := srv.phoneRepo.FindPhoneNumbersByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list phone numbers")
	}

	return phones, nil
}

// CreatePhoneNumber stores a new phone number, demoting any previous primary
// number inside the same transaction.
func (srv *profileService) CreatePhoneNumber(ctx context.Context, input usecase.PhoneInput) (*entity.PhoneNumber, error) {
	phone := &entity.PhoneNumber{
		UserID:    input.UserID,
		Number:    input.Number,
		IsPrimary: input.IsPrimary,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		phoneRepo := repoFactory.PhoneRepo()

		if err := phoneRepo.CreatePhoneNumber(ctx, phone); err != nil {
			return errors.Wrap(err, "failed to create phone number")
		}

		if phone.IsPrimary {
			if err := phoneRepo.ClearPrimaryPhoneNumbers(ctx, input.UserID, phone.ID); err != nil {
				return errors.Wrap(err, "failed to demote previous primary phone number")
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return phone, nil
}

// UpdatePhoneNumber rewrites an existing phone number, keeping the
// single-primary rule.
func (srv *profileService) UpdatePhoneNumber(ctx context.Context, phoneID uuid.UUID, input usecase.PhoneInput) (*entity.PhoneNumber, error) {
	var updated *entity.PhoneNumber
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		phoneRepo := repoFactory.PhoneRepo()

		existing, err := phoneRepo.FindPhoneNumberByID(ctx, phoneID)
		if err != nil {
			if errors.Is(err, repository.ErrPhoneNumberNotFound) {
				return domainerrors.ErrNotFound
			}

			return errors.Wrap(err, "failed to load phone number for update")
		}
		if existing.UserID != input.UserID {
			return domainerrors.ErrNotFound
		}

		existing.Number = input.Number
		existing.IsPrimary = input.IsPrimary

		if err := phoneRepo.UpdatePhoneNumber(ctx, existing); err != nil {
			return errors.Wrap(err, "failed to update phone number")
		}

		if existing.IsPrimary {
			if err := phoneRepo.ClearPrimaryPhoneNumbers(ctx, input.UserID, existing.ID); err != nil {
				return errors.Wrap(err, "failed to demote previous primary phone number")
			}
		}

		updated = existing

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeletePhoneNumber removes one of the user's phone numbers.
func (srv *profileService) DeletePhoneNumber(ctx context.Context, userID, phoneID uuid.UUID) error {
	existing, err := srv.phoneRepo.FindPhoneNumberByID(ctx, phoneID)
	if err != nil {
		if errors.Is(err, repository.ErrPhoneNumberNotFound) {
			return domainerrors.ErrNotFound
		}

		return errors.Wrap(err, "failed to load phone number for deletion")
	}
	if existing.UserID != userID {
		return domainerrors.ErrNotFound
	}

	if err := srv.phoneRepo.DeletePhoneNumber(ctx, phoneID); err != nil {
		return errors.Wrap(err, "failed to delete phone number")
	}

	return nil
}
