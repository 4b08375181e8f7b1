package impl

import (
	"context"
	"testing"

	"fileportal/internal/domain/entity"
	domainerrors "fileportal/internal/domain/errors"
	"fileportal/internal/domain/repository"
	"fileportal/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProfileService(
	userRepo repository.UserRepository,
	addressRepo repository.AddressRepository,
	phoneRepo repository.PhoneRepository,
) usecase.ProfileUsecase {
	return &profileService{
		txManager:   &stubTxManager{factory: &stubFactory{userRepo: userRepo, addressRepo: addressRepo, phoneRepo: phoneRepo}},
		userRepo:    userRepo,
		addressRepo: addressRepo,
		phoneRepo:   phoneRepo,
		logger:      newDiscardLogger(),
	}
}

func TestProfileService_GetProfile(t *testing.T) {
	userRepo := new(mockUserRepo)
	addressRepo := new(mockAddressRepo)
	phoneRepo := new(mockPhoneRepo)

	userID := uuid.New()
	user := &entity.User{ID: userID, Username: "alice"}
	addresses := []*entity.Address{{ID: uuid.New(), UserID: userID, City: "Lisbon", IsDefault: true}}
	phones := []*entity.PhoneNumber{{ID: uuid.New(), UserID: userID, Number: "+351 1234", IsPrimary: true}}

	userRepo.On("FindByID", mock.Anything, userID).Return(user, nil)
	addressRepo.On("FindAddressesByUserID", mock.Anything, userID).Return(addresses, nil)
	phoneRepo.On("FindPhoneNumbersByUserID", mock.Anything, userID).Return(phones, nil)

	service := newProfileService(userRepo, addressRepo, phoneRepo)

	out, err := service.GetProfile(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, user, out.User)
	assert.Equal(t, addresses, out.Addresses)
	assert.Equal(t, phones, out.PhoneNumbers)
}

func TestProfileService_UpdateProfile_PartialFields(t *testing.T) {
	userRepo := new(mockUserRepo)

	userID := uuid.New()
	user := &entity.User{ID: userID, Username: "alice", Email: "old@example.com", FirstName: "Alice"}

	userRepo.On("FindByID", mock.Anything, userID).Return(user, nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		// Only the email changes; unset fields keep their old values.
		return u.Email == "new@example.com" && u.FirstName == "Alice"
	})).Return(nil)

	service := newProfileService(userRepo, new(mockAddressRepo), new(mockPhoneRepo))

	email := "new@example.com"
	updated, err := service.UpdateProfile(context.Background(), usecase.UpdateProfileInput{
		UserID: userID,
		Email:  &email,
	})

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	userRepo.AssertExpectations(t)
}

func TestProfileService_CreateAddress_DefaultDemotesOthers(t *testing.T) {
	addressRepo := new(mockAddressRepo)

	userID := uuid.New()
	addressRepo.On("CreateAddress", mock.Anything, mock.AnythingOfType("*entity.Address")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Address).ID = uuid.New()
		}).
		Return(nil)
	addressRepo.On("ClearDefaultAddresses", mock.Anything, userID, mock.AnythingOfType("uuid.UUID")).
		Return(nil)

	service := newProfileService(new(mockUserRepo), addressRepo, new(mockPhoneRepo))

	address, err := service.CreateAddress(context.Background(), usecase.AddressInput{
		UserID:    userID,
		Street:    "1 Main St",
		City:      "Lisbon",
		Country:   "PT",
		IsDefault: true,
	})

	require.NoError(t, err)
	assert.True(t, address.IsDefault)
	addressRepo.AssertCalled(t, "ClearDefaultAddresses", mock.Anything, userID, address.ID)
}

func TestProfileService_CreateAddress_NonDefaultLeavesOthers(t *testing.T) {
	addressRepo := new(mockAddressRepo)

	userID := uuid.New()
	addressRepo.On("CreateAddress", mock.Anything, mock.AnythingOfType("*entity.Address")).Return(nil)

	service := newProfileService(new(mockUserRepo), addressRepo, new(mockPhoneRepo))

	_, err := service.CreateAddress(context.Background(), usecase.AddressInput{
		UserID:  userID,
		Street:  "2 Side St",
		City:    "Porto",
		Country: "PT",
	})

	require.NoError(t, err)
	addressRepo.AssertNotCalled(t, "ClearDefaultAddresses", mock.Anything, mock.Anything, mock.Anything)
}

func TestProfileService_UpdateAddress_OtherOwnerNotFound(t *testing.T) {
	addressRepo := new(mockAddressRepo)

	addressID := uuid.New()
	addressRepo.On("FindAddressByID", mock.Anything, addressID).
		Return(&entity.Address{ID: addressID, UserID: uuid.New()}, nil)

	service := newProfileService(new(mockUserRepo), addressRepo, new(mockPhoneRepo))

	out, err := service.UpdateAddress(context.Background(), addressID, usecase.AddressInput{
		UserID: uuid.New(),
		Street: "3 Other St",
	})

	assert.Nil(t, out)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
	addressRepo.AssertNotCalled(t, "UpdateAddress", mock.Anything, mock.Anything)
}

func TestProfileService_CreatePhoneNumber_PrimaryDemotesOthers(t *testing.T) {
	phoneRepo := new(mockPhoneRepo)

	userID := uuid.New()
	phoneRepo.On("CreatePhoneNumber", mock.Anything, mock.AnythingOfType("*entity.PhoneNumber")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.PhoneNumber).ID = uuid.New()
		}).
		Return(nil)
	phoneRepo.On("ClearPrimaryPhoneNumbers", mock.Anything, userID, mock.AnythingOfType("uuid.UUID")).
		Return(nil)

	service := newProfileService(new(mockUserRepo), new(mockAddressRepo), phoneRepo)

	phone, err := service.CreatePhoneNumber(context.Background(), usecase.PhoneInput{
		UserID:    userID,
		Number:    "+351 5678",
		IsPrimary: true,
	})

	require.NoError(t, err)
	phoneRepo.AssertCalled(t, "ClearPrimaryPhoneNumbers", mock.Anything, userID, phone.ID)
}

func TestProfileService_DeletePhoneNumber_OwnedOnly(t *testing.T) {
	phoneRepo := new(mockPhoneRepo)

	userID := uuid.New()
	phoneID := uuid.New()
	phoneRepo.On("FindPhoneNumberByID", mock.Anything, phoneID).
		Return(&entity.PhoneNumber{ID: phoneID, UserID: userID}, nil)
	phoneRepo.On("DeletePhoneNumber", mock.Anything, phoneID).Return(nil)

	service := newProfileService(new(mockUserRepo), new(mockAddressRepo), phoneRepo)

	require.NoError(t, service.DeletePhoneNumber(context.Background(), userID, phoneID))

	// A different caller gets not-found, never a delete.
	otherPhoneID := uuid.New()
	phoneRepo.On("FindPhoneNumberByID", mock.Anything, otherPhoneID).
		Return(&entity.PhoneNumber{ID: otherPhoneID, UserID: uuid.New()}, nil)

	err := service.DeletePhoneNumber(context.Background(), userID, otherPhoneID)
	assert.True(t, errors.Is(err, domainerrors.ErrNotFound))
	phoneRepo.AssertNotCalled(t, "DeletePhoneNumber", mock.Anything, otherPhoneID)
}
