package usecase

import (
	"context"

	"fileportal/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// UpdateProfileInput defines the editable account fields. Nil fields are
// left unchanged.
type UpdateProfileInput struct {
	UserID    uuid.UUID
	Email     *string
	FirstName *string
	LastName  *string
}

// AddressInput defines the data for creating or updating an address.
type AddressInput struct {
	UserID     uuid.UUID
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool
}

// PhoneInput defines the data for creating or updating a phone number.
type PhoneInput struct {
	UserID    uuid.UUID
	Number    string
	IsPrimary bool
}

// --- Output DTOs ---

// ProfileOutput aggregates everything the profile page shows.
type ProfileOutput struct {
	User         *entity.User
	Addresses    []*entity.Address
	PhoneNumbers []*entity.PhoneNumber
}

// ProfileUsecase defines the interface for profile, address and phone number
// operations. Creating or updating an address with IsDefault set (or a phone
// with IsPrimary set) demotes the user's previous default within the same
// transaction, so at most one of each ever carries the flag.
type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileOutput, error)
	UpdateProfile(ctx context.Context, input UpdateProfileInput) (*entity.User, error)

	ListAddresses(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error)
	CreateAddress(ctx context.Context, input AddressInput) (*entity.Address, error)
	UpdateAddress(ctx context.Context, addressID uuid.UUID, input AddressInput) (*entity.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error

	ListPhoneNumbers(ctx context.Context, userID uuid.UUID) ([]*entity.PhoneNumber, error)
	CreatePhoneNumber(ctx context.Context, input PhoneInput) (*entity.PhoneNumber, error)
	UpdatePhoneNumber(ctx context.Context, phoneID uuid.UUID, input PhoneInput) (*entity.PhoneNumber, error)
	DeletePhoneNumber(ctx context.Context, userID, phoneID uuid.UUID) error
}
