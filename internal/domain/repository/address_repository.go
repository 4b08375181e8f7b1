// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"fileportal/internal/domain/entity"
	"fileportal/internal/errors"

	"github.com/google/uuid"
)

// ErrAddressNotFound is returned when an address is not found.
var ErrAddressNotFound = errors.New("address not found")

// AddressRepository defines the interface for address-related database operations.
type AddressRepository interface {
	// CreateAddress persists a new address for a user.
	CreateAddress(ctx context.Context, address *entity.Address) error

	// FindAddressByID retrieves an address by its unique ID.
	FindAddressByID(ctx context.Context, id uuid.UUID) (*entity.Address, error)

	// FindAddressesByUserID retrieves all addresses belonging to a user.
	FindAddressesByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Address, error)

	// UpdateAddress updates an existing address record.
	UpdateAddress(ctx context.Context, address *entity.Address) error

	// DeleteAddress removes an address by its ID.
	DeleteAddress(ctx context.Context, id uuid.UUID) error

	// ClearDefaultAddresses unsets the default flag on every address of the
	// user except the one identified by exceptID (pass uuid.Nil to clear
	// all). Used to keep the at-most-one-default invariant.
	ClearDefaultAddresses(ctx context.Context, userID uuid.UUID, exceptID uuid.UUID) error
}
