// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"fileportal/internal/domain/entity"
	"fileportal/internal/errors"

	"github.com/google/uuid"
)

// ErrPhoneNumberNotFound is returned when a phone number is not found.
var ErrPhoneNumberNotFound = errors.New("phone number not found")

// PhoneRepository defines the interface for phone-number database operations.
type PhoneRepository interface {
	// CreatePhoneNumber persists a new phone number for a user.
	CreatePhoneNumber(ctx context.Context, phone *entity.PhoneNumber) error

	// FindPhoneNumberByID retrieves a phone number by its unique ID.
	FindPhoneNumberByID(ctx context.Context, id uuid.UUID) (*entity.PhoneNumber, error)

	// FindPhoneNumbersByUserID retrieves all phone numbers belonging to a user.
	FindPhoneNumbersByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.PhoneNumber, error)

	// UpdatePhoneNumber updates an existing phone number record.
	UpdatePhoneNumber(ctx context.Context, phone *entity.PhoneNumber) error

	// DeletePhoneNumber removes a phone number by its ID.
	DeletePhoneNumber(ctx context.Context, id uuid.UUID) error

	// ClearPrimaryPhoneNumbers unsets the primary flag on every phone number
	// of the user except the one identified by exceptID (pass uuid.Nil to
	// clear all).
	ClearPrimaryPhoneNumbers(ctx context.Context, userID uuid.UUID, exceptID uuid.UUID) error
}
