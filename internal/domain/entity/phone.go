// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// PhoneNumber is one phone number belonging to a user.
// At most one number per user may have IsPrimary set, mirroring the
// single-default rule for addresses.
type PhoneNumber struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Number    string    `json:"number"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
