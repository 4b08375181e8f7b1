// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken represents a long-lived, authorized user session.
// It is used to obtain a new access token after the old one expires, without
// requiring credentials again.
type RefreshToken struct {
	ID        uuid.UUID // The unique ID for this specific refresh token record.
	UserID    uuid.UUID // Links this session to the User it belongs to.
	TokenHash string    // SHA-256 hash of the raw refresh token for secure comparison in the database.
	ExpiresAt time.Time // The exact time when this refresh token becomes invalid.
	CreatedAt time.Time // When this session was created (i.e., when the user logged in).
}
