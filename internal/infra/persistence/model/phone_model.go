package model

import (
	"time"

	"github.com/google/uuid"
)

// PhoneNumberModel is the GORM-specific struct for the 'phone_numbers' table.
type PhoneNumberModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_phone_numbers_on_user"`
	Number    string    `gorm:"type:varchar(32);not null"`
	IsPrimary bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (PhoneNumberModel) TableName() string {
	return "phone_numbers"
}
