package model

import (
	"time"

	"github.com/google/uuid"
)

// AddressModel is the GORM-specific struct for the 'addresses' table.
type AddressModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_addresses_on_user"`
	Street     string    `gorm:"type:varchar(255);not null"`
	City       string    `gorm:"type:varchar(100);not null"`
	State      string    `gorm:"type:varchar(100)"`
	PostalCode string    `gorm:"type:varchar(20)"`
	Country    string    `gorm:"type:varchar(100);not null"`
	IsDefault  bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (AddressModel) TableName() string {
	return "addresses"
}
