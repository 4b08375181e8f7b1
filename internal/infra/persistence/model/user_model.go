// Package model contains the GORM-specific structs mirroring database tables.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	Username     string    `gorm:"type:varchar(150);unique;not null"`
	Email        string    `gorm:"type:varchar(255);unique;not null"`
	FirstName    string    `gorm:"type:varchar(150)"`
	LastName     string    `gorm:"type:varchar(150)"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Files         []UploadedFileModel `gorm:"foreignKey:UserID"`
	Addresses     []AddressModel      `gorm:"foreignKey:UserID"`
	PhoneNumbers  []PhoneNumberModel  `gorm:"foreignKey:UserID"`
	RefreshTokens []RefreshTokenModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
