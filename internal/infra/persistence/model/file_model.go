package model

import (
	"time"

	"github.com/google/uuid"
)

// UploadedFileModel mirrors the 'uploaded_files' table. The file bytes live
// in blob storage under StorageKey; this row holds only the metadata.
type UploadedFileModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_uploaded_files_on_user"`
	Filename   string    `gorm:"type:varchar(255);not null"`
	FileType   string    `gorm:"type:varchar(20);not null;index:idx_uploaded_files_on_type"`
	Size       int64     `gorm:"not null"`
	StorageKey string    `gorm:"type:varchar(512);unique;not null"`
	UploadDate time.Time `gorm:"autoCreateTime"`
}

// TableName explicitly sets the table name for GORM.
func (UploadedFileModel) TableName() string {
	return "uploaded_files"
}
