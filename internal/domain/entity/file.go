// Package entity contains the core business objects of the project.
package entity

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileType classifies an uploaded file by its extension.
type FileType string

const (
	// FileTypePDF represents .pdf documents.
	FileTypePDF FileType = "pdf"
	// FileTypeExcel represents .xls and .xlsx spreadsheets.
	FileTypeExcel FileType = "excel"
	// FileTypeWord represents .doc and .docx documents.
	FileTypeWord FileType = "word"
	// FileTypeText represents plain .txt files.
	FileTypeText FileType = "txt"
	// FileTypeOther is the catch-all for everything else.
	FileTypeOther FileType = "other"
)

// DetectFileType classifies a filename by its extension.
func DetectFileType(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FileTypePDF
	case ".xls", ".xlsx":
		return FileTypeExcel
	case ".doc", ".docx":
		return FileTypeWord
	case ".txt":
		return FileTypeText
	default:
		return FileTypeOther
	}
}

// FileRecord is the metadata for one stored file. The bytes themselves live
// in the file store under StorageKey; the record only describes them.
type FileRecord struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"-"`
	OwnerName  string    `json:"user"`
	Filename   string    `json:"filename"`
	FileType   FileType  `json:"file_type"`
	Size       int64     `json:"size"`
	StorageKey string    `json:"-"`
	UploadDate time.Time `json:"upload_date"`
}
