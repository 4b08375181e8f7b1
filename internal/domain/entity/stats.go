// Package entity contains the core business objects of the project.
package entity

// TypeCount is the number of stored files of one FileType.
type TypeCount struct {
	FileType FileType `json:"file_type"`
	Count    int64    `json:"count"`
}

// UserCount is the number of stored files owned by one user.
// The JSON key mirrors the aggregate field name the API has always exposed.
type UserCount struct {
	Username string `json:"user__username"`
	Count    int64  `json:"count"`
}

// PortalStats aggregates portal-wide file counts for the stats endpoint.
type PortalStats struct {
	TotalFiles  int64       `json:"total_files"`
	FilesByType []TypeCount `json:"files_by_type"`
	FilesByUser []UserCount `json:"files_by_user"`
}
