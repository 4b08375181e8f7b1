package client

import (
	"sync"

	"fileportal/internal/domain/entity"

	"github.com/google/uuid"
)

// FileCache is the client-side copy of the file list, newest first. It is
// updated optimistically after uploads and deletes so views refresh without
// another round trip.
type FileCache struct {
	mu    sync.Mutex
	files []*entity.FileRecord
}

// NewFileCache creates an empty cache.
func NewFileCache() *FileCache {
	return &FileCache{}
}

// Replace swaps in a freshly fetched list, newest first as served.
func (c *FileCache) Replace(files []*entity.FileRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.files = append([]*entity.FileRecord(nil), files...)
}

// Prepend puts a newly uploaded record at the head of the list.
func (c *FileCache) Prepend(file *entity.FileRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.files = append([]*entity.FileRecord{file}, c.files...)
}

// Remove drops the record with the given ID, if present.
func (c *FileCache) Remove(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, file := range c.files {
		if file.ID == id {
			c.files = append(c.files[:i], c.files[i+1:]...)

			return
		}
	}
}

// Snapshot returns a copy of the current list.
func (c *FileCache) Snapshot() []*entity.FileRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]*entity.FileRecord(nil), c.files...)
}

// Len returns the number of cached records.
func (c *FileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.files)
}
