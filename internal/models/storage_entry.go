package models

import (
	"fmt"
	"strings"
	"time"
)

// StorageEntry is one key/value pair of platform storage.
type StorageEntry struct {
	id        string
	key       string
	value     string
	createdAt time.Time
	updatedAt time.Time
}

// NewStorageEntry creates an unsaved entry; the repository assigns its ID.
func NewStorageEntry(key, value string) *StorageEntry {
	now := time.Now()
	return &StorageEntry{key: key, value: value, createdAt: now, updatedAt: now}
}

func (e *StorageEntry) ID() string           { return e.id }
func (e *StorageEntry) Key() string          { return e.key }
func (e *StorageEntry) Value() string        { return e.value }
func (e *StorageEntry) CreatedAt() time.Time { return e.createdAt }
func (e *StorageEntry) UpdatedAt() time.Time { return e.updatedAt }

func (e *StorageEntry) SetID(id string)          { e.id = id }
func (e *StorageEntry) SetCreatedAt(t time.Time) { e.createdAt = t }
func (e *StorageEntry) SetUpdatedAt(t time.Time) { e.updatedAt = t }

// Validate requires a non-blank key.
func (e *StorageEntry) Validate() error {
	if strings.TrimSpace(e.key) == "" {
		return fmt.Errorf("storage key is required")
	}
	return nil
}

var _ Model = (*StorageEntry)(nil)
