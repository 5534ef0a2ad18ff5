// Package storage holds the client session in platform storage.
//
// [Storage] is the key/value contract each platform provides (browser localStorage, device secure store,
// the CLI's SQLite file). [Session] layers the listbackup session keys on top of it.
package storage

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
)

// KeyPrefix starts every session key.
const KeyPrefix = "listbackup_"

// Session keys. [Session.Clear] removes all of them together.
const (
	KeyAuthToken      = "listbackup_auth_token"
	KeyRefreshToken   = "listbackup_refresh_token"
	KeyUserData       = "listbackup_user_data"
	KeyAccountID      = "listbackup_account_id"
	KeyTokenExpiresAt = "listbackup_token_expires_at"
)

// Keys lists every session key.
var Keys = []string{KeyAuthToken, KeyRefreshToken, KeyUserData, KeyAccountID, KeyTokenExpiresAt}

// Storage is a string key/value store. Get returns [shared.ErrKeyNotFound] for absent keys; Remove of
// an absent key is not an error.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// Entry is a stored key and the time it was last written.
type Entry struct {
	Key       string    `json:"key"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Lister is a [Storage] that can enumerate its keys. List returns the keys starting with prefix, most
// recently written first.
type Lister interface {
	List(prefix string) ([]Entry, error)
}

// MemoryStorage is an in-process [Storage], safe for concurrent use.
type MemoryStorage struct {
	mu      sync.RWMutex
	values  map[string]string
	updated map[string]time.Time
}

// NewMemoryStorage returns an empty [MemoryStorage].
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string), updated: make(map[string]time.Time)}
}

func (m *MemoryStorage) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", shared.ErrKeyNotFound, key)
	}
	return v, nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.updated[key] = time.Now()
	return nil
}

func (m *MemoryStorage) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	delete(m.updated, key)
	return nil
}

func (m *MemoryStorage) List(prefix string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []Entry
	for k, t := range m.updated {
		if strings.HasPrefix(k, prefix) {
			entries = append(entries, Entry{Key: k, UpdatedAt: t})
		}
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return entries, nil
}

// Len returns the number of stored keys.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

var (
	_ Storage = (*MemoryStorage)(nil)
	_ Lister  = (*MemoryStorage)(nil)
)
