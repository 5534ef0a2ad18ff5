package repositories

import (
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/storage"
)

// StorageAdapter implements [storage.Storage] over a key/value repository, giving the CLI a session that
// survives between invocations.
type StorageAdapter struct {
	repo models.KeyValueRepository[*models.StorageEntry]
}

// NewStorageAdapter creates a new StorageAdapter with the given repository, usually a [StorageRepository].
func NewStorageAdapter(repo models.KeyValueRepository[*models.StorageEntry]) *StorageAdapter {
	return &StorageAdapter{repo: repo}
}

// Get returns the value stored at key, or an error wrapping shared.ErrKeyNotFound.
func (a *StorageAdapter) Get(key string) (string, error) {
	entry, err := a.repo.GetByKey(key)
	if err != nil {
		return "", err
	}
	return entry.Value(), nil
}

func (a *StorageAdapter) Set(key, value string) error {
	return a.repo.Upsert(key, value)
}

func (a *StorageAdapter) Remove(key string) error {
	return a.repo.DeleteByKey(key)
}

// List returns the stored keys starting with prefix, most recently written first.
func (a *StorageAdapter) List(prefix string) ([]storage.Entry, error) {
	entries, err := a.repo.List(map[string]any{"prefix": prefix})
	if err != nil {
		return nil, err
	}

	out := make([]storage.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, storage.Entry{Key: e.Key(), UpdatedAt: e.UpdatedAt()})
	}
	return out, nil
}

var (
	_ storage.Storage = (*StorageAdapter)(nil)
	_ storage.Lister  = (*StorageAdapter)(nil)
)
