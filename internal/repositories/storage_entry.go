package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
)

// StorageRepository implements [models.KeyValueRepository] for [models.StorageEntry] persistence.
type StorageRepository struct {
	db *sql.DB
}

// NewStorageRepository creates a new [StorageRepository] with the given database connection
func NewStorageRepository(db *sql.DB) *StorageRepository {
	return &StorageRepository{db: db}
}

// GetByKey retrieves an entry by its storage key
func (r *StorageRepository) GetByKey(key string) (*models.StorageEntry, error) {
	query := `
		SELECT id, key, value, created_at, updated_at
		FROM storage_entries
		WHERE key = ?
	`
	entry, err := scanEntry(r.db.QueryRow(query, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrKeyNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query storage key: %w", err)
	}
	return entry, nil
}

// Upsert sets key to value, creating the entry when it does not exist.
func (r *StorageRepository) Upsert(key, value string) error {
	if err := models.NewStorageEntry(key, value).Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	query := `
		INSERT INTO storage_entries (id, key, value, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.Exec(query, shared.GenerateID(), key, value, now, now); err != nil {
		return fmt.Errorf("failed to upsert storage key %s: %w", key, err)
	}
	return nil
}

// DeleteByKey removes key; a missing key is not an error. Entries are not soft-deleted: a cleared token
// must not linger on disk.
func (r *StorageRepository) DeleteByKey(key string) error {
	if _, err := r.db.Exec(`DELETE FROM storage_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete storage key %s: %w", key, err)
	}
	return nil
}

// List retrieves entries matching the criteria, most recently updated first.
//
// Supported criteria: "prefix" (string) restricts to keys with that prefix.
func (r *StorageRepository) List(criteria map[string]any) ([]*models.StorageEntry, error) {
	query := `
		SELECT id, key, value, created_at, updated_at
		FROM storage_entries
	`
	args := []any{}

	if prefix, ok := criteria["prefix"].(string); ok && prefix != "" {
		query += " WHERE key LIKE ? ESCAPE '\\'"
		args = append(args, escapeLike(prefix)+"%")
	}

	query += " ORDER BY updated_at DESC, key ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query storage entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.StorageEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan storage entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*models.StorageEntry, error) {
	var (
		id        string
		key       string
		value     string
		createdAt time.Time
		updatedAt time.Time
	)
	if err := s.Scan(&id, &key, &value, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	entry := models.NewStorageEntry(key, value)
	entry.SetID(id)
	entry.SetCreatedAt(createdAt)
	entry.SetUpdatedAt(updatedAt)
	return entry, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

var _ models.KeyValueRepository[*models.StorageEntry] = (*StorageRepository)(nil)
