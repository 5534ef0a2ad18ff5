package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/storage"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.OpenStorageDatabase(shared.StorageConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	return db
}

func TestStorageRepository(t *testing.T) {
	t.Run("GetByKey", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewStorageRepository(db)
		if err := repo.Upsert(storage.KeyAccountID, "acc_1"); err != nil {
			t.Fatalf("failed to upsert entry: %v", err)
		}

		entry, err := repo.GetByKey(storage.KeyAccountID)
		if err != nil {
			t.Fatalf("failed to get entry: %v", err)
		}
		if entry.Value() != "acc_1" {
			t.Errorf("expected acc_1, got %s", entry.Value())
		}
		if entry.ID() == "" {
			t.Error("entry ID should be set after upsert")
		}

		if _, err := repo.GetByKey("missing"); !errors.Is(err, shared.ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound, got %v", err)
		}
	})

	t.Run("Upsert", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewStorageRepository(db)
		if err := repo.Upsert("k", "v1"); err != nil {
			t.Fatalf("failed to insert: %v", err)
		}
		first, err := repo.GetByKey("k")
		if err != nil {
			t.Fatalf("failed to get entry: %v", err)
		}
		if err := repo.Upsert("k", "v2"); err != nil {
			t.Fatalf("failed to update: %v", err)
		}

		entries, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(entries) != 1 || entries[0].Value() != "v2" {
			t.Fatalf("expected a single entry with v2, got %d entries", len(entries))
		}
		if entries[0].ID() != first.ID() {
			t.Errorf("expected upsert to keep id %s, got %s", first.ID(), entries[0].ID())
		}
	})

	t.Run("DeleteByKey", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewStorageRepository(db)
		if err := repo.Upsert("k", "v"); err != nil {
			t.Fatalf("failed to upsert entry: %v", err)
		}

		if err := repo.DeleteByKey("k"); err != nil {
			t.Fatalf("failed to delete entry: %v", err)
		}
		if _, err := repo.GetByKey("k"); !errors.Is(err, shared.ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
		}
		if err := repo.DeleteByKey("k"); err != nil {
			t.Errorf("deleting a missing key should succeed, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewStorageRepository(db)
		for _, k := range []string{storage.KeyAuthToken, storage.KeyRefreshToken, "other_key", "listbackupXfoo"} {
			if err := repo.Upsert(k, "v"); err != nil {
				t.Fatalf("failed to upsert %s: %v", k, err)
			}
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list entries: %v", err)
		}
		if len(all) != 4 {
			t.Errorf("expected 4 entries, got %d", len(all))
		}

		filtered, err := repo.List(map[string]any{"prefix": storage.KeyPrefix})
		if err != nil {
			t.Fatalf("failed to list filtered entries: %v", err)
		}
		if len(filtered) != 2 {
			t.Errorf("expected 2 entries with prefix, got %d", len(filtered))
		}
	})
}

func TestStorageRepositoryErrors(t *testing.T) {
	t.Run("Upsert", func(t *testing.T) {
		t.Run("BlankKey", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			if err := NewStorageRepository(db).Upsert(" ", "v"); err == nil {
				t.Fatal("expected error for blank key")
			}
		})
	})

	t.Run("List", func(t *testing.T) {
		t.Run("ClosedDatabase", func(t *testing.T) {
			db := setupTestDB(t)
			db.Close()

			if _, err := NewStorageRepository(db).List(nil); err == nil {
				t.Fatal("expected error listing from a closed database")
			}
		})
	})
}
