// Package repositories implements SQLite persistence for locally stored entities.
//
// Key Implementations:
//   - [StorageRepository] : [models.StorageEntry] CRUD plus key lookups and upserts
//   - [StorageAdapter] : exposes a [StorageRepository] as [storage.Storage] for the session
//
// Unlike backend resources, storage entries are hard-deleted so cleared credentials do not remain on disk.
package repositories
