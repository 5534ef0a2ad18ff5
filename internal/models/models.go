package models

import (
	"time"
)

// Model is a record persisted on the local machine. Backend resources are not Models.
type Model interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error
}

// Keyed is a [Model] addressed by a unique key as well as its id.
type Keyed interface {
	Model
	Key() string
	Value() string
}

// KeyValueRepository is the contract of a local key/value store. Absent keys wrap shared.ErrKeyNotFound.
type KeyValueRepository[T Keyed] interface {
	GetByKey(key string) (T, error)
	Upsert(key, value string) error
	DeleteByKey(key string) error
	List(criteria map[string]any) ([]T, error)
}
