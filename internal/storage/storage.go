// Package storage provides durable local key-value snapshot storage.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no snapshot exists under the requested key.
var ErrNotFound = errors.New("snapshot not found")

// Snapshots stores complete serialized collections under fixed keys. Save
// overwrites the previous value; Load returns the last saved value.
type Snapshots interface {
	// Load returns the snapshot stored under key.
	// Returns ErrNotFound if the key has never been saved.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save overwrites the snapshot stored under key.
	Save(ctx context.Context, key string, value []byte) error
}
