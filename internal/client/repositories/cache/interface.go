package cache

import (
	"context"

	"github.com/archepal/archepal/internal/client/models"
)

// Repository stores last-known-good snapshots for one cache collection,
// keyed by string id. Implementations are backed by the local SQLite
// database.
type Repository interface {
	// Put inserts or fully replaces the entry under its id.
	Put(ctx context.Context, entry *models.CachedEntry) error

	// Get returns the entry for id, or (nil, nil) if it was never cached.
	// Expired entries are still returned; staleness is the caller's call.
	Get(ctx context.Context, id string) (*models.CachedEntry, error)

	// Clear removes every entry in the collection.
	Clear(ctx context.Context) error
}
