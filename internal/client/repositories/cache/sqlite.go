// Package cache contains the SQLite-backed repositories for the read-cache
// collections (site and artifact lists plus per-entity details).
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/archepal/archepal/internal/client/models"
	"github.com/archepal/archepal/internal/dbx"
)

// Table names owned by the store's migrations. Repositories never create
// schema; they are bound to one of these at construction time.
const (
	TableSites           = "sites_cache"
	TableArtifacts       = "artifacts_cache"
	TableSiteDetails     = "site_details_cache"
	TableArtifactDetails = "artifact_details_cache"
)

// SQLiteRepository implements Repository over one cache table using a DBTX
// (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db    dbx.DBTX
	table string
}

// NewSQLiteRepository returns a repository bound to the given cache table.
func NewSQLiteRepository(db dbx.DBTX, table string) *SQLiteRepository {
	return &SQLiteRepository{db: db, table: table}
}

// Put upserts an entry by id, fully replacing any prior snapshot.
func (r *SQLiteRepository) Put(ctx context.Context, entry *models.CachedEntry) error {
	query := fmt.Sprintf(`INSERT INTO %s (id, data, cached_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data,
			cached_at = excluded.cached_at,
			expires_at = excluded.expires_at
	`, r.table)

	_, err := r.db.ExecContext(ctx, query, entry.ID, []byte(entry.Data), entry.CachedAt, entry.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to upsert %s[%s]: %w", r.table, entry.ID, err)
	}
	return nil
}

// Get returns the entry for id, or (nil, nil) when never cached.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.CachedEntry, error) {
	query := fmt.Sprintf(`SELECT data, cached_at, expires_at FROM %s WHERE id = ?`, r.table)

	entry := &models.CachedEntry{ID: id}
	var data []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(&data, &entry.CachedAt, &entry.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s[%s]: %w", r.table, id, err)
	}
	entry.Data = data
	return entry, nil
}

// Clear empties the collection.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, r.table)); err != nil {
		return fmt.Errorf("failed to clear %s: %w", r.table, err)
	}
	return nil
}
