// Package store opens the single local SQLite database backing the offline
// subsystem and owns its schema. All repositories are constructed here so
// that the full set of collections exists before any consumer touches them.
//
// Opening the store is the one fatal path of the offline subsystem: if the
// database cannot be opened or migrated, the caller must treat offline
// support as unavailable for the session. There is no degraded-partial mode.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/archepal/archepal/internal/client/repositories/cache"
	"github.com/archepal/archepal/internal/client/repositories/queue"
	"github.com/archepal/archepal/internal/client/store/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Store is the opened local database plus the repositories bound to it.
type Store struct {
	db *sql.DB

	ArtifactQueue queue.Repository
	DiaryQueue    queue.Repository

	SitesCache           cache.Repository
	ArtifactsCache       cache.Repository
	SiteDetailsCache     cache.Repository
	ArtifactDetailsCache cache.Repository
}

// RunMigrations applies the embedded migrations. Safe to call any number of
// times; goose tracks the applied version and every statement uses
// IF NOT EXISTS where re-execution is possible.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the database at dsn, migrates it, and
// returns the repositories.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dsn, err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database %s: %w", dsn, err)
	}

	return &Store{
		db: db,

		ArtifactQueue: queue.NewSQLiteRepository(db, queue.TableArtifacts),
		DiaryQueue:    queue.NewSQLiteRepository(db, queue.TableDiaryEntries),

		SitesCache:           cache.NewSQLiteRepository(db, cache.TableSites),
		ArtifactsCache:       cache.NewSQLiteRepository(db, cache.TableArtifacts),
		SiteDetailsCache:     cache.NewSQLiteRepository(db, cache.TableSiteDetails),
		ArtifactDetailsCache: cache.NewSQLiteRepository(db, cache.TableArtifactDetails),
	}, nil
}

// DB exposes the underlying handle for transactional use via dbx.WithTx.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }
