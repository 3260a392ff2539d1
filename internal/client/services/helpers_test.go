package services

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/archepal/archepal/internal/client/repositories/cache"
	"github.com/archepal/archepal/internal/client/repositories/queue"
	"github.com/archepal/archepal/internal/logging"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// setupDB builds the full offline schema the migrations would create.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE offline_artifacts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  payload BLOB NOT NULL,
  local_image_path TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending',
  created_at TEXT NOT NULL,
  idempotency_key TEXT NOT NULL DEFAULT ''
);

CREATE TABLE offline_diary_entries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  payload BLOB NOT NULL,
  local_image_path TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending',
  created_at TEXT NOT NULL,
  idempotency_key TEXT NOT NULL DEFAULT ''
);

CREATE TABLE sites_cache (id TEXT PRIMARY KEY, data BLOB NOT NULL, cached_at INTEGER NOT NULL, expires_at INTEGER NOT NULL);
CREATE TABLE artifacts_cache (id TEXT PRIMARY KEY, data BLOB NOT NULL, cached_at INTEGER NOT NULL, expires_at INTEGER NOT NULL);
CREATE TABLE site_details_cache (id TEXT PRIMARY KEY, data BLOB NOT NULL, cached_at INTEGER NOT NULL, expires_at INTEGER NOT NULL);
CREATE TABLE artifact_details_cache (id TEXT PRIMARY KEY, data BLOB NOT NULL, cached_at INTEGER NOT NULL, expires_at INTEGER NOT NULL);
`)
	require.NoError(t, err)

	return db
}

func newCacheService(db *sql.DB) *CacheService {
	return NewCacheService(
		db,
		cache.NewSQLiteRepository(db, cache.TableSites),
		cache.NewSQLiteRepository(db, cache.TableArtifacts),
		cache.NewSQLiteRepository(db, cache.TableSiteDetails),
		cache.NewSQLiteRepository(db, cache.TableArtifactDetails),
		discardLogger(),
	)
}

func newQueueService(db *sql.DB, attachmentsDir string) *QueueService {
	return NewQueueService(
		queue.NewSQLiteRepository(db, queue.TableArtifacts),
		queue.NewSQLiteRepository(db, queue.TableDiaryEntries),
		attachmentsDir,
		discardLogger(),
	)
}

// fixClock pins nowFn to a fixed time and returns a function to advance it.
func fixClock(t *testing.T, start time.Time) func(d time.Duration) {
	t.Helper()
	current := start
	old := nowFn
	nowFn = func() time.Time { return current }
	t.Cleanup(func() { nowFn = old })
	return func(d time.Duration) { current = current.Add(d) }
}
