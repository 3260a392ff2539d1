package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var requiredTables = []string{
	"offline_artifacts",
	"offline_diary_entries",
	"sites_cache",
	"artifacts_cache",
	"site_details_cache",
	"artifact_details_cache",
}

func tableNames(t *testing.T, s *Store) map[string]struct{} {
	t.Helper()
	rows, err := s.DB().Query(`SELECT name FROM sqlite_master WHERE type='table'`)
	require.NoError(t, err)
	defer rows.Close()

	names := map[string]struct{}{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names[name] = struct{}{}
	}
	require.NoError(t, rows.Err())
	return names
}

func TestOpen_CreatesAllCollections(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "archepal.db")

	s, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	names := tableNames(t, s)
	for _, table := range requiredTables {
		assert.Contains(t, names, table)
	}
}

func TestOpen_IsIdempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "archepal.db")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		s, err := Open(ctx, dsn)
		require.NoError(t, err, "open #%d", i+1)
		names := tableNames(t, s)
		for _, table := range requiredTables {
			assert.Contains(t, names, table)
		}
		require.NoError(t, s.Close())
	}
}

func TestRunMigrations_RepeatedOnSameHandle(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "archepal.db")
	ctx := context.Background()

	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, RunMigrations(ctx, s.DB()))
	require.NoError(t, RunMigrations(ctx, s.DB()))
}

func TestOpen_QueuesHaveIdempotencyColumn(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "archepal.db")

	s, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	for _, table := range []string{"offline_artifacts", "offline_diary_entries"} {
		var n int
		err := s.DB().QueryRow(`SELECT count(*) FROM pragma_table_info(?) WHERE name='idempotency_key'`, table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s", table)
	}
}

func TestOpen_BadPathFails(t *testing.T) {
	// A directory that does not exist cannot host the database file.
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing", "sub", "archepal.db"))
	require.Error(t, err)
}
