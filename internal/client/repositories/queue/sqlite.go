// Package queue contains the SQLite-backed repositories for the offline
// write queues (artifacts and diary entries).
package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/archepal/archepal/internal/client/models"
	"github.com/archepal/archepal/internal/common"
	"github.com/archepal/archepal/internal/dbx"
)

// Table names owned by the store's migrations.
const (
	TableArtifacts    = "offline_artifacts"
	TableDiaryEntries = "offline_diary_entries"
)

// SQLiteRepository implements Repository over one queue table using a DBTX
// (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db    dbx.DBTX
	table string
}

// NewSQLiteRepository returns a repository bound to the given queue table.
func NewSQLiteRepository(db dbx.DBTX, table string) *SQLiteRepository {
	return &SQLiteRepository{db: db, table: table}
}

// Insert appends a pending write and returns the auto-assigned local id.
func (r *SQLiteRepository) Insert(ctx context.Context, w *models.QueuedWrite) (int64, error) {
	query := fmt.Sprintf(`INSERT INTO %s (payload, local_image_path, status, created_at, idempotency_key)
		VALUES (?, ?, ?, ?, ?)`, r.table)

	res, err := r.db.ExecContext(ctx, query,
		[]byte(w.Payload), w.LocalImagePath, string(w.Status),
		w.CreatedAt.UTC().Format(time.RFC3339), w.IdempotencyKey)
	if err != nil {
		return 0, fmt.Errorf("failed to insert into %s: %w", r.table, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get local id: %w", err)
	}
	return id, nil
}

// GetAll returns every pending entry in insertion order.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.QueuedWrite, error) {
	query := fmt.Sprintf(`SELECT id, payload, local_image_path, status, created_at, idempotency_key
		FROM %s ORDER BY id`, r.table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select from %s: %w", r.table, err)
	}
	defer rows.Close()

	var result []models.QueuedWrite
	for rows.Next() {
		w, err := scanWrite(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns one entry by local id.
func (r *SQLiteRepository) GetByID(ctx context.Context, localID int64) (*models.QueuedWrite, error) {
	query := fmt.Sprintf(`SELECT id, payload, local_image_path, status, created_at, idempotency_key
		FROM %s WHERE id = ?`, r.table)

	w, err := scanWrite(r.db.QueryRowContext(ctx, query, localID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s[%d]: %w", r.table, localID, err)
	}
	return w, nil
}

// Count returns the number of pending entries.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	query := fmt.Sprintf(`SELECT count(*) FROM %s`, r.table)
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", r.table, err)
	}
	return n, nil
}

// UpdatePayload replaces the payload of a pending entry in place.
func (r *SQLiteRepository) UpdatePayload(ctx context.Context, localID int64, payload json.RawMessage) error {
	query := fmt.Sprintf(`UPDATE %s SET payload = ? WHERE id = ?`, r.table)

	res, err := r.db.ExecContext(ctx, query, []byte(payload), localID)
	if err != nil {
		return fmt.Errorf("failed to update %s[%d]: %w", r.table, localID, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return common.ErrorNotFound
	}
	return nil
}

// Delete removes an entry by local id.
func (r *SQLiteRepository) Delete(ctx context.Context, localID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.table)
	if _, err := r.db.ExecContext(ctx, query, localID); err != nil {
		return fmt.Errorf("failed to delete %s[%d]: %w", r.table, localID, err)
	}
	return nil
}

func scanWrite(scan func(dest ...any) error) (*models.QueuedWrite, error) {
	w := &models.QueuedWrite{}
	var payload []byte
	var status, createdAt string

	if err := scan(&w.LocalID, &payload, &w.LocalImagePath, &status, &createdAt, &w.IdempotencyKey); err != nil {
		return nil, err
	}

	w.Payload = payload
	w.Status = models.WriteStatus(status)

	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
	}
	w.CreatedAt = ts
	return w, nil
}
