package queue

import (
	"context"
	"encoding/json"

	"github.com/archepal/archepal/internal/client/models"
)

// Repository stores pending create operations for one offline write queue.
// Entries are append-only while pending and physically deleted once synced.
type Repository interface {
	// Insert appends a new pending write and returns its auto-assigned
	// local identifier.
	Insert(ctx context.Context, w *models.QueuedWrite) (int64, error)

	// GetAll returns every pending entry in insertion order.
	GetAll(ctx context.Context) ([]models.QueuedWrite, error)

	// GetByID returns one entry by local id, or common.ErrorNotFound.
	GetByID(ctx context.Context, localID int64) (*models.QueuedWrite, error)

	// Count returns the number of pending entries.
	Count(ctx context.Context) (int, error)

	// UpdatePayload replaces the payload of a still-pending entry, leaving
	// the local id, status, created_at, and idempotency key untouched.
	UpdatePayload(ctx context.Context, localID int64, payload json.RawMessage) error

	// Delete removes an entry by local id.
	Delete(ctx context.Context, localID int64) error
}
