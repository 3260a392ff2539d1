package models

import (
	"encoding/json"
	"time"
)

// WriteStatus is the lifecycle state of a queued write. Entries carry
// StatusPending for their whole time in the queue; a synced entry is
// deleted, not transitioned.
type WriteStatus string

const StatusPending WriteStatus = "pending"

// Cache TTL policy: list snapshots go stale after a day, single-entity
// details after a week. Staleness is advisory; stale data is still returned.
const (
	ListCacheTTL   = 24 * time.Hour
	DetailCacheTTL = 7 * 24 * time.Hour
)

// QueuedWrite is a pending create operation recorded while offline.
//
// LocalID is assigned by the local store and is distinct from any
// remote-assigned identifier. IdempotencyKey is generated at enqueue time
// and sent with the remote create, so a drain replayed after an
// interruption upserts instead of duplicating.
type QueuedWrite struct {
	LocalID        int64
	Payload        json.RawMessage
	LocalImagePath string // empty when no attachment was captured
	Status         WriteStatus
	CreatedAt      time.Time
	IdempotencyKey string
}

// CachedEntry wraps a cached payload with its insertion and expiry times
// (epoch milliseconds). At most one entry exists per key per collection.
type CachedEntry struct {
	ID        string
	Data      json.RawMessage
	CachedAt  int64
	ExpiresAt int64
}

// IsStale reports whether the entry has outlived its TTL at the given time.
func (e CachedEntry) IsStale(now time.Time) bool {
	return now.UnixMilli() > e.ExpiresAt
}
