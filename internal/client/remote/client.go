// Package remote holds the clients for the two external collaborators of
// the offline subsystem: the managed document store (system of record) and
// the S3-compatible object storage for field photos. Both are treated as
// black boxes that may fail at any call; callers decide what a failure
// means for their own state.
package remote

import "context"

// Remote collection names in the document store.
const (
	CollectionSites        = "sites"
	CollectionArtifacts    = "artifacts"
	CollectionDiaryEntries = "diaryEntries"
)

// Client is the full remote surface consumed by the sync engine and the
// online read/write paths.
type Client interface {
	// CreateDocument submits a record to the named collection and returns
	// the remote-assigned identifier. The remote store upserts by
	// idempotency key, so replaying the same key is safe.
	CreateDocument(ctx context.Context, collection string, record any, idempotencyKey string) (string, error)

	// Upload stores blob under key in object storage and returns its
	// public URL.
	Upload(ctx context.Context, key string, blob []byte) (string, error)

	// Ping reports whether the document store is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// Remote combines the document-store and object-storage clients into the
// single Client surface.
type Remote struct {
	*HTTPClient
	*S3Storage
}

var _ Client = (*Remote)(nil)

func NewRemote(docs *HTTPClient, objects *S3Storage) *Remote {
	return &Remote{HTTPClient: docs, S3Storage: objects}
}
