// Package common defines shared constants and sentinel errors used across
// the ArchePal client.
package common

const (
	// APIKeyHeaderName is the HTTP header carrying the project API key on
	// outbound document-store requests.
	APIKeyHeaderName = "X-Api-Key"

	// IdempotencyKeyHeaderName carries the client-generated idempotency key
	// on document create requests. The remote store upserts by this key, so
	// a replayed request never produces a duplicate document.
	IdempotencyKeyHeaderName = "Idempotency-Key"
)
