// Package common defines shared constants and sentinel errors used across
// the ArchePal client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Cache-layer errors. A cache failure is advisory: the online data path
	// must keep working without local snapshots.
	ErrCacheUnavailable = errors.New("cache unavailable")

	// Sync-engine errors.
	ErrSyncInProgress = errors.New("sync already in progress")

	// Remote-store errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("remote store unavailable")
	ErrTokenExpired = errors.New("session token expired")
)
