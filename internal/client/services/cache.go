// Package services implements the offline subsystem on top of the local
// store: the read cache, the write queue, the sync engine, and the
// connectivity monitor.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/archepal/archepal/internal/client/models"
	"github.com/archepal/archepal/internal/client/repositories/cache"
	"github.com/archepal/archepal/internal/common"
	"github.com/archepal/archepal/internal/dbx"
	"github.com/archepal/archepal/internal/logging"
)

// nowFn is a test seam for the clock, shared by the services in this package.
var nowFn = time.Now

// Fixed keys for the list snapshots. Per-site artifact lists use
// siteArtifactsKey and share the artifacts-list collection.
const (
	sitesListKey        = "sites-list"
	artifactsListKey    = "artifacts-list"
	siteArtifactsPrefix = "site-artifacts-"
)

func siteArtifactsKey(siteID string) string {
	return siteArtifactsPrefix + siteID
}

// Snapshot is a cache lookup result. A zero Data with IsStale false means
// the key was never cached. IsStale is advisory: stale data is still
// returned, and it is the caller's decision whether to trust it. Showing
// week-old data at a remote excavation site beats showing nothing.
type Snapshot[T any] struct {
	Data    T
	IsStale bool
}

// CacheService stores and retrieves last-known-good snapshots of remote
// documents. It is strictly best-effort: a storage failure is reported as
// common.ErrCacheUnavailable so callers can tell "no data" from "error
// suppressed", but it must never block the primary online data path.
type CacheService struct {
	db              *sql.DB
	sites           cache.Repository
	artifacts       cache.Repository
	siteDetails     cache.Repository
	artifactDetails cache.Repository
	log             logging.Logger
}

func NewCacheService(db *sql.DB, sites, artifacts, siteDetails, artifactDetails cache.Repository, log logging.Logger) *CacheService {
	return &CacheService{
		db:              db,
		sites:           sites,
		artifacts:       artifacts,
		siteDetails:     siteDetails,
		artifactDetails: artifactDetails,
		log:             log.With("component", "cache"),
	}
}

// CacheSites replaces the cached site list.
func (s *CacheService) CacheSites(ctx context.Context, sites []models.Site) error {
	return putCached(ctx, s, s.sites, sitesListKey, sites, models.ListCacheTTL)
}

// CachedSites returns the last cached site list.
func (s *CacheService) CachedSites(ctx context.Context) (Snapshot[[]models.Site], error) {
	return getCached[[]models.Site](ctx, s, s.sites, sitesListKey)
}

// CacheArtifacts replaces the cached artifact list.
func (s *CacheService) CacheArtifacts(ctx context.Context, artifacts []models.Artifact) error {
	return putCached(ctx, s, s.artifacts, artifactsListKey, artifacts, models.ListCacheTTL)
}

// CachedArtifacts returns the last cached artifact list.
func (s *CacheService) CachedArtifacts(ctx context.Context) (Snapshot[[]models.Artifact], error) {
	return getCached[[]models.Artifact](ctx, s, s.artifacts, artifactsListKey)
}

// CacheSiteDetail caches a single site under its id.
func (s *CacheService) CacheSiteDetail(ctx context.Context, site models.Site) error {
	return putCached(ctx, s, s.siteDetails, site.ID, site, models.DetailCacheTTL)
}

// CachedSiteDetail returns a cached site by id.
func (s *CacheService) CachedSiteDetail(ctx context.Context, id string) (Snapshot[*models.Site], error) {
	return getCached[*models.Site](ctx, s, s.siteDetails, id)
}

// CacheArtifactDetail caches a single artifact under its id.
func (s *CacheService) CacheArtifactDetail(ctx context.Context, artifact models.Artifact) error {
	return putCached(ctx, s, s.artifactDetails, artifact.ID, artifact, models.DetailCacheTTL)
}

// CachedArtifactDetail returns a cached artifact by id.
func (s *CacheService) CachedArtifactDetail(ctx context.Context, id string) (Snapshot[*models.Artifact], error) {
	return getCached[*models.Artifact](ctx, s, s.artifactDetails, id)
}

// CacheSiteArtifacts caches the per-site artifact list under a composite
// key in the artifacts-list collection.
func (s *CacheService) CacheSiteArtifacts(ctx context.Context, siteID string, artifacts []models.Artifact) error {
	return putCached(ctx, s, s.artifacts, siteArtifactsKey(siteID), artifacts, models.ListCacheTTL)
}

// CachedSiteArtifacts returns the cached per-site artifact list.
func (s *CacheService) CachedSiteArtifacts(ctx context.Context, siteID string) (Snapshot[[]models.Artifact], error) {
	return getCached[[]models.Artifact](ctx, s, s.artifacts, siteArtifactsKey(siteID))
}

// ClearAll empties every cache collection in a single transaction, so a
// reset never leaves a half-cleared cache behind. The write queues are
// untouched.
func (s *CacheService) ClearAll(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, table := range []string{cache.TableSites, cache.TableArtifacts, cache.TableSiteDetails, cache.TableArtifactDetails} {
			if err := cache.NewSQLiteRepository(tx, table).Clear(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "failed to clear caches", "error", err)
		return fmt.Errorf("%w: %w", common.ErrCacheUnavailable, err)
	}
	return nil
}

func putCached[T any](ctx context.Context, s *CacheService, repo cache.Repository, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		s.log.Error(ctx, "failed to encode cache entry", "key", key, "error", err)
		return fmt.Errorf("%w: %w", common.ErrCacheUnavailable, err)
	}

	now := nowFn()
	entry := &models.CachedEntry{
		ID:        key,
		Data:      data,
		CachedAt:  now.UnixMilli(),
		ExpiresAt: now.Add(ttl).UnixMilli(),
	}

	if err := repo.Put(ctx, entry); err != nil {
		s.log.Error(ctx, "failed to write cache entry", "key", key, "error", err)
		return fmt.Errorf("%w: %w", common.ErrCacheUnavailable, err)
	}
	return nil
}

func getCached[T any](ctx context.Context, s *CacheService, repo cache.Repository, key string) (Snapshot[T], error) {
	var snap Snapshot[T]

	entry, err := repo.Get(ctx, key)
	if err != nil {
		s.log.Error(ctx, "failed to read cache entry", "key", key, "error", err)
		return snap, fmt.Errorf("%w: %w", common.ErrCacheUnavailable, err)
	}
	if entry == nil {
		return snap, nil
	}

	if err := json.Unmarshal(entry.Data, &snap.Data); err != nil {
		s.log.Error(ctx, "failed to decode cache entry", "key", key, "error", err)
		return Snapshot[T]{}, fmt.Errorf("%w: %w", common.ErrCacheUnavailable, err)
	}

	snap.IsStale = entry.IsStale(nowFn())
	return snap, nil
}
