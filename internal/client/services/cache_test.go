package services

import (
	"context"
	"testing"
	"time"

	"github.com/archepal/archepal/internal/client/models"
	"github.com/archepal/archepal/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheService_SitesRoundTrip(t *testing.T) {
	db := setupDB(t)
	svc := newCacheService(db)
	fixClock(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	sites := []models.Site{
		{ID: "s1", Name: "Tell Qarqur", Period: "Bronze Age"},
		{ID: "s2", Name: "Vindolanda", Period: "Roman"},
	}
	require.NoError(t, svc.CacheSites(ctx, sites))

	snap, err := svc.CachedSites(ctx)
	require.NoError(t, err)
	assert.Equal(t, sites, snap.Data)
	assert.False(t, snap.IsStale)
}

func TestCacheService_ListGoesStaleAfterADay(t *testing.T) {
	db := setupDB(t)
	svc := newCacheService(db)
	advance := fixClock(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	sites := []models.Site{{ID: "s1", Name: "Tell Qarqur"}}
	require.NoError(t, svc.CacheSites(ctx, sites))

	advance(23 * time.Hour)
	snap, err := svc.CachedSites(ctx)
	require.NoError(t, err)
	assert.False(t, snap.IsStale)

	advance(2 * time.Hour)
	snap, err = svc.CachedSites(ctx)
	require.NoError(t, err)
	// Stale data is still served, only flagged.
	assert.Equal(t, sites, snap.Data)
	assert.True(t, snap.IsStale)
}

func TestCacheService_DetailGoesStaleAfterAWeek(t *testing.T) {
	db := setupDB(t)
	svc := newCacheService(db)
	advance := fixClock(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	art := models.Artifact{ID: "a1", SiteID: "s1", Name: "Bronze fibula", Material: "bronze"}
	require.NoError(t, svc.CacheArtifactDetail(ctx, art))

	advance(6 * 24 * time.Hour)
	snap, err := svc.CachedArtifactDetail(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, snap.Data)
	assert.False(t, snap.IsStale)

	advance(2 * 24 * time.Hour)
	snap, err = svc.CachedArtifactDetail(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, snap.Data)
	assert.Equal(t, art, *snap.Data)
	assert.True(t, snap.IsStale)
}

func TestCacheService_MissIsNotAnError(t *testing.T) {
	db := setupDB(t)
	svc := newCacheService(db)
	ctx := context.Background()

	snap, err := svc.CachedSiteDetail(ctx, "never-cached")
	require.NoError(t, err)
	assert.Nil(t, snap.Data)
	assert.False(t, snap.IsStale)

	lists, err := svc.CachedSites(ctx)
	require.NoError(t, err)
	assert.Nil(t, lists.Data)
}

func TestCacheService_RefreshOverwrites(t *testing.T) {
	db := setupDB(t)
	svc := newCacheService(db)
	fixClock(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	require.NoError(t, svc.CacheSiteDetail(ctx, models.Site{ID: "s1", Name: "Old name"}))
	require.NoError(t, svc.CacheSiteDetail(ctx, models.Site{ID: "s1", Name: "New name"}))

	snap, err := svc.CachedSiteDetail(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, snap.Data)
	assert.Equal(t, "New name", snap.Data.Name)

	var n int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM site_details_cache`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestCacheService_SiteArtifactsKeyedPerSite(t *testing.T) {
	db := setupDB(t)
	svc := newCacheService(db)
	fixClock(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	s1 := []models.Artifact{{ID: "a1", SiteID: "s1", Name: "Fibula"}}
	s2 := []models.Artifact{{ID: "a2", SiteID: "s2", Name: "Stylus"}}
	require.NoError(t, svc.CacheSiteArtifacts(ctx, "s1", s1))
	require.NoError(t, svc.CacheSiteArtifacts(ctx, "s2", s2))

	snap, err := svc.CachedSiteArtifacts(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, s1, snap.Data)

	snap, err = svc.CachedSiteArtifacts(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, s2, snap.Data)
}

func TestCacheService_ClearAllLeavesQueuesAlone(t *testing.T) {
	db := setupDB(t)
	cacheSvc := newCacheService(db)
	queueSvc := newQueueService(db, t.TempDir())
	ctx := context.Background()

	require.NoError(t, cacheSvc.CacheSites(ctx, []models.Site{{ID: "s1", Name: "Vindolanda"}}))
	require.NoError(t, cacheSvc.CacheArtifactDetail(ctx, models.Artifact{ID: "a1", Name: "Fibula"}))

	_, err := queueSvc.QueueArtifact(ctx, models.Artifact{SiteID: "s1", Name: "Potsherd"}, nil)
	require.NoError(t, err)

	require.NoError(t, cacheSvc.ClearAll(ctx))

	snap, err := cacheSvc.CachedSites(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap.Data)

	detail, err := cacheSvc.CachedArtifactDetail(ctx, "a1")
	require.NoError(t, err)
	assert.Nil(t, detail.Data)

	n, err := queueSvc.TotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCacheService_StorageFailureIsReportedNotHidden(t *testing.T) {
	db := setupDB(t)
	svc := newCacheService(db)
	ctx := context.Background()

	_, err := db.Exec(`DROP TABLE sites_cache`)
	require.NoError(t, err)

	err = svc.CacheSites(ctx, []models.Site{{ID: "s1"}})
	assert.ErrorIs(t, err, common.ErrCacheUnavailable)

	_, err = svc.CachedSites(ctx)
	assert.ErrorIs(t, err, common.ErrCacheUnavailable)

	err = svc.ClearAll(ctx)
	assert.ErrorIs(t, err, common.ErrCacheUnavailable)
}
