package cli

import (
	"context"
	"fmt"
	"net/url"

	"github.com/archepal/archepal/internal/client/models"
	"github.com/archepal/archepal/internal/client/remote"
)

// Sites lists all excavation sites: remote-first when online (refreshing
// the cache), cached snapshot otherwise.
func (a *App) Sites(ctx context.Context) {
	if a.isOnline() {
		var sites []models.Site
		if err := a.docs.ListDocuments(ctx, remote.CollectionSites, nil, &sites); err == nil {
			if cerr := a.caches.CacheSites(ctx, sites); cerr != nil {
				a.log.Warn(ctx, "site list not cached", "error", cerr)
			}
			printSites(sites, false)
			return
		} else {
			a.log.Warn(ctx, "remote site list unavailable, using cache", "error", err)
		}
	}

	snap, err := a.caches.CachedSites(ctx)
	if err != nil {
		a.log.Warn(ctx, "site cache unreadable", "error", err)
	}
	if snap.Data == nil {
		printlnFn("No sites available offline.")
		return
	}
	printSites(snap.Data, snap.IsStale)
}

// Artifacts lists all cataloged artifacts, same remote-first pattern.
func (a *App) Artifacts(ctx context.Context) {
	if a.isOnline() {
		var artifacts []models.Artifact
		if err := a.docs.ListDocuments(ctx, remote.CollectionArtifacts, nil, &artifacts); err == nil {
			if cerr := a.caches.CacheArtifacts(ctx, artifacts); cerr != nil {
				a.log.Warn(ctx, "artifact list not cached", "error", cerr)
			}
			printArtifacts(artifacts, false)
			return
		} else {
			a.log.Warn(ctx, "remote artifact list unavailable, using cache", "error", err)
		}
	}

	snap, err := a.caches.CachedArtifacts(ctx)
	if err != nil {
		a.log.Warn(ctx, "artifact cache unreadable", "error", err)
	}
	if snap.Data == nil {
		printlnFn("No artifacts available offline.")
		return
	}
	printArtifacts(snap.Data, snap.IsStale)
}

// Site shows one site and its artifacts.
func (a *App) Site(ctx context.Context, id string) {
	if a.isOnline() {
		var site models.Site
		err := a.docs.GetDocument(ctx, remote.CollectionSites, id, &site)
		if err == nil {
			var artifacts []models.Artifact
			if lerr := a.docs.ListDocuments(ctx, remote.CollectionArtifacts,
				url.Values{"siteId": {id}}, &artifacts); lerr != nil {
				a.log.Warn(ctx, "site artifacts unavailable", "site_id", id, "error", lerr)
			} else if cerr := a.caches.CacheSiteArtifacts(ctx, id, artifacts); cerr != nil {
				a.log.Warn(ctx, "site artifacts not cached", "error", cerr)
			}
			if cerr := a.caches.CacheSiteDetail(ctx, site); cerr != nil {
				a.log.Warn(ctx, "site detail not cached", "error", cerr)
			}
			printSite(site, artifacts, false)
			return
		}
		a.log.Warn(ctx, "remote site unavailable, using cache", "site_id", id, "error", err)
	}

	snap, err := a.caches.CachedSiteDetail(ctx, id)
	if err != nil {
		a.log.Warn(ctx, "site detail cache unreadable", "error", err)
	}
	if snap.Data == nil {
		printlnFn("Site not available offline:", id)
		return
	}
	artSnap, _ := a.caches.CachedSiteArtifacts(ctx, id)
	printSite(*snap.Data, artSnap.Data, snap.IsStale || artSnap.IsStale)
}

// Artifact shows one artifact.
func (a *App) Artifact(ctx context.Context, id string) {
	if a.isOnline() {
		var artifact models.Artifact
		if err := a.docs.GetDocument(ctx, remote.CollectionArtifacts, id, &artifact); err == nil {
			if cerr := a.caches.CacheArtifactDetail(ctx, artifact); cerr != nil {
				a.log.Warn(ctx, "artifact detail not cached", "error", cerr)
			}
			printArtifacts([]models.Artifact{artifact}, false)
			return
		} else {
			a.log.Warn(ctx, "remote artifact unavailable, using cache", "artifact_id", id, "error", err)
		}
	}

	snap, err := a.caches.CachedArtifactDetail(ctx, id)
	if err != nil {
		a.log.Warn(ctx, "artifact detail cache unreadable", "error", err)
	}
	if snap.Data == nil {
		printlnFn("Artifact not available offline:", id)
		return
	}
	printArtifacts([]models.Artifact{*snap.Data}, snap.IsStale)
}

func printSites(sites []models.Site, stale bool) {
	if stale {
		printlnFn("(showing cached data past its refresh window)")
	}
	for _, s := range sites {
		printlnFn(fmt.Sprintf("%s  %s  [%s]", s.ID, s.Name, s.Period))
	}
}

func printArtifacts(artifacts []models.Artifact, stale bool) {
	if stale {
		printlnFn("(showing cached data past its refresh window)")
	}
	for _, art := range artifacts {
		printlnFn(fmt.Sprintf("%s  %s  %s, %s  (site %s)", art.ID, art.Name, art.Material, art.Period, art.SiteID))
	}
}

func printSite(site models.Site, artifacts []models.Artifact, stale bool) {
	if stale {
		printlnFn("(showing cached data past its refresh window)")
	}
	printlnFn(fmt.Sprintf("%s  %s  [%s]", site.ID, site.Name, site.Period))
	printlnFn(site.Description)
	if len(artifacts) > 0 {
		printlnFn("Artifacts:")
		for _, art := range artifacts {
			printlnFn(fmt.Sprintf("  %s  %s", art.ID, art.Name))
		}
	}
}
