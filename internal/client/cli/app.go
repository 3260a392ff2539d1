// Package cli implements the ArchePal field client: a small interactive
// shell for cataloging artifacts and diary entries in the trench, with or
// without connectivity.
package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/archepal/archepal/internal/client/config"
	"github.com/archepal/archepal/internal/client/remote"
	"github.com/archepal/archepal/internal/client/services"
	"github.com/archepal/archepal/internal/client/store"
	"github.com/archepal/archepal/internal/logging"
)

// Mode is the user-visible connectivity mode shown in the prompt.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config  *config.Config
	store   *store.Store
	docs    *remote.HTTPClient
	remote  remote.Client
	caches  *services.CacheService
	queue   *services.QueueService
	syncer  *services.SyncService
	monitor *services.Monitor
	log     logging.Logger

	Mode   Mode
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	st, err := store.Open(ctx, c.DatabasePath)
	if err != nil {
		// No local store means no offline support at all for this session.
		return nil, err
	}

	docs := remote.NewHTTPClient(c.ServerBaseURL, c.APIKey)
	objects, err := remote.NewS3Storage(ctx, remote.S3Config{
		BaseEndpoint: c.S3BaseEndpoint,
		Region:       c.S3Region,
		Bucket:       c.S3Bucket,
		RootUser:     c.S3RootUser,
		RootPassword: c.S3RootPassword,
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	rc := remote.NewRemote(docs, objects)

	caches := services.NewCacheService(st.DB(), st.SitesCache, st.ArtifactsCache,
		st.SiteDetailsCache, st.ArtifactDetailsCache, log)
	queue := services.NewQueueService(st.ArtifactQueue, st.DiaryQueue, c.AttachmentsDir, log)
	syncer := services.NewSyncService(queue, rc, c.UserID, log)

	return &App{
		config:  c,
		store:   st,
		docs:    docs,
		remote:  rc,
		caches:  caches,
		queue:   queue,
		syncer:  syncer,
		monitor: services.NewMonitor(log),
		log:     log,
		Mode:    ModeOffline,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

func (a *App) Close() {
	_ = a.remote.Close()
	_ = a.store.Close()
}

func (a *App) isOnline() bool {
	return a.Mode == ModeOnline
}

// StartOnlineStatusWatcher probes connectivity on the configured interval
// and keeps the prompt mode in step. Regaining connectivity triggers a
// queue drain.
func (a *App) StartOnlineStatusWatcher(ctx context.Context) {
	prober := &services.PingProber{Remote: a.remote, Timeout: 3 * time.Second}

	updates, cancel := a.monitor.Subscribe()
	defer cancel()

	go a.monitor.Watch(ctx, prober, a.config.OnlineCheckInterval)

	for {
		select {
		case st := <-updates:
			wasOnline := a.isOnline()
			if st.Connected {
				a.Mode = ModeOnline
			} else {
				a.Mode = ModeOffline
			}
			if !wasOnline && st.Connected {
				a.drainOnReconnect(ctx)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) drainOnReconnect(ctx context.Context) {
	res, err := a.syncer.DrainAll(ctx)
	if err != nil {
		a.log.Warn(ctx, "reconnect drain incomplete", "error", err)
	}
	if res.Synced > 0 || res.Failed > 0 {
		a.log.Info(ctx, "reconnect drain finished", "synced", res.Synced, "failed", res.Failed)
	}
}
