package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/archepal/archepal/internal/client/models"
	"github.com/archepal/archepal/internal/client/remote"
	"github.com/google/uuid"
)

// AddArtifact catalogs a new find. Online, the record goes straight to the
// remote store; offline, it is queued for the next drain.
func (a *App) AddArtifact(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Artifact name", a.out)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	siteID, err := GetSimpleText(a.reader, "Site id", a.out)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	material, err := GetSimpleText(a.reader, "Material", a.out)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	period, err := GetSimpleText(a.reader, "Period", a.out)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	description, err := GetMultiline(a.reader, "Description", a.out)
	if err != nil {
		printlnFn(err.Error())
		return
	}

	artifact := models.Artifact{
		SiteID:       siteID,
		Name:         name,
		Material:     material,
		Period:       period,
		Description:  description,
		DiscoveredAt: time.Now().UTC(),
	}

	photo := a.readPhoto()

	if a.isOnline() {
		remoteID, err := a.docs.CreateDocument(ctx, remote.CollectionArtifacts, artifact, uuid.NewString())
		if err == nil {
			a.uploadPhoto(ctx, remoteID, photo)
			printlnFn("Artifact created:", remoteID)
			return
		}
		a.log.Warn(ctx, "online create failed, queuing instead", "error", err)
	}

	localID, err := a.queue.QueueArtifact(ctx, artifact, photo)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	printlnFn(fmt.Sprintf("Artifact queued for sync (local id %d)", localID))
}

// readPhoto prompts for an optional photo path and loads it. Any problem
// reading the file means no photo, never a failed catalog entry.
func (a *App) readPhoto() []byte {
	path, err := GetSimpleText(a.reader, "Photo path (empty for none)", a.out)
	if err != nil || path == "" {
		return nil
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		printlnFn("Photo unreadable, continuing without it:", err.Error())
		return nil
	}
	return blob
}

func (a *App) uploadPhoto(ctx context.Context, remoteID string, photo []byte) {
	if photo == nil {
		return
	}
	key := fmt.Sprintf("users/%s/%s_%s.jpg", a.config.UserID, remoteID, uuid.New())
	if _, err := a.remote.Upload(ctx, key, photo); err != nil {
		a.log.Warn(ctx, "photo upload failed, record kept without image",
			"remote_id", remoteID, "error", err)
	}
}
