package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/archepal/archepal/internal/client/models"
	"github.com/archepal/archepal/internal/client/remote"
	"github.com/google/uuid"
)

// AddDiary writes a field-diary entry, queued when offline.
func (a *App) AddDiary(ctx context.Context) {
	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	category, err := GetSimpleText(a.reader, "Category (site/find/general)", a.out)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	siteID, err := GetSimpleText(a.reader, "Site id (empty for none)", a.out)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	content, err := GetMultiline(a.reader, "Entry text", a.out)
	if err != nil {
		printlnFn(err.Error())
		return
	}

	entry := models.DiaryEntry{
		Title:     title,
		Category:  category,
		SiteID:    siteID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	photo := a.readPhoto()

	if a.isOnline() {
		remoteID, err := a.docs.CreateDocument(ctx, remote.CollectionDiaryEntries, entry, uuid.NewString())
		if err == nil {
			a.uploadPhoto(ctx, remoteID, photo)
			printlnFn("Diary entry created:", remoteID)
			return
		}
		a.log.Warn(ctx, "online create failed, queuing instead", "error", err)
	}

	localID, err := a.queue.QueueDiaryEntry(ctx, entry, photo)
	if err != nil {
		printlnFn(err.Error())
		return
	}
	printlnFn(fmt.Sprintf("Diary entry queued for sync (local id %d)", localID))
}
