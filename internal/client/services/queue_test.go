package services

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/archepal/archepal/internal/client/models"
	"github.com/archepal/archepal/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueService_QueueArtifact(t *testing.T) {
	db := setupDB(t)
	svc := newQueueService(db, t.TempDir())
	fixClock(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	a := models.Artifact{SiteID: "s1", Name: "Potsherd", Material: "ceramic", Period: "Iron Age"}
	localID, err := svc.QueueArtifact(ctx, a, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), localID)

	pending, err := svc.Pending(ctx, KindArtifact)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	w := pending[0]
	assert.Equal(t, models.StatusPending, w.Status)
	assert.Empty(t, w.LocalImagePath)
	assert.NotEmpty(t, w.IdempotencyKey)

	var got models.Artifact
	require.NoError(t, json.Unmarshal(w.Payload, &got))
	assert.Equal(t, a, got)
}

func TestQueueService_QueueWithPhotoPersistsAttachment(t *testing.T) {
	db := setupDB(t)
	dir := t.TempDir()
	svc := newQueueService(db, dir)
	fixClock(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	photo := []byte("jpeg-bytes")
	_, err := svc.QueueArtifact(ctx, models.Artifact{SiteID: "s1", Name: "Coin"}, photo)
	require.NoError(t, err)

	pending, err := svc.Pending(ctx, KindArtifact)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	path := pending[0].LocalImagePath
	require.NotEmpty(t, path)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "_artifact.jpg"))

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, photo, saved)
}

func TestQueueService_AttachmentFailureStillQueues(t *testing.T) {
	db := setupDB(t)
	// A regular file where the attachments directory should be makes
	// every save fail.
	blocked := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o600))
	svc := newQueueService(db, blocked)
	ctx := context.Background()

	_, err := svc.QueueDiaryEntry(ctx, models.DiaryEntry{Title: "Day 3", Content: "Rain."}, []byte("photo"))
	require.NoError(t, err)

	pending, err := svc.Pending(ctx, KindDiary)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Empty(t, pending[0].LocalImagePath)
}

func TestQueueService_Counts(t *testing.T) {
	db := setupDB(t)
	svc := newQueueService(db, t.TempDir())
	ctx := context.Background()

	_, err := svc.QueueArtifact(ctx, models.Artifact{SiteID: "s1", Name: "A"}, nil)
	require.NoError(t, err)
	_, err = svc.QueueArtifact(ctx, models.Artifact{SiteID: "s1", Name: "B"}, nil)
	require.NoError(t, err)
	_, err = svc.QueueDiaryEntry(ctx, models.DiaryEntry{Title: "Day 1"}, nil)
	require.NoError(t, err)

	n, err := svc.Count(ctx, KindArtifact)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.Count(ctx, KindDiary)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	total, err := svc.TotalCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestQueueService_UpdateEntryPreservesIdentity(t *testing.T) {
	db := setupDB(t)
	svc := newQueueService(db, t.TempDir())
	fixClock(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	localID, err := svc.QueueArtifact(ctx, models.Artifact{SiteID: "s1", Name: "Amphora handle"}, nil)
	require.NoError(t, err)

	before, err := svc.Pending(ctx, KindArtifact)
	require.NoError(t, err)
	require.Len(t, before, 1)

	err = svc.UpdateEntry(ctx, KindArtifact, localID, map[string]any{
		"aiImageSummary": "Rim fragment of a Dressel 20 amphora.",
	})
	require.NoError(t, err)

	after, err := svc.Pending(ctx, KindArtifact)
	require.NoError(t, err)
	require.Len(t, after, 1)

	assert.Equal(t, before[0].LocalID, after[0].LocalID)
	assert.Equal(t, before[0].Status, after[0].Status)
	assert.Equal(t, before[0].CreatedAt, after[0].CreatedAt)
	assert.Equal(t, before[0].IdempotencyKey, after[0].IdempotencyKey)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(after[0].Payload, &doc))
	assert.Equal(t, "Amphora handle", doc["name"])
	assert.Equal(t, "Rim fragment of a Dressel 20 amphora.", doc["aiImageSummary"])
}

func TestQueueService_UpdateEntryMissing(t *testing.T) {
	db := setupDB(t)
	svc := newQueueService(db, t.TempDir())

	err := svc.UpdateEntry(context.Background(), KindArtifact, 42, map[string]any{"name": "x"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestQueueService_RemoveDeletesRowAndAttachment(t *testing.T) {
	db := setupDB(t)
	svc := newQueueService(db, t.TempDir())
	fixClock(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	localID, err := svc.QueueArtifact(ctx, models.Artifact{SiteID: "s1", Name: "Coin"}, []byte("photo"))
	require.NoError(t, err)

	pending, err := svc.Pending(ctx, KindArtifact)
	require.NoError(t, err)
	path := pending[0].LocalImagePath
	require.FileExists(t, path)

	require.NoError(t, svc.Remove(ctx, KindArtifact, localID, path))

	n, err := svc.Count(ctx, KindArtifact)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.NoFileExists(t, path)
}

func TestQueueService_RemoveToleratesMissingAttachment(t *testing.T) {
	db := setupDB(t)
	svc := newQueueService(db, t.TempDir())
	ctx := context.Background()

	localID, err := svc.QueueArtifact(ctx, models.Artifact{SiteID: "s1", Name: "Coin"}, nil)
	require.NoError(t, err)

	err = svc.Remove(ctx, KindArtifact, localID, filepath.Join(t.TempDir(), "gone.jpg"))
	assert.NoError(t, err)
}
