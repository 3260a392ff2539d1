package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/archepal/archepal/internal/client/remote"
	"github.com/archepal/archepal/internal/common"
	"github.com/archepal/archepal/internal/filex"
	"github.com/archepal/archepal/internal/logging"
	"github.com/google/uuid"
)

// Result is the aggregate outcome of one drain pass. Individual failure
// reasons are logged only; these counts are the whole reporting surface.
type Result struct {
	Synced int
	Failed int
}

// SyncService drains the offline write queues against the remote store.
//
// Each queue is drained sequentially, one entry at a time, so a network
// that has only just recovered is not flooded. A failed create leaves the
// entry untouched for the next drain; the idempotency key assigned at
// enqueue time makes replaying an interrupted drain safe.
type SyncService struct {
	queue  *QueueService
	remote remote.Client
	userID string
	log    logging.Logger

	artifactsMu sync.Mutex
	diaryMu     sync.Mutex
}

func NewSyncService(queue *QueueService, remote remote.Client, userID string, log logging.Logger) *SyncService {
	return &SyncService{
		queue:  queue,
		remote: remote,
		userID: userID,
		log:    log.With("component", "sync"),
	}
}

// DrainArtifacts drains the artifact queue. A concurrent drain of the same
// queue returns common.ErrSyncInProgress immediately.
func (s *SyncService) DrainArtifacts(ctx context.Context) (Result, error) {
	return s.drain(ctx, &s.artifactsMu, KindArtifact, remote.CollectionArtifacts)
}

// DrainDiaryEntries drains the diary queue.
func (s *SyncService) DrainDiaryEntries(ctx context.Context) (Result, error) {
	return s.drain(ctx, &s.diaryMu, KindDiary, remote.CollectionDiaryEntries)
}

// DrainAll drains both queues, artifacts first. There is no ordering
// contract between the two; counts are summed.
func (s *SyncService) DrainAll(ctx context.Context) (Result, error) {
	a, errA := s.DrainArtifacts(ctx)
	d, errD := s.DrainDiaryEntries(ctx)

	return Result{
		Synced: a.Synced + d.Synced,
		Failed: a.Failed + d.Failed,
	}, errors.Join(errA, errD)
}

func (s *SyncService) drain(ctx context.Context, mu *sync.Mutex, kind Kind, collection string) (Result, error) {
	if !mu.TryLock() {
		// Coalesce concurrent triggers instead of double-processing.
		return Result{}, common.ErrSyncInProgress
	}
	defer mu.Unlock()

	// Snapshot at drain start; entries queued mid-drain wait for the next
	// trigger (at-least-once-eventually, not exactly-once-this-pass).
	pending, err := s.queue.Pending(ctx, kind)
	if err != nil {
		return Result{}, fmt.Errorf("failed to snapshot %s queue: %w", kind, err)
	}

	var res Result
	for _, w := range pending {
		var doc map[string]any
		if err := json.Unmarshal(w.Payload, &doc); err != nil {
			s.log.Error(ctx, "malformed queue payload, leaving entry for inspection",
				"kind", kind, "local_id", w.LocalID, "error", err)
			res.Failed++
			continue
		}

		remoteID, err := s.remote.CreateDocument(ctx, collection, doc, w.IdempotencyKey)
		if err != nil {
			s.log.Error(ctx, "failed to submit queued record",
				"kind", kind, "local_id", w.LocalID, "error", err)
			res.Failed++
			continue
		}

		if w.LocalImagePath != "" {
			s.uploadAttachment(ctx, kind, w.LocalImagePath, remoteID)
		}

		if err := s.queue.Remove(ctx, kind, w.LocalID, w.LocalImagePath); err != nil {
			// The record reached the remote store; the idempotency key keeps
			// the inevitable replay from duplicating it.
			s.log.Error(ctx, "synced record could not be dequeued",
				"kind", kind, "local_id", w.LocalID, "error", err)
		}

		res.Synced++
	}

	s.log.Info(ctx, "queue drained", "kind", kind, "synced", res.Synced, "failed", res.Failed)
	return res, nil
}

// uploadAttachment pushes the locally persisted photo to object storage
// under a user- and record-namespaced key. Failure here is degraded
// success: the record stays synced, just without its image.
func (s *SyncService) uploadAttachment(ctx context.Context, kind Kind, path, remoteID string) {
	blob, err := filex.ReadAttachment(path)
	if err != nil {
		s.log.Warn(ctx, "attachment unreadable, record synced without image",
			"kind", kind, "path", path, "error", err)
		return
	}

	key := fmt.Sprintf("users/%s/%s_%s.jpg", s.userID, remoteID, uuid.New())
	url, err := s.remote.Upload(ctx, key, blob)
	if err != nil {
		s.log.Warn(ctx, "attachment upload failed, record synced without image",
			"kind", kind, "remote_id", remoteID, "error", err)
		return
	}

	s.log.Info(ctx, "attachment uploaded", "kind", kind, "remote_id", remoteID, "url", url)
}
