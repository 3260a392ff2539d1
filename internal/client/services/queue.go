package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/archepal/archepal/internal/client/models"
	"github.com/archepal/archepal/internal/client/repositories/queue"
	"github.com/archepal/archepal/internal/filex"
	"github.com/archepal/archepal/internal/logging"
	"github.com/google/uuid"
)

// Kind selects one of the two offline write queues.
type Kind string

const (
	KindArtifact Kind = "artifact"
	KindDiary    Kind = "diary"
)

// QueueService durably records create operations attempted while offline.
// Each entry optionally owns a locally persisted photo; ownership of the
// photo passes to the sync engine during a drain.
type QueueService struct {
	artifacts      queue.Repository
	diary          queue.Repository
	attachmentsDir string
	log            logging.Logger
}

func NewQueueService(artifacts, diary queue.Repository, attachmentsDir string, log logging.Logger) *QueueService {
	return &QueueService{
		artifacts:      artifacts,
		diary:          diary,
		attachmentsDir: attachmentsDir,
		log:            log.With("component", "queue"),
	}
}

// QueueArtifact enqueues an artifact create, returning its local id.
func (s *QueueService) QueueArtifact(ctx context.Context, a models.Artifact, photo []byte) (int64, error) {
	return s.enqueue(ctx, KindArtifact, a, photo)
}

// QueueDiaryEntry enqueues a diary-entry create, returning its local id.
func (s *QueueService) QueueDiaryEntry(ctx context.Context, d models.DiaryEntry, photo []byte) (int64, error) {
	return s.enqueue(ctx, KindDiary, d, photo)
}

func (s *QueueService) enqueue(ctx context.Context, kind Kind, record any, photo []byte) (int64, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return 0, fmt.Errorf("failed to encode %s record: %w", kind, err)
	}

	localPath := ""
	if photo != nil {
		path, err := filex.SaveAttachment(s.attachmentsDir, string(kind), photo)
		if err != nil {
			// The record still gets queued; the photo is lost.
			s.log.Warn(ctx, "failed to persist attachment, queuing record without it",
				"kind", kind, "error", err)
		} else {
			localPath = path
		}
	}

	w := &models.QueuedWrite{
		Payload:        payload,
		LocalImagePath: localPath,
		Status:         models.StatusPending,
		CreatedAt:      nowFn().UTC(),
		IdempotencyKey: uuid.NewString(),
	}

	localID, err := s.repoFor(kind).Insert(ctx, w)
	if err != nil {
		return 0, fmt.Errorf("failed to queue %s: %w", kind, err)
	}

	s.log.Info(ctx, "record queued for sync", "kind", kind, "local_id", localID,
		"has_attachment", localPath != "")
	return localID, nil
}

// Pending returns the queue snapshot for one kind, in insertion order.
func (s *QueueService) Pending(ctx context.Context, kind Kind) ([]models.QueuedWrite, error) {
	return s.repoFor(kind).GetAll(ctx)
}

// Count returns the number of pending entries for one kind.
func (s *QueueService) Count(ctx context.Context, kind Kind) (int, error) {
	return s.repoFor(kind).Count(ctx)
}

// TotalCount returns the pending count across both queues, for the
// "pending sync" badge.
func (s *QueueService) TotalCount(ctx context.Context) (int, error) {
	a, err := s.artifacts.Count(ctx)
	if err != nil {
		return 0, err
	}
	d, err := s.diary.Count(ctx)
	if err != nil {
		return 0, err
	}
	return a + d, nil
}

// UpdateEntry merges patch into the payload of a still-pending entry.
// The local id, status, created_at, and idempotency key are preserved.
// Used to attach an AI-derived image summary once background analysis
// finishes after the record was already queued.
func (s *QueueService) UpdateEntry(ctx context.Context, kind Kind, localID int64, patch map[string]any) error {
	repo := s.repoFor(kind)

	w, err := repo.GetByID(ctx, localID)
	if err != nil {
		return fmt.Errorf("failed to load %s[%d]: %w", kind, localID, err)
	}

	var doc map[string]any
	if err := json.Unmarshal(w.Payload, &doc); err != nil {
		return fmt.Errorf("failed to decode %s[%d] payload: %w", kind, localID, err)
	}
	for k, v := range patch {
		doc[k] = v
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s[%d] payload: %w", kind, localID, err)
	}

	return repo.UpdatePayload(ctx, localID, payload)
}

// Remove deletes a queue entry and, best-effort, its attachment file. An
// orphaned file is acceptable and only logged.
func (s *QueueService) Remove(ctx context.Context, kind Kind, localID int64, attachmentPath string) error {
	if err := s.repoFor(kind).Delete(ctx, localID); err != nil {
		return fmt.Errorf("failed to remove %s[%d]: %w", kind, localID, err)
	}

	if attachmentPath != "" {
		if err := filex.RemoveAttachment(attachmentPath); err != nil {
			s.log.Warn(ctx, "failed to delete attachment file", "path", attachmentPath, "error", err)
		}
	}
	return nil
}

func (s *QueueService) repoFor(kind Kind) queue.Repository {
	if kind == KindDiary {
		return s.diary
	}
	return s.artifacts
}
