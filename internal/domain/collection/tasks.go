package collection

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"

	"dayboard/internal/domain/record"
)

// TaskRemote is the remote table behind a TaskStore.
type TaskRemote = Remote[record.Task, record.TaskPatch]

// TaskStore holds the signed-in user's tasks and adds the task-only operations.
type TaskStore struct {
	*Store[record.Task, record.TaskPatch]
}

// NewTaskStore returns an empty task store for ownerID.
func NewTaskStore(remote TaskRemote, ownerID string, log *slog.Logger) *TaskStore {
	return &TaskStore{
		Store: NewStore[record.Task, record.TaskPatch](record.KindTask, remote, ownerID, log),
	}
}

// SetCompletion flips the completion flag and patches the stored task in place.
func (s *TaskStore) SetCompletion(ctx context.Context, id string, complete bool) (record.Task, error) {
	return s.Update(ctx, id, record.TaskPatch{IsComplete: &complete})
}

// ArchiveCompleted deletes every completed task after a single confirmation.
// Tasks that failed to delete stay in the store; their errors are joined.
func (s *TaskStore) ArchiveCompleted(ctx context.Context, gate Confirmer) (int, error) {
	if err := s.checkSession(); err != nil {
		return 0, err
	}

	var ids []string
	for _, t := range s.Snapshot() {
		if t.IsComplete {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := confirm(ctx, gate, fmt.Sprintf("Archive (delete) %d completed tasks?", len(ids))); err != nil {
		return 0, err
	}

	archived := 0
	var errs []error
	for _, id := range ids {
		if err := s.remote.DeleteByID(ctx, s.ownerID, id); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", id, err))
			continue
		}
		s.remove(id)
		archived++
	}

	s.log.Info("completed tasks archived", "archived", archived, "failed", len(errs))
	if len(errs) > 0 {
		return archived, fmt.Errorf("%w: %w", ErrRemoteWrite, errors.Join(errs...))
	}
	return archived, nil
}
