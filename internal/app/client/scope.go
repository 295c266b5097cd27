package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/slog"

	"dayboard/internal/changefeed"
	"dayboard/internal/domain/collection"
	"dayboard/internal/domain/session"
)

// Scope is everything that lives exactly as long as one session: the
// signed-in user, one store per collection and their change subscriptions.
type Scope struct {
	Session *session.Session
	Tasks   *collection.TaskStore
	Notes   *collection.NoteStore

	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// newScope subscribes before anything is loaded so no change is missed.
func newScope(ctx context.Context, sess *session.Session, tasks TaskTable, notes NoteTable, log *slog.Logger) (*Scope, error) {
	log = log.With("user_id", sess.UserID)
	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	s := &Scope{
		Session: sess,
		Tasks:   collection.NewTaskStore(tasks, sess.UserID, log),
		Notes:   collection.NewNoteStore(notes, sess.UserID, log),
		cancel:  cancel,
	}

	filter := changefeed.Filter{OwnerID: sess.UserID}
	taskEvents, err := tasks.Subscribe(subCtx, filter)
	if err != nil {
		cancel()
		return nil, err
	}
	noteEvents, err := notes.Subscribe(subCtx, filter)
	if err != nil {
		cancel()
		return nil, err
	}

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.Tasks.Consume(subCtx, taskEvents)
	}()
	go func() {
		defer s.wg.Done()
		s.Notes.Consume(subCtx, noteEvents)
	}()
	return s, nil
}

// Load fetches both collections. A failed collection is left empty.
func (s *Scope) Load(ctx context.Context) error {
	var errs []error
	if err := s.Tasks.Load(ctx); err != nil {
		errs = append(errs, fmt.Errorf("load tasks: %w", err))
	}
	if err := s.Notes.Load(ctx); err != nil {
		errs = append(errs, fmt.Errorf("load notes: %w", err))
	}
	return errors.Join(errs...)
}

// Watch merges the notifications of both stores until ctx is done.
func (s *Scope) Watch(ctx context.Context) <-chan collection.Notification {
	tasks := s.Tasks.Watch(ctx)
	notes := s.Notes.Watch(ctx)
	out := make(chan collection.Notification, 32)

	go func() {
		defer close(out)
		for tasks != nil || notes != nil {
			var (
				n  collection.Notification
				ok bool
			)
			select {
			case n, ok = <-tasks:
				if !ok {
					tasks = nil
					continue
				}
			case n, ok = <-notes:
				if !ok {
					notes = nil
					continue
				}
			}
			select {
			case out <- n:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Close cancels the subscriptions, waits for the consumers and empties the
// stores. Later store operations fail with ErrAuthRequired.
func (s *Scope) Close() {
	s.once.Do(func() {
		s.cancel()
		s.wg.Wait()
		s.Tasks.Close()
		s.Notes.Close()
	})
}
