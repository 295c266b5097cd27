package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"dayboard/internal/changefeed"
	"dayboard/internal/domain/collection"
	"dayboard/internal/domain/record"
)

// NotifyChannel is the channel the change triggers notify on.
const NotifyChannel = "dayboard_changes"

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

type notification struct {
	Table   record.Kind           `json:"table"`
	Kind    collection.ChangeKind `json:"kind"`
	ID      string                `json:"id"`
	OwnerID string                `json:"owner_id"`
}

func parseNotification(payload string) (notification, error) {
	var n notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		return notification{}, fmt.Errorf("decode notification: %w", err)
	}
	if err := n.Table.Validate(); err != nil {
		return notification{}, err
	}
	if err := n.Kind.Validate(); err != nil {
		return notification{}, err
	}
	if n.ID == "" || n.OwnerID == "" {
		return notification{}, errors.New("notification without id or owner")
	}
	return n, nil
}

// Listener turns the database notifications into change feed messages.
// Notifications carry ids only, so inserted and updated rows are read back.
type Listener struct {
	s     *Storage
	tasks *TaskRepository
	notes *NoteRepository
	bus   changefeed.Publisher
	log   *slog.Logger
}

// NewListener relays table notifications from s to bus.
func NewListener(s *Storage, bus changefeed.Publisher, log *slog.Logger) *Listener {
	return &Listener{
		s:     s,
		tasks: NewTaskRepository(s, log),
		notes: NewNoteRepository(s, log),
		bus:   bus,
		log:   log.With("component", "postgres_listener"),
	}
}

// Run listens until ctx is done, reconnecting with exponential backoff.
// Changes committed while disconnected are not replayed.
func (l *Listener) Run(ctx context.Context) error {
	backoff := minBackoff
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		l.log.Warn("listener disconnected", "error", err, "retry_in", backoff)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+NotifyChannel); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	l.log.Info("listening for changes", "channel", NotifyChannel)

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.handle(ctx, n.Payload)
	}
}

func (l *Listener) handle(ctx context.Context, payload string) {
	n, err := parseNotification(payload)
	if err != nil {
		l.log.Warn("ignoring notification", "payload", payload, "error", err)
		return
	}

	msg, err := l.message(ctx, n)
	if errors.Is(err, collection.ErrNotFound) {
		// Deleted again before we could read it; the delete notification follows.
		return
	}
	if err != nil {
		l.log.Error("failed to read changed row", "table", n.Table, "id", n.ID, "error", err)
		return
	}
	if err := l.bus.Publish(ctx, msg); err != nil {
		l.log.Error("failed to publish change", "table", n.Table, "id", n.ID, "error", err)
	}
}

func (l *Listener) message(ctx context.Context, n notification) (changefeed.Message, error) {
	if n.Kind == collection.ChangeDelete {
		return changefeed.Message{Table: n.Table, Kind: n.Kind, ID: n.ID, OwnerID: n.OwnerID}, nil
	}

	switch n.Table {
	case record.KindTask:
		t, err := l.tasks.Get(ctx, n.OwnerID, n.ID)
		if err != nil {
			return changefeed.Message{}, err
		}
		return changefeed.NewMessage(n.Table, n.Kind, t)
	default:
		note, err := l.notes.Get(ctx, n.OwnerID, n.ID)
		if err != nil {
			return changefeed.Message{}, err
		}
		return changefeed.NewMessage(n.Table, n.Kind, note)
	}
}
