package backend

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"

	"dayboard/internal/changefeed"
	"dayboard/internal/domain/collection"
	"dayboard/internal/domain/record"
)

// Table is one relational table of the backend together with its change stream.
type Table[R record.Entity[R], P record.Patch[R]] struct {
	collection.Remote[R, P]
	kind record.Kind
	bus  changefeed.Bus
	log  *slog.Logger
}

type (
	TaskTable = Table[record.Task, record.TaskPatch]
	NoteTable = Table[record.Note, record.NotePatch]
)

// NewTable publishes every successful write of remote on bus.
func NewTable[R record.Entity[R], P record.Patch[R]](kind record.Kind, remote collection.Remote[R, P], bus changefeed.Bus, log *slog.Logger) *Table[R, P] {
	return &Table[R, P]{
		Remote: remote,
		kind:   kind,
		bus:    bus,
		log:    log.With("component", "backend_table", "table", kind.String()),
	}
}

// Kind is the collection the table stores.
func (t *Table[R, P]) Kind() record.Kind {
	return t.kind
}

// Subscribe streams the committed changes of this table that pass filter.
// The channel is closed when ctx is done.
func (t *Table[R, P]) Subscribe(ctx context.Context, filter changefeed.Filter) (<-chan collection.ChangeEvent[R], error) {
	filter.Table = t.kind
	msgs, err := t.bus.Subscribe(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", t.kind, err)
	}
	return changefeed.Decode[R](ctx, msgs, t.log), nil
}
