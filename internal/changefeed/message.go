// Package changefeed carries row-level change messages from the storage
// adapters to the subscribed collection stores.
package changefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"dayboard/internal/domain/collection"
	"dayboard/internal/domain/record"
)

// ErrClosed is returned by a bus after Close.
var ErrClosed = errors.New("change feed closed")

// Message is one committed row change as published on a bus.
type Message struct {
	Table   record.Kind           `json:"table"`
	Kind    collection.ChangeKind `json:"kind"`
	ID      string                `json:"id"`
	OwnerID string                `json:"owner_id"`
	Record  json.RawMessage       `json:"record,omitempty"`
}

// NewMessage encodes rec as the payload of a change of the given kind.
func NewMessage[R record.Entity[R]](table record.Kind, kind collection.ChangeKind, rec R) (Message, error) {
	msg := Message{Table: table, Kind: kind, ID: rec.Key(), OwnerID: rec.Owner()}
	if kind == collection.ChangeDelete {
		return msg, nil
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s record: %w", table, err)
	}
	msg.Record = payload
	return msg, nil
}

// Filter selects the messages a subscriber receives.
type Filter struct {
	Table record.Kind
	// OwnerID, when set, drops messages that name a different owner.
	OwnerID string
}

// Match reports whether m passes the filter. A message without an owner
// passes every owner filter.
func (f Filter) Match(m Message) bool {
	if f.Table != "" && m.Table != f.Table {
		return false
	}
	if f.OwnerID != "" && m.OwnerID != "" && m.OwnerID != f.OwnerID {
		return false
	}
	return true
}

// Publisher is the write side of a Bus.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// Bus fans messages out to subscribers. A subscription channel is closed
// once its context is done or the bus is closed.
type Bus interface {
	Publisher
	Subscribe(ctx context.Context, filter Filter) (<-chan Message, error)
	Close() error
}
