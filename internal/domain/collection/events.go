package collection

import (
	"fmt"

	"dayboard/internal/domain/record"
)

// ChangeKind is the type of a remote change.
type ChangeKind string

const (
	ChangeInsert ChangeKind = "insert"
	ChangeUpdate ChangeKind = "update"
	ChangeDelete ChangeKind = "delete"
)

// Validate rejects kinds other than insert, update and delete.
func (k ChangeKind) Validate() error {
	switch k {
	case ChangeInsert, ChangeUpdate, ChangeDelete:
		return nil
	}
	return fmt.Errorf("unknown change kind %q", string(k))
}

// ChangeEvent is one entry of the remote change stream. Record is set for
// inserts and updates; ID is always set.
type ChangeEvent[R any] struct {
	Kind   ChangeKind
	ID     string
	Record R
}

// NotificationKind says how the store contents changed.
type NotificationKind int

const (
	Loaded NotificationKind = iota
	LoadFailed
	Inserted
	Updated
	Removed
	Cleared
)

func (k NotificationKind) String() string {
	switch k {
	case Loaded:
		return "loaded"
	case LoadFailed:
		return "load-failed"
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	case Removed:
		return "removed"
	case Cleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Notification is emitted to watchers after every change of the store contents.
// Consumers re-read the snapshot; the notification only says what happened.
type Notification struct {
	Kind       NotificationKind
	Collection record.Kind
	ID         string
	Len        int
	Err        error
}
