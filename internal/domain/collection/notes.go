package collection

import (
	"golang.org/x/exp/slog"

	"dayboard/internal/domain/record"
)

// NoteRemote is the remote table behind a NoteStore.
type NoteRemote = Remote[record.Note, record.NotePatch]

// NoteStore holds the signed-in user's notes.
type NoteStore = Store[record.Note, record.NotePatch]

// NewNoteStore returns an empty note store for ownerID.
func NewNoteStore(remote NoteRemote, ownerID string, log *slog.Logger) *NoteStore {
	return NewStore[record.Note, record.NotePatch](record.KindNote, remote, ownerID, log)
}
