package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"dayboard/internal/changefeed"
	"dayboard/internal/domain/collection"
	"dayboard/internal/domain/record"
	"dayboard/internal/infrastructure/storage"
)

const noteColumns = `id, owner_id, title, content, created_at`

// NoteRepository stores notes in SQLite.
type NoteRepository struct {
	s *Storage
}

// NewNoteRepository uses the connection of s.
func NewNoteRepository(s *Storage) *NoteRepository {
	return &NoteRepository{s: s}
}

func (r *NoteRepository) FetchAll(ctx context.Context, ownerID string) ([]record.Note, error) {
	rows, err := r.s.db.QueryContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE owner_id = ? ORDER BY created_at DESC, rowid DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []record.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) Get(ctx context.Context, ownerID, id string) (record.Note, error) {
	row := r.s.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ? AND owner_id = ?`, id, ownerID)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Note{}, collection.ErrNotFound
	}
	return n, err
}

func (r *NoteRepository) Insert(ctx context.Context, n record.Note) (record.Note, error) {
	n.ID = uuid.NewString()
	n.CreatedAt = r.s.clock.Now()

	_, err := r.s.db.ExecContext(ctx,
		`INSERT INTO notes (`+noteColumns+`) VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.OwnerID, n.Title, n.Content, storage.FormatTime(n.CreatedAt))
	if err != nil {
		return record.Note{}, fmt.Errorf("insert note: %w", err)
	}

	msg, merr := changefeed.NewMessage(record.KindNote, collection.ChangeInsert, n)
	r.s.publish(ctx, msg, merr)
	return n, nil
}

func (r *NoteRepository) UpdateByID(ctx context.Context, ownerID, id string, patch record.NotePatch) error {
	var sets []string
	var args []any
	if patch.Title != nil {
		sets, args = append(sets, "title = ?"), append(args, strings.TrimSpace(*patch.Title))
	}
	if patch.Content != nil {
		sets, args = append(sets, "content = ?"), append(args, *patch.Content)
	}
	if len(sets) == 0 {
		return fmt.Errorf("%w: nothing to update", record.ErrInvalidData)
	}

	args = append(args, id, ownerID)
	res, err := r.s.db.ExecContext(ctx,
		`UPDATE notes SET `+strings.Join(sets, ", ")+` WHERE id = ? AND owner_id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return collection.ErrNotFound
	}

	updated, err := r.Get(ctx, ownerID, id)
	if err != nil {
		r.s.log.Warn("updated note vanished before publish", "id", id, "error", err)
		return nil
	}
	msg, merr := changefeed.NewMessage(record.KindNote, collection.ChangeUpdate, updated)
	r.s.publish(ctx, msg, merr)
	return nil
}

func (r *NoteRepository) DeleteByID(ctx context.Context, ownerID, id string) error {
	res, err := r.s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		r.s.publish(ctx, changefeed.Message{
			Table: record.KindNote, Kind: collection.ChangeDelete, ID: id, OwnerID: ownerID,
		}, nil)
	}
	return nil
}

func scanNote(row scanner) (record.Note, error) {
	var (
		n         record.Note
		createdAt string
	)
	if err := row.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &createdAt); err != nil {
		return record.Note{}, fmt.Errorf("scan note: %w", err)
	}
	created, err := storage.ParseTime(createdAt)
	if err != nil {
		return record.Note{}, fmt.Errorf("scan note %s: %w", n.ID, err)
	}
	n.CreatedAt = created
	return n, nil
}
