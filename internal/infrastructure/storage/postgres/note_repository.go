package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"dayboard/internal/domain/collection"
	"dayboard/internal/domain/record"
)

const noteColumns = `id, owner_id, title, content, created_at`

// NoteRepository stores notes in PostgreSQL.
type NoteRepository struct {
	s   *Storage
	log *slog.Logger
}

// NewNoteRepository uses the connection of s.
func NewNoteRepository(s *Storage, log *slog.Logger) *NoteRepository {
	return &NoteRepository{s: s, log: log.With("component", "note_repository")}
}

func (r *NoteRepository) FetchAll(ctx context.Context, ownerID string) ([]record.Note, error) {
	const query = `SELECT ` + noteColumns + ` FROM notes
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.s.pool.Query(ctx, query, ownerID)
	if err != nil {
		r.log.Error("failed to list notes", "owner_id", ownerID, "error", err)
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
	if !validID(id) {
		return record.Note{}, collection.ErrNotFound
	}
	row := r.s.pool.QueryRow(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = $1 AND owner_id = $2`, id, ownerID)
	n, err := scanNote(row)
	if isNoRows(err) {
		return record.Note{}, collection.ErrNotFound
	}
	return n, err
}

func (r *NoteRepository) Insert(ctx context.Context, n record.Note) (record.Note, error) {
	n.ID = uuid.NewString()
	err := r.s.pool.QueryRow(ctx,
		`INSERT INTO notes (id, owner_id, title, content) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		n.ID, n.OwnerID, n.Title, n.Content,
	).Scan(&n.CreatedAt)
	if err != nil {
		r.log.Error("failed to insert note", "owner_id", n.OwnerID, "error", err)
		return record.Note{}, fmt.Errorf("insert note: %w", err)
	}
	n.CreatedAt = n.CreatedAt.UTC()
	return n, nil
}

func (r *NoteRepository) UpdateByID(ctx context.Context, ownerID, id string, patch record.NotePatch) error {
	if !validID(id) {
		return collection.ErrNotFound
	}
	var sets []string
	args := []any{id, ownerID}
	if patch.Title != nil {
		args = append(args, strings.TrimSpace(*patch.Title))
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if patch.Content != nil {
		args = append(args, *patch.Content)
		sets = append(sets, fmt.Sprintf("content = $%d", len(args)))
	}
	if len(sets) == 0 {
		return fmt.Errorf("%w: nothing to update", record.ErrInvalidData)
	}

	tag, err := r.s.pool.Exec(ctx,
		`UPDATE notes SET `+strings.Join(sets, ", ")+` WHERE id = $1 AND owner_id = $2`, args...)
	if err != nil {
		r.log.Error("failed to update note", "id", id, "error", err)
		return fmt.Errorf("update note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return collection.ErrNotFound
	}
	return nil
}

func (r *NoteRepository) DeleteByID(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return nil
	}
	if _, err := r.s.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND owner_id = $2`, id, ownerID); err != nil {
		r.log.Error("failed to delete note", "id", id, "error", err)
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

func scanNote(row pgx.Row) (record.Note, error) {
	var n record.Note
	if err := row.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &n.CreatedAt); err != nil {
		if isNoRows(err) {
			return record.Note{}, err
		}
		return record.Note{}, fmt.Errorf("scan note: %w", err)
	}
	n.CreatedAt = n.CreatedAt.UTC()
	return n, nil
}
