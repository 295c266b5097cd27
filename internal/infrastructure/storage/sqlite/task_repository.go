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

const taskColumns = `id, owner_id, title, category, due_date, is_complete, created_at`

// TaskRepository stores tasks in SQLite.
type TaskRepository struct {
	s *Storage
}

// NewTaskRepository uses the connection of s.
func NewTaskRepository(s *Storage) *TaskRepository {
	return &TaskRepository{s: s}
}

func (r *TaskRepository) FetchAll(ctx context.Context, ownerID string) ([]record.Task, error) {
	rows, err := r.s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE owner_id = ? ORDER BY created_at DESC, rowid DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []record.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Get(ctx context.Context, ownerID, id string) (record.Task, error) {
	row := r.s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND owner_id = ?`, id, ownerID)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return record.Task{}, collection.ErrNotFound
	}
	return t, err
}

func (r *TaskRepository) Insert(ctx context.Context, t record.Task) (record.Task, error) {
	t.ID = uuid.NewString()
	t.CreatedAt = r.s.clock.Now()

	_, err := r.s.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.Title, t.Category, dueValue(t.DueDate), t.IsComplete, storage.FormatTime(t.CreatedAt))
	if err != nil {
		return record.Task{}, fmt.Errorf("insert task: %w", err)
	}

	msg, merr := changefeed.NewMessage(record.KindTask, collection.ChangeInsert, t)
	r.s.publish(ctx, msg, merr)
	return t, nil
}

func (r *TaskRepository) UpdateByID(ctx context.Context, ownerID, id string, patch record.TaskPatch) error {
	var sets []string
	var args []any
	if patch.Title != nil {
		sets, args = append(sets, "title = ?"), append(args, strings.TrimSpace(*patch.Title))
	}
	if patch.Category != nil {
		category := strings.TrimSpace(*patch.Category)
		if category == "" {
			category = record.DefaultCategory
		}
		sets, args = append(sets, "category = ?"), append(args, category)
	}
	if patch.DueDate != nil || patch.ClearDue {
		sets, args = append(sets, "due_date = ?"), append(args, dueValue(patch.DueDate))
	}
	if patch.IsComplete != nil {
		sets, args = append(sets, "is_complete = ?"), append(args, *patch.IsComplete)
	}
	if len(sets) == 0 {
		return fmt.Errorf("%w: nothing to update", record.ErrInvalidData)
	}

	args = append(args, id, ownerID)
	res, err := r.s.db.ExecContext(ctx,
		`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ? AND owner_id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return collection.ErrNotFound
	}

	updated, err := r.Get(ctx, ownerID, id)
	if err != nil {
		r.s.log.Warn("updated task vanished before publish", "id", id, "error", err)
		return nil
	}
	msg, merr := changefeed.NewMessage(record.KindTask, collection.ChangeUpdate, updated)
	r.s.publish(ctx, msg, merr)
	return nil
}

// DeleteByID succeeds for rows that do not exist.
func (r *TaskRepository) DeleteByID(ctx context.Context, ownerID, id string) error {
	res, err := r.s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		r.s.publish(ctx, changefeed.Message{
			Table: record.KindTask, Kind: collection.ChangeDelete, ID: id, OwnerID: ownerID,
		}, nil)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (record.Task, error) {
	var (
		t         record.Task
		due       sql.NullString
		createdAt string
	)
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Category, &due, &t.IsComplete, &createdAt); err != nil {
		return record.Task{}, fmt.Errorf("scan task: %w", err)
	}
	if due.Valid {
		d, err := record.ParseDate(due.String)
		if err != nil {
			return record.Task{}, fmt.Errorf("scan task %s: %w", t.ID, err)
		}
		t.DueDate = &d
	}
	created, err := storage.ParseTime(createdAt)
	if err != nil {
		return record.Task{}, fmt.Errorf("scan task %s: %w", t.ID, err)
	}
	t.CreatedAt = created
	return t, nil
}

func dueValue(d *record.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}
