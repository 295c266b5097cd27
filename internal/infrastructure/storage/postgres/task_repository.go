package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"dayboard/internal/domain/collection"
	"dayboard/internal/domain/record"
)

const taskColumns = `id, owner_id, title, category, due_date, is_complete, created_at`

// TaskRepository stores tasks in PostgreSQL.
type TaskRepository struct {
	s   *Storage
	log *slog.Logger
}

// NewTaskRepository uses the connection of s.
func NewTaskRepository(s *Storage, log *slog.Logger) *TaskRepository {
	return &TaskRepository{s: s, log: log.With("component", "task_repository")}
}

func (r *TaskRepository) FetchAll(ctx context.Context, ownerID string) ([]record.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.s.pool.Query(ctx, query, ownerID)
	if err != nil {
		r.log.Error("failed to list tasks", "owner_id", ownerID, "error", err)
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
	if !validID(id) {
		return record.Task{}, collection.ErrNotFound
	}
	row := r.s.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	t, err := scanTask(row)
	if isNoRows(err) {
		return record.Task{}, collection.ErrNotFound
	}
	return t, err
}

func (r *TaskRepository) Insert(ctx context.Context, t record.Task) (record.Task, error) {
	const query = `INSERT INTO tasks (id, owner_id, title, category, due_date, is_complete)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	t.ID = uuid.NewString()
	err := r.s.pool.QueryRow(ctx, query,
		t.ID, t.OwnerID, t.Title, t.Category, dueValue(t.DueDate), t.IsComplete,
	).Scan(&t.CreatedAt)
	if err != nil {
		r.log.Error("failed to insert task", "owner_id", t.OwnerID, "error", err)
		return record.Task{}, fmt.Errorf("insert task: %w", err)
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

func (r *TaskRepository) UpdateByID(ctx context.Context, ownerID, id string, patch record.TaskPatch) error {
	if !validID(id) {
		return collection.ErrNotFound
	}
	var sets []string
	args := []any{id, ownerID}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		set("title", strings.TrimSpace(*patch.Title))
	}
	if patch.Category != nil {
		category := strings.TrimSpace(*patch.Category)
		if category == "" {
			category = record.DefaultCategory
		}
		set("category", category)
	}
	if patch.DueDate != nil || patch.ClearDue {
		set("due_date", dueValue(patch.DueDate))
	}
	if patch.IsComplete != nil {
		set("is_complete", *patch.IsComplete)
	}
	if len(sets) == 0 {
		return fmt.Errorf("%w: nothing to update", record.ErrInvalidData)
	}

	tag, err := r.s.pool.Exec(ctx,
		`UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = $1 AND owner_id = $2`, args...)
	if err != nil {
		r.log.Error("failed to update task", "id", id, "error", err)
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return collection.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) DeleteByID(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return nil
	}
	if _, err := r.s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID); err != nil {
		r.log.Error("failed to delete task", "id", id, "error", err)
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func scanTask(row pgx.Row) (record.Task, error) {
	var (
		t   record.Task
		due *time.Time
	)
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Category, &due, &t.IsComplete, &t.CreatedAt); err != nil {
		if isNoRows(err) {
			return record.Task{}, err
		}
		return record.Task{}, fmt.Errorf("scan task: %w", err)
	}
	if due != nil {
		d := record.Date{Year: due.Year(), Month: due.Month(), Day: due.Day()}
		t.DueDate = &d
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

func dueValue(d *record.Date) any {
	if d == nil {
		return nil
	}
	return d.In(time.UTC)
}
