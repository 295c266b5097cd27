package collection

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"

	"dayboard/internal/domain/record"
)

const testOwner = "user-1"

var baseTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockTaskRemote is a testify mock of TaskRemote.
type MockTaskRemote struct {
	mock.Mock
}

func (m *MockTaskRemote) FetchAll(ctx context.Context, ownerID string) ([]record.Task, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]record.Task), args.Error(1)
}

func (m *MockTaskRemote) Insert(ctx context.Context, rec record.Task) (record.Task, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(record.Task), args.Error(1)
}

func (m *MockTaskRemote) UpdateByID(ctx context.Context, ownerID, id string, patch record.TaskPatch) error {
	args := m.Called(ctx, ownerID, id, patch)
	return args.Error(0)
}

func (m *MockTaskRemote) DeleteByID(ctx context.Context, ownerID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// fakeTaskRemote is an in-memory backend table that assigns ids t1, t2, ...
type fakeTaskRemote struct {
	mu   sync.Mutex
	seq  int
	rows map[string]record.Task

	// onInsert runs after a row is stored and before Insert returns.
	onInsert func(record.Task)
}

func newFakeTaskRemote() *fakeTaskRemote {
	return &fakeTaskRemote{rows: make(map[string]record.Task)}
}

func (f *fakeTaskRemote) FetchAll(_ context.Context, ownerID string) ([]record.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []record.Task
	for _, t := range f.rows {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b record.Task) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (f *fakeTaskRemote) Insert(_ context.Context, rec record.Task) (record.Task, error) {
	f.mu.Lock()
	f.seq++
	rec.ID = fmt.Sprintf("t%d", f.seq)
	rec.CreatedAt = baseTime.Add(time.Duration(f.seq) * time.Minute)
	f.rows[rec.ID] = rec
	hook := f.onInsert
	f.mu.Unlock()

	if hook != nil {
		hook(rec)
	}
	return rec, nil
}

func (f *fakeTaskRemote) UpdateByID(_ context.Context, ownerID, id string, patch record.TaskPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t, ok := f.rows[id]; ok && t.OwnerID == ownerID {
		f.rows[id] = patch.Apply(t)
	}
	return nil
}

func (f *fakeTaskRemote) DeleteByID(_ context.Context, ownerID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t, ok := f.rows[id]; ok && t.OwnerID == ownerID {
		delete(f.rows, id)
	}
	return nil
}

func task(id string, minutes int) record.Task {
	return record.Task{
		ID:        id,
		OwnerID:   testOwner,
		Title:     "task " + id,
		Category:  record.DefaultCategory,
		CreatedAt: baseTime.Add(time.Duration(minutes) * time.Minute),
	}
}

func insertEvent(t record.Task) ChangeEvent[record.Task] {
	return ChangeEvent[record.Task]{Kind: ChangeInsert, ID: t.ID, Record: t}
}

func updateEvent(t record.Task) ChangeEvent[record.Task] {
	return ChangeEvent[record.Task]{Kind: ChangeUpdate, ID: t.ID, Record: t}
}

func deleteEvent(id string) ChangeEvent[record.Task] {
	return ChangeEvent[record.Task]{Kind: ChangeDelete, ID: id}
}

func ids(tasks []record.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
