package collection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dayboard/internal/domain/record"
)

func TestTaskStore_Create(t *testing.T) {
	t.Run("Success_PrependsServerRecord", func(t *testing.T) {
		store := NewTaskStore(newFakeTaskRemote(), testOwner, discardLogger())

		created, err := store.Create(context.Background(), record.Task{Title: "Buy milk"})

		require.NoError(t, err)
		assert.Equal(t, "t1", created.ID)
		assert.Equal(t, testOwner, created.OwnerID)
		assert.Equal(t, record.DefaultCategory, created.Category)

		snap := store.Snapshot()
		require.Len(t, snap, 1)
		assert.Equal(t, "t1", snap[0].ID)
		assert.True(t, store.Pending("t1"))
	})

	t.Run("Success_NewestLocalCreateGoesFirst", func(t *testing.T) {
		store := NewTaskStore(newFakeTaskRemote(), testOwner, discardLogger())
		ctx := context.Background()

		_, err := store.Create(ctx, record.Task{Title: "first"})
		require.NoError(t, err)
		_, err = store.Create(ctx, record.Task{Title: "second"})
		require.NoError(t, err)

		assert.Equal(t, []string{"t2", "t1"}, ids(store.Snapshot()))
	})

	t.Run("Error_EmptyTitle", func(t *testing.T) {
		remote := new(MockTaskRemote)
		store := NewTaskStore(remote, testOwner, discardLogger())

		_, err := store.Create(context.Background(), record.Task{Title: "   "})

		assert.ErrorIs(t, err, record.ErrInvalidData)
		remote.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		assert.Zero(t, store.Len())
	})

	t.Run("Error_RemoteWrite", func(t *testing.T) {
		remote := new(MockTaskRemote)
		backendErr := errors.New("connection reset")
		remote.On("Insert", mock.Anything, mock.MatchedBy(func(t record.Task) bool {
			return t.OwnerID == testOwner && t.Title == "Buy milk"
		})).Return(record.Task{}, backendErr)
		store := NewTaskStore(remote, testOwner, discardLogger())

		_, err := store.Create(context.Background(), record.Task{Title: "Buy milk"})

		assert.ErrorIs(t, err, ErrRemoteWrite)
		assert.ErrorIs(t, err, backendErr)
		assert.Zero(t, store.Len())
		remote.AssertExpectations(t)
	})
}

func TestTaskStore_CreateEchoRace(t *testing.T) {
	t.Run("EchoAfterResponse", func(t *testing.T) {
		store := NewTaskStore(newFakeTaskRemote(), testOwner, discardLogger())

		created, err := store.Create(context.Background(), record.Task{Title: "Buy milk"})
		require.NoError(t, err)
		changed := store.ApplyChange(insertEvent(created))

		assert.False(t, changed)
		assert.Equal(t, []string{"t1"}, ids(store.Snapshot()))
		assert.False(t, store.Pending("t1"))
	})

	t.Run("EchoBeforeResponse", func(t *testing.T) {
		remote := newFakeTaskRemote()
		store := NewTaskStore(remote, testOwner, discardLogger())
		remote.onInsert = func(rec record.Task) {
			store.ApplyChange(insertEvent(rec))
		}

		_, err := store.Create(context.Background(), record.Task{Title: "Buy milk"})
		require.NoError(t, err)

		assert.Equal(t, []string{"t1"}, ids(store.Snapshot()))
		assert.False(t, store.Pending("t1"))
	})

	t.Run("DeleteBeforeResponse", func(t *testing.T) {
		remote := newFakeTaskRemote()
		store := NewTaskStore(remote, testOwner, discardLogger())
		remote.onInsert = func(rec record.Task) {
			store.ApplyChange(insertEvent(rec))
			store.ApplyChange(deleteEvent(rec.ID))
		}

		_, err := store.Create(context.Background(), record.Task{Title: "short lived"})
		require.NoError(t, err)

		assert.Zero(t, store.Len())
	})
}

func TestTaskStore_SetCompletion(t *testing.T) {
	remote := new(MockTaskRemote)
	remote.On("FetchAll", mock.Anything, testOwner).Return([]record.Task{task("t2", 2), task("t1", 1)}, nil)
	remote.On("UpdateByID", mock.Anything, testOwner, "t1", mock.MatchedBy(func(p record.TaskPatch) bool {
		return p.IsComplete != nil && *p.IsComplete && p.Title == nil
	})).Return(nil)
	store := NewTaskStore(remote, testOwner, discardLogger())
	ctx := context.Background()
	require.NoError(t, store.Load(ctx))

	updated, err := store.SetCompletion(ctx, "t1", true)

	require.NoError(t, err)
	assert.True(t, updated.IsComplete)
	snap := store.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "t1", snap[1].ID)
	assert.True(t, snap[1].IsComplete)
	remote.AssertExpectations(t)
}

func TestTaskStore_Update(t *testing.T) {
	t.Run("Success_PatchesInPlace", func(t *testing.T) {
		remote := newFakeTaskRemote()
		store := NewTaskStore(remote, testOwner, discardLogger())
		ctx := context.Background()
		_, err := store.Create(ctx, record.Task{Title: "a"})
		require.NoError(t, err)
		_, err = store.Create(ctx, record.Task{Title: "b"})
		require.NoError(t, err)

		title := "renamed"
		due := record.MustDate(2025, 3, 14)
		updated, err := store.Update(ctx, "t1", record.TaskPatch{Title: &title, DueDate: &due})

		require.NoError(t, err)
		assert.Equal(t, "renamed", updated.Title)
		assert.Equal(t, []string{"t2", "t1"}, ids(store.Snapshot()))
		got, ok := store.Get("t1")
		require.True(t, ok)
		assert.Equal(t, &due, got.DueDate)
	})

	t.Run("Error_UnknownID", func(t *testing.T) {
		remote := new(MockTaskRemote)
		store := NewTaskStore(remote, testOwner, discardLogger())
		done := true

		_, err := store.Update(context.Background(), "missing", record.TaskPatch{IsComplete: &done})

		assert.ErrorIs(t, err, ErrNotFound)
		remote.AssertNotCalled(t, "UpdateByID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_EmptyPatch", func(t *testing.T) {
		store := NewTaskStore(new(MockTaskRemote), testOwner, discardLogger())

		_, err := store.Update(context.Background(), "t1", record.TaskPatch{})

		assert.ErrorIs(t, err, record.ErrInvalidData)
	})

	t.Run("Error_RemoteWriteLeavesRecord", func(t *testing.T) {
		remote := new(MockTaskRemote)
		remote.On("FetchAll", mock.Anything, testOwner).Return([]record.Task{task("t1", 1)}, nil)
		remote.On("UpdateByID", mock.Anything, testOwner, "t1", mock.Anything).Return(errors.New("timeout"))
		store := NewTaskStore(remote, testOwner, discardLogger())
		ctx := context.Background()
		require.NoError(t, store.Load(ctx))

		_, err := store.SetCompletion(ctx, "t1", true)

		assert.ErrorIs(t, err, ErrRemoteWrite)
		got, _ := store.Get("t1")
		assert.False(t, got.IsComplete)
	})
}

func TestTaskStore_Delete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		remote := newFakeTaskRemote()
		store := NewTaskStore(remote, testOwner, discardLogger())
		ctx := context.Background()
		_, err := store.Create(ctx, record.Task{Title: "a"})
		require.NoError(t, err)

		var prompt string
		gate := ConfirmFunc(func(_ context.Context, p string) (bool, error) {
			prompt = p
			return true, nil
		})
		require.NoError(t, store.Delete(ctx, "t1", gate))

		assert.Equal(t, "Delete task?", prompt)
		assert.Zero(t, store.Len())
	})

	t.Run("Declined", func(t *testing.T) {
		remote := new(MockTaskRemote)
		store := NewTaskStore(remote, testOwner, discardLogger())

		err := store.Delete(context.Background(), "t1", Confirmed(false))

		assert.ErrorIs(t, err, ErrDeclined)
		remote.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AbsentIsIdempotent", func(t *testing.T) {
		remote := new(MockTaskRemote)
		remote.On("DeleteByID", mock.Anything, testOwner, "ghost").Return(nil).Twice()
		store := NewTaskStore(remote, testOwner, discardLogger())
		ctx := context.Background()

		require.NoError(t, store.Delete(ctx, "ghost", Confirmed(true)))
		require.NoError(t, store.Delete(ctx, "ghost", Confirmed(true)))

		assert.Zero(t, store.Len())
		remote.AssertExpectations(t)
	})

	t.Run("Error_RemoteWriteKeepsRecord", func(t *testing.T) {
		remote := new(MockTaskRemote)
		remote.On("FetchAll", mock.Anything, testOwner).Return([]record.Task{task("t1", 1)}, nil)
		remote.On("DeleteByID", mock.Anything, testOwner, "t1").Return(errors.New("forbidden"))
		store := NewTaskStore(remote, testOwner, discardLogger())
		ctx := context.Background()
		require.NoError(t, store.Load(ctx))

		err := store.Delete(ctx, "t1", Confirmed(true))

		assert.ErrorIs(t, err, ErrRemoteWrite)
		assert.Equal(t, 1, store.Len())
	})
}

func TestStore_Load(t *testing.T) {
	t.Run("OrdersNewestFirstAndDropsForeign", func(t *testing.T) {
		foreign := task("f1", 9)
		foreign.OwnerID = "someone-else"
		remote := new(MockTaskRemote)
		remote.On("FetchAll", mock.Anything, testOwner).
			Return([]record.Task{task("t1", 1), foreign, task("t3", 3), task("t2", 2), task("t3", 3)}, nil)
		store := NewTaskStore(remote, testOwner, discardLogger())

		require.NoError(t, store.Load(context.Background()))

		assert.Equal(t, []string{"t3", "t2", "t1"}, ids(store.Snapshot()))
	})

	t.Run("FailureEmptiesStoreAndSignals", func(t *testing.T) {
		remote := new(MockTaskRemote)
		backendErr := errors.New("503 service unavailable")
		remote.On("FetchAll", mock.Anything, testOwner).Return([]record.Task{task("t1", 1)}, nil).Once()
		remote.On("FetchAll", mock.Anything, testOwner).Return(nil, backendErr).Once()
		store := NewTaskStore(remote, testOwner, discardLogger())
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		require.NoError(t, store.Load(ctx))
		notes := store.Watch(ctx)

		err := store.Load(ctx)

		assert.ErrorIs(t, err, ErrRemoteFetch)
		assert.ErrorIs(t, err, backendErr)
		assert.Zero(t, store.Len())
		select {
		case n := <-notes:
			assert.Equal(t, LoadFailed, n.Kind)
			assert.Equal(t, record.KindTask, n.Collection)
			assert.ErrorIs(t, n.Err, backendErr)
		case <-time.After(time.Second):
			t.Fatal("no load-failed notification")
		}
	})
}

func TestStore_ApplyChange(t *testing.T) {
	newLoaded := func(t *testing.T, tasks ...record.Task) *TaskStore {
		t.Helper()
		remote := new(MockTaskRemote)
		remote.On("FetchAll", mock.Anything, testOwner).Return(tasks, nil)
		store := NewTaskStore(remote, testOwner, discardLogger())
		require.NoError(t, store.Load(context.Background()))
		return store
	}

	t.Run("InsertPrepends", func(t *testing.T) {
		store := newLoaded(t, task("t1", 1))

		assert.True(t, store.ApplyChange(insertEvent(task("t0", 0))))
		assert.Equal(t, []string{"t0", "t1"}, ids(store.Snapshot()))
	})

	t.Run("InsertForeignOwnerDropped", func(t *testing.T) {
		store := newLoaded(t)
		foreign := task("f1", 1)
		foreign.OwnerID = "intruder"

		assert.False(t, store.ApplyChange(insertEvent(foreign)))
		assert.Zero(t, store.Len())
	})

	t.Run("InsertDuplicateDropped", func(t *testing.T) {
		store := newLoaded(t, task("t1", 1))
		dup := task("t1", 1)
		dup.Title = "changed"

		assert.False(t, store.ApplyChange(insertEvent(dup)))
		got, _ := store.Get("t1")
		assert.Equal(t, "task t1", got.Title)
	})

	t.Run("UpdateKeepsPosition", func(t *testing.T) {
		store := newLoaded(t, task("t3", 3), task("t2", 2), task("t1", 1))
		changed := task("t2", 2)
		changed.Title = "edited elsewhere"
		changed.IsComplete = true

		assert.True(t, store.ApplyChange(updateEvent(changed)))
		snap := store.Snapshot()
		assert.Equal(t, []string{"t3", "t2", "t1"}, ids(snap))
		assert.Equal(t, "edited elsewhere", snap[1].Title)
		assert.True(t, snap[1].IsComplete)
	})

	t.Run("UpdateUnknownIgnored", func(t *testing.T) {
		store := newLoaded(t, task("t1", 1))

		assert.False(t, store.ApplyChange(updateEvent(task("t9", 9))))
		assert.Equal(t, []string{"t1"}, ids(store.Snapshot()))
	})

	t.Run("DeleteAbsentIsNoop", func(t *testing.T) {
		store := newLoaded(t)

		assert.False(t, store.ApplyChange(deleteEvent("t1")))
		assert.Zero(t, store.Len())
	})

	t.Run("DeleteTwiceSameAsOnce", func(t *testing.T) {
		store := newLoaded(t, task("t2", 2), task("t1", 1))

		assert.True(t, store.ApplyChange(deleteEvent("t1")))
		once := store.Snapshot()
		assert.False(t, store.ApplyChange(deleteEvent("t1")))

		assert.Equal(t, once, store.Snapshot())
	})

	t.Run("InsertAfterDeleteIgnored", func(t *testing.T) {
		store := newLoaded(t, task("t1", 1))

		store.ApplyChange(deleteEvent("t1"))

		assert.False(t, store.ApplyChange(insertEvent(task("t1", 1))))
		assert.Zero(t, store.Len())
	})
}

func TestStore_Consume(t *testing.T) {
	store := NewTaskStore(newFakeTaskRemote(), testOwner, discardLogger())
	events := make(chan ChangeEvent[record.Task], 3)
	events <- insertEvent(task("t1", 1))
	events <- insertEvent(task("t2", 2))
	events <- deleteEvent("t1")
	close(events)

	done := make(chan struct{})
	go func() {
		store.Consume(context.Background(), events)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Consume did not return after the channel closed")
	}
	assert.Equal(t, []string{"t2"}, ids(store.Snapshot()))
}

func TestStore_Close(t *testing.T) {
	remote := new(MockTaskRemote)
	store := NewTaskStore(remote, testOwner, discardLogger())
	store.ApplyChange(insertEvent(task("t1", 1)))

	store.Close()

	assert.Zero(t, store.Len())
	ctx := context.Background()
	assert.ErrorIs(t, store.Load(ctx), ErrAuthRequired)
	_, err := store.Create(ctx, record.Task{Title: "x"})
	assert.ErrorIs(t, err, ErrAuthRequired)
	_, err = store.SetCompletion(ctx, "t1", true)
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.ErrorIs(t, store.Delete(ctx, "t1", Confirmed(true)), ErrAuthRequired)
	assert.False(t, store.ApplyChange(insertEvent(task("t2", 2))))
	remote.AssertNotCalled(t, "FetchAll", mock.Anything, mock.Anything)
}

func TestStore_NoOwner(t *testing.T) {
	store := NewTaskStore(new(MockTaskRemote), "", discardLogger())

	assert.ErrorIs(t, store.Load(context.Background()), ErrAuthRequired)
}

func TestTaskStore_ArchiveCompleted(t *testing.T) {
	t.Run("DeletesCompletedOnly", func(t *testing.T) {
		done1, done2 := task("t1", 1), task("t3", 3)
		done1.IsComplete, done2.IsComplete = true, true
		remote := new(MockTaskRemote)
		remote.On("FetchAll", mock.Anything, testOwner).Return([]record.Task{done2, task("t2", 2), done1}, nil)
		remote.On("DeleteByID", mock.Anything, testOwner, "t3").Return(nil)
		remote.On("DeleteByID", mock.Anything, testOwner, "t1").Return(errors.New("boom"))
		store := NewTaskStore(remote, testOwner, discardLogger())
		ctx := context.Background()
		require.NoError(t, store.Load(ctx))

		n, err := store.ArchiveCompleted(ctx, Confirmed(true))

		assert.Equal(t, 1, n)
		assert.ErrorIs(t, err, ErrRemoteWrite)
		assert.Equal(t, []string{"t2", "t1"}, ids(store.Snapshot()))
	})

	t.Run("NothingToArchiveSkipsGate", func(t *testing.T) {
		store := NewTaskStore(new(MockTaskRemote), testOwner, discardLogger())
		asked := false
		gate := ConfirmFunc(func(context.Context, string) (bool, error) {
			asked = true
			return true, nil
		})

		n, err := store.ArchiveCompleted(context.Background(), gate)

		require.NoError(t, err)
		assert.Zero(t, n)
		assert.False(t, asked)
	})

	t.Run("Declined", func(t *testing.T) {
		done := task("t1", 1)
		done.IsComplete = true
		store := NewTaskStore(new(MockTaskRemote), testOwner, discardLogger())
		store.ApplyChange(insertEvent(done))

		n, err := store.ArchiveCompleted(context.Background(), Confirmed(false))

		assert.ErrorIs(t, err, ErrDeclined)
		assert.Zero(t, n)
		assert.Equal(t, 1, store.Len())
	})
}

func TestStore_Filter(t *testing.T) {
	store := NewTaskStore(newFakeTaskRemote(), testOwner, discardLogger())
	work := task("t1", 1)
	work.Category = "Work"
	groceries := task("t2", 2)
	groceries.Title = "Buy milk"
	store.ApplyChange(insertEvent(work))
	store.ApplyChange(insertEvent(groceries))

	assert.Equal(t, []string{"t1"}, ids(store.Filter("work")))
	assert.Equal(t, []string{"t2"}, ids(store.Filter("MILK")))
	assert.Len(t, store.Filter(""), 2)
}

func TestNoteStore(t *testing.T) {
	store := NewNoteStore(nil, testOwner, discardLogger())
	note := record.Note{ID: "n1", OwnerID: testOwner, Title: "Ideas", Content: "ship it"}

	require.True(t, store.ApplyChange(ChangeEvent[record.Note]{Kind: ChangeInsert, ID: "n1", Record: note}))

	assert.Equal(t, record.KindNote, store.Kind())
	assert.Len(t, store.Filter("ship"), 1)
}

func TestStore_Watch(t *testing.T) {
	store := NewTaskStore(newFakeTaskRemote(), testOwner, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	notes := store.Watch(ctx)

	store.ApplyChange(insertEvent(task("t1", 1)))
	store.ApplyChange(deleteEvent("t1"))

	first := <-notes
	second := <-notes
	assert.Equal(t, Inserted, first.Kind)
	assert.Equal(t, 1, first.Len)
	assert.Equal(t, Removed, second.Kind)
	assert.Equal(t, "t1", second.ID)

	cancel()
	select {
	case _, ok := <-notes:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("watch channel not closed")
	}
}
