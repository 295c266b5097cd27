package sessionstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"dayboard/internal/domain/session"
)

func TestStore(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
	require.NoError(t, store.Clear())

	sess := &session.Session{
		UserID:      "u1",
		Email:       "ada@example.com",
		AccessToken: "token",
		ExpiresAt:   time.Date(2025, 3, 13, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(sess))

	info, err := os.Stat(filepath.Join(dir, dirName, currentKey))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := New(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, loaded.UserID)
	assert.Equal(t, sess.AccessToken, loaded.AccessToken)
	assert.True(t, sess.ExpiresAt.Equal(loaded.ExpiresAt))

	require.NoError(t, store.Clear())
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStore_Corrupted(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, dirName), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, dirName, currentKey), []byte("{"), 0o600))

	_, err := New(dir).Load()
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
}

func TestStore_SharedBetweenProcesses(t *testing.T) {
	dir := t.TempDir()
	mine, theirs := New(dir), New(dir)

	ctx, cancel := context.WithCancel(context.Background())
	changed, err := mine.Watch(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	waitChange := func() {
		t.Helper()
		select {
		case <-changed:
		case <-time.After(2 * time.Second):
			t.Fatal("session change was not noticed")
		}
	}

	require.NoError(t, mine.Save(&session.Session{UserID: "u1", AccessToken: "first"}))
	waitChange()

	require.NoError(t, theirs.Save(&session.Session{UserID: "u2", AccessToken: "second"}))
	waitChange()
	require.Eventually(t, func() bool {
		sess, err := mine.Load()
		return err == nil && sess.AccessToken == "second"
	}, 2*time.Second, 10*time.Millisecond, "a save from another store must not be hidden by a cache")

	require.NoError(t, theirs.Clear())
	waitChange()
	require.Eventually(t, func() bool {
		_, err := mine.Load()
		return errors.Is(err, ErrNoSession)
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, open := <-changed:
			return !open
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}
