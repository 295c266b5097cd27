package backend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dayboard/internal/domain/session"
	"dayboard/internal/domain/user"
	"dayboard/internal/infrastructure/sessionstore"
)

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) SignUp(ctx context.Context, email, password string) (user.User, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUsers) Authenticate(ctx context.Context, email, password string) (user.User, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUsers) Get(ctx context.Context, id string) (user.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(user.User), args.Error(1)
}

type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) Create(ctx context.Context, u user.User) (*session.Session, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessions) Validate(ctx context.Context, token string) (*session.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessions) Revoke(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

type memoryStore struct {
	mu   sync.Mutex
	sess *session.Session
}

func (s *memoryStore) Save(sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess
	return nil
}

func (s *memoryStore) Load() (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return nil, sessionstore.ErrNoSession
	}
	return s.sess, nil
}

func (s *memoryStore) Clear() error {
	return s.Save(nil)
}

func (s *memoryStore) stored() *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess
}

var ada = user.User{ID: "u1", Email: "ada@example.com"}

func adaSession(token string) *session.Session {
	return &session.Session{UserID: ada.ID, Email: ada.Email, AccessToken: token, ExpiresAt: time.Now().Add(time.Hour)}
}

func TestAuth_SignIn(t *testing.T) {
	ctx := context.Background()
	users := new(MockUsers)
	sessions := new(MockSessions)
	store := &memoryStore{}
	auth := NewAuth(users, sessions, store, discardLogger())

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	changes := auth.OnSessionChange(watchCtx)

	users.On("Authenticate", ctx, "ada@example.com", "secret1").Return(ada, nil)
	sessions.On("Create", ctx, ada).Return(adaSession("tok"), nil)

	sess, err := auth.SignIn(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok", store.stored().AccessToken)

	change := <-changes
	assert.Equal(t, session.SignedIn, change.Event)
	assert.Same(t, sess, change.Session)

	current, err := auth.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Same(t, sess, current)
	sessions.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)

	t.Run("Authorize", func(t *testing.T) {
		sessions.On("Validate", ctx, "tok").Return(sess, nil).Once()

		got, err := auth.Authorize(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, ada.ID, got.UserID)

		_, err = auth.Authorize(ctx, "other")
		assert.ErrorIs(t, err, session.ErrInvalidToken)
	})

	t.Run("SignOut", func(t *testing.T) {
		sessions.On("Revoke", ctx, "tok").Return(nil).Once()

		require.NoError(t, auth.SignOut(ctx))
		assert.Nil(t, store.stored())
		assert.Equal(t, session.SignedOut, (<-changes).Event)

		current, err := auth.CurrentSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, current)

		require.NoError(t, auth.SignOut(ctx), "signing out twice is a no-op")
	})
}

func TestAuth_SignInFailures(t *testing.T) {
	ctx := context.Background()
	users := new(MockUsers)
	sessions := new(MockSessions)
	store := &memoryStore{}
	auth := NewAuth(users, sessions, store, discardLogger())

	users.On("Authenticate", ctx, "nobody@example.com", "secret1").Return(user.User{}, user.ErrNotFound)
	users.On("Authenticate", ctx, "ada@example.com", "wrong").Return(user.User{}, user.ErrInvalidAuth)

	_, err := auth.SignIn(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, user.ErrNotFound)
	_, err = auth.SignIn(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, user.ErrInvalidAuth)
	assert.Nil(t, store.stored())
	sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuth_SignUpReplacesPreviousSession(t *testing.T) {
	ctx := context.Background()
	users := new(MockUsers)
	sessions := new(MockSessions)
	auth := NewAuth(users, sessions, &memoryStore{sess: adaSession("old")}, discardLogger())

	sessions.On("Validate", ctx, "old").Return(adaSession("old"), nil)
	_, err := auth.CurrentSession(ctx)
	require.NoError(t, err)

	grace := user.User{ID: "u2", Email: "grace@example.com"}
	users.On("SignUp", ctx, "grace@example.com", "secret1").Return(grace, nil)
	sessions.On("Create", ctx, grace).Return(&session.Session{UserID: "u2", AccessToken: "new"}, nil)
	sessions.On("Revoke", ctx, "old").Return(nil)

	sess, err := auth.SignUp(ctx, "grace@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u2", sess.UserID)
	sessions.AssertCalled(t, "Revoke", ctx, "old")
}

func TestAuth_CurrentSession(t *testing.T) {
	ctx := context.Background()

	t.Run("NoStoredSession", func(t *testing.T) {
		auth := NewAuth(new(MockUsers), new(MockSessions), &memoryStore{}, discardLogger())
		sess, err := auth.CurrentSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, sess)
	})

	t.Run("StaleTokenIsForgotten", func(t *testing.T) {
		sessions := new(MockSessions)
		store := &memoryStore{sess: adaSession("stale")}
		auth := NewAuth(new(MockUsers), sessions, store, discardLogger())
		sessions.On("Validate", ctx, "stale").Return(nil, session.ErrExpired)

		sess, err := auth.CurrentSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, sess)
		assert.Nil(t, store.stored())
	})

	t.Run("BackendFailure", func(t *testing.T) {
		sessions := new(MockSessions)
		auth := NewAuth(new(MockUsers), sessions, &memoryStore{sess: adaSession("tok")}, discardLogger())
		boom := errors.New("connection refused")
		sessions.On("Validate", ctx, "tok").Return(nil, boom)

		_, err := auth.CurrentSession(ctx)
		assert.ErrorIs(t, err, boom)
	})
}

func TestAuth_Reload(t *testing.T) {
	ctx := context.Background()
	sessions := new(MockSessions)
	store := &memoryStore{sess: adaSession("tok")}
	auth := NewAuth(new(MockUsers), sessions, store, discardLogger())

	sessions.On("Validate", ctx, "tok").Return(adaSession("tok"), nil)
	sessions.On("Validate", ctx, "elsewhere").Return(adaSession("elsewhere"), nil)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	changes := auth.OnSessionChange(watchCtx)

	current, err := auth.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", current.AccessToken)

	t.Run("SameTokenIsQuiet", func(t *testing.T) {
		require.NoError(t, auth.Reload(ctx))
		assert.Empty(t, changes)
	})

	t.Run("SignedInElsewhere", func(t *testing.T) {
		require.NoError(t, store.Save(adaSession("elsewhere")))
		require.NoError(t, auth.Reload(ctx))

		change := <-changes
		assert.Equal(t, session.SignedIn, change.Event)
		assert.Equal(t, "elsewhere", change.Session.AccessToken)

		current, err := auth.CurrentSession(ctx)
		require.NoError(t, err)
		assert.Equal(t, "elsewhere", current.AccessToken)
	})

	t.Run("BackendFailureKeepsSession", func(t *testing.T) {
		boom := errors.New("connection refused")
		sessions.On("Validate", ctx, "flaky").Return(nil, boom).Once()
		require.NoError(t, store.Save(adaSession("flaky")))

		assert.ErrorIs(t, auth.Reload(ctx), boom)
		current, err := auth.CurrentSession(ctx)
		require.NoError(t, err)
		assert.Equal(t, "elsewhere", current.AccessToken)
		assert.Empty(t, changes)
	})

	t.Run("SignedOutElsewhere", func(t *testing.T) {
		require.NoError(t, store.Clear())
		require.NoError(t, auth.Reload(ctx))

		assert.Equal(t, session.SignedOut, (<-changes).Event)
		current, err := auth.CurrentSession(ctx)
		require.NoError(t, err)
		assert.Nil(t, current)

		require.NoError(t, auth.Reload(ctx))
		assert.Empty(t, changes)
	})
}

func TestAuth_FollowsStoreWhileListening(t *testing.T) {
	ctx := context.Background()
	sessions := new(MockSessions)
	store := &memoryStore{}
	auth := NewAuth(new(MockUsers), sessions, store, discardLogger()).WithRefresh(10 * time.Millisecond)
	sessions.On("Validate", mock.Anything, "elsewhere").Return(adaSession("elsewhere"), nil)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	changes := auth.OnSessionChange(watchCtx)

	require.NoError(t, store.Save(adaSession("elsewhere")))

	select {
	case change := <-changes:
		assert.Equal(t, session.SignedIn, change.Event)
		assert.Equal(t, "elsewhere", change.Session.AccessToken)
	case <-time.After(2 * time.Second):
		t.Fatal("a session saved by another process was not noticed")
	}

	require.NoError(t, store.Clear())
	select {
	case change := <-changes:
		assert.Equal(t, session.SignedOut, change.Event)
	case <-time.After(2 * time.Second):
		t.Fatal("a sign-out by another process was not noticed")
	}
}
