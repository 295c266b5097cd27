package backend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"dayboard/internal/domain/session"
	"dayboard/internal/domain/user"
	"dayboard/internal/infrastructure/sessionstore"
)

// SessionStore keeps the access token between processes.
type SessionStore interface {
	Save(sess *session.Session) error
	Load() (*session.Session, error)
	Clear() error
}

// DefaultRefresh is how often a listening Auth re-reads the stored session.
// A store that can be watched is also re-read on every change.
const DefaultRefresh = 30 * time.Second

// Auth signs users in and out and tracks the current session. Other processes
// sharing the store may change the session; listeners registered with
// OnSessionChange see those changes too.
type Auth struct {
	users    user.Servicer
	sessions session.Servicer
	store    SessionStore
	log      *slog.Logger
	interval time.Duration

	mu      sync.Mutex
	current *session.Session
	loaded  bool

	listenMu  sync.Mutex
	listeners map[int]chan session.Change
	nextID    int
}

type storeWatcher interface {
	Watch(ctx context.Context, log *slog.Logger) (<-chan struct{}, error)
}

// NewAuth keeps the session in store and reloads it every DefaultRefresh
// while someone listens.
func NewAuth(users user.Servicer, sessions session.Servicer, store SessionStore, log *slog.Logger) *Auth {
	return &Auth{
		users:     users,
		sessions:  sessions,
		store:     store,
		log:       log.With("component", "auth"),
		interval:  DefaultRefresh,
		listeners: make(map[int]chan session.Change),
	}
}

// WithRefresh sets the polling interval used next to the store watcher.
func (a *Auth) WithRefresh(d time.Duration) *Auth {
	if d > 0 {
		a.interval = d
	}
	return a
}

// CurrentSession returns the active session or nil when signed out. A stored
// token that no longer validates is forgotten.
func (a *Auth) CurrentSession(ctx context.Context) (*session.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentLocked(ctx)
}

func (a *Auth) currentLocked(ctx context.Context) (*session.Session, error) {
	if a.loaded {
		return a.current, nil
	}
	sess, err := a.loadLocked(ctx)
	if err != nil {
		return nil, err
	}
	a.current = sess
	a.loaded = true
	return sess, nil
}

func (a *Auth) loadLocked(ctx context.Context) (*session.Session, error) {
	stored, err := a.store.Load()
	if errors.Is(err, sessionstore.ErrNoSession) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	sess, err := a.sessions.Validate(ctx, stored.AccessToken)
	if errors.Is(err, session.ErrInvalidToken) || errors.Is(err, session.ErrExpired) {
		a.log.Info("stored session is no longer valid", "user_id", stored.UserID, "error", err)
		if err := a.store.Clear(); err != nil {
			a.log.Warn("failed to clear stale session", "error", err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// SignIn returns user.ErrNotFound for an unknown email and
// user.ErrInvalidAuth for a wrong password.
func (a *Auth) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	u, err := a.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return a.start(ctx, u)
}

// SignUp creates the user and signs them in.
func (a *Auth) SignUp(ctx context.Context, email, password string) (*session.Session, error) {
	u, err := a.users.SignUp(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return a.start(ctx, u)
}

func (a *Auth) start(ctx context.Context, u user.User) (*session.Session, error) {
	sess, err := a.sessions.Create(ctx, u)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	previous, err := a.currentLocked(ctx)
	if err != nil {
		a.log.Warn("previous session is unknown", "error", err)
		previous = nil
	}
	if err := a.store.Save(sess); err != nil {
		a.mu.Unlock()
		a.revoke(ctx, sess)
		return nil, fmt.Errorf("persist session: %w", err)
	}
	a.current = sess
	a.loaded = true
	a.mu.Unlock()

	if previous != nil {
		a.revoke(ctx, previous)
	}

	a.log.Info("signed in", "user_id", u.ID)
	a.broadcast(session.Change{Event: session.SignedIn, Session: sess})
	return sess, nil
}

// SignOut ends the current session. Signing out while signed out is a no-op.
func (a *Auth) SignOut(ctx context.Context) error {
	a.mu.Lock()
	sess, err := a.currentLocked(ctx)
	if err != nil {
		a.mu.Unlock()
		return err
	}
	if sess == nil {
		a.mu.Unlock()
		return nil
	}
	if err := a.store.Clear(); err != nil {
		a.mu.Unlock()
		return fmt.Errorf("clear session: %w", err)
	}
	a.current = nil
	a.mu.Unlock()

	a.revoke(ctx, sess)
	a.log.Info("signed out", "user_id", sess.UserID)
	a.broadcast(session.Change{Event: session.SignedOut})
	return nil
}

// Reload re-reads the stored session and notifies listeners when another
// process signed in, signed out or the token stopped validating. A failed
// read keeps the session this process already knows.
func (a *Auth) Reload(ctx context.Context) error {
	a.mu.Lock()
	sess, err := a.loadLocked(ctx)
	if err != nil {
		a.mu.Unlock()
		return err
	}
	previous := a.current
	wasLoaded := a.loaded
	if sameToken(previous, sess) && wasLoaded {
		a.mu.Unlock()
		return nil
	}
	a.current = sess
	a.loaded = true
	a.mu.Unlock()

	switch {
	case sess != nil:
		a.log.Info("session changed elsewhere", "user_id", sess.UserID)
		a.broadcast(session.Change{Event: session.SignedIn, Session: sess})
	case previous != nil:
		a.log.Info("signed out elsewhere", "user_id", previous.UserID)
		a.broadcast(session.Change{Event: session.SignedOut})
	}
	return nil
}

func sameToken(a, b *session.Session) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.AccessToken == b.AccessToken
}

// Authorize reports whether token is the access token of the current session.
func (a *Auth) Authorize(ctx context.Context, token string) (*session.Session, error) {
	sess, err := a.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil || token == "" || token != sess.AccessToken {
		return nil, session.ErrInvalidToken
	}
	return a.sessions.Validate(ctx, token)
}

func (a *Auth) revoke(ctx context.Context, sess *session.Session) {
	if err := a.sessions.Revoke(ctx, sess.AccessToken); err != nil {
		a.log.Warn("failed to revoke session", "user_id", sess.UserID, "error", err)
	}
}

// OnSessionChange streams sign-in and sign-out events until ctx is done,
// including those made by other processes sharing the session store.
func (a *Auth) OnSessionChange(ctx context.Context) <-chan session.Change {
	ch := make(chan session.Change, 8)

	a.listenMu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = ch
	a.listenMu.Unlock()

	go a.follow(ctx)
	go func() {
		<-ctx.Done()
		a.listenMu.Lock()
		delete(a.listeners, id)
		close(ch)
		a.listenMu.Unlock()
	}()
	return ch
}

// follow reloads the session on every store change and on a fixed interval,
// which also catches tokens revoked or expired on the server side.
func (a *Auth) follow(ctx context.Context) {
	var changed <-chan struct{}
	if w, ok := a.store.(storeWatcher); ok {
		ch, err := w.Watch(ctx, a.log)
		if err != nil {
			a.log.Warn("cannot watch session store, polling only", "error", err)
		} else {
			changed = ch
		}
	}

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changed:
			if !ok {
				changed = nil
				continue
			}
		case <-ticker.C:
		}
		if err := a.Reload(ctx); err != nil && ctx.Err() == nil {
			a.log.Warn("failed to reload session", "error", err)
		}
	}
}

func (a *Auth) broadcast(c session.Change) {
	a.listenMu.Lock()
	defer a.listenMu.Unlock()

	for _, ch := range a.listeners {
		select {
		case ch <- c:
		default:
			a.log.Warn("session listener is not keeping up", "event", c.Event.String())
		}
	}
}
