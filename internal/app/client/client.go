package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/slog"

	"dayboard/internal/changefeed"
	"dayboard/internal/domain/collection"
	"dayboard/internal/domain/record"
	"dayboard/internal/domain/session"
	"dayboard/internal/domain/user"
)

// Auth is the part of backend.Auth the App drives.
type Auth interface {
	CurrentSession(ctx context.Context) (*session.Session, error)
	SignIn(ctx context.Context, email, password string) (*session.Session, error)
	SignUp(ctx context.Context, email, password string) (*session.Session, error)
	SignOut(ctx context.Context) error
	OnSessionChange(ctx context.Context) <-chan session.Change
}

// TaskTable is the remote task table with its change stream.
type TaskTable interface {
	collection.TaskRemote
	Subscribe(ctx context.Context, filter changefeed.Filter) (<-chan collection.ChangeEvent[record.Task], error)
}

// NoteTable is the remote note table with its change stream.
type NoteTable interface {
	collection.NoteRemote
	Subscribe(ctx context.Context, filter changefeed.Filter) (<-chan collection.ChangeEvent[record.Note], error)
}

// ErrClosed is returned when a session is opened on a closed App.
var ErrClosed = errors.New("app is closed")

// App owns the session lifecycle. At most one Scope is active at a time.
type App struct {
	auth  Auth
	tasks TaskTable
	notes NoteTable
	log   *slog.Logger

	// lifeMu serializes opening and closing scopes.
	lifeMu sync.Mutex
	closed bool

	mu    sync.Mutex
	scope *Scope
}

// New returns an App without an active scope. Call Start or Login.
func New(auth Auth, tasks TaskTable, notes NoteTable, log *slog.Logger) *App {
	return &App{
		auth:  auth,
		tasks: tasks,
		notes: notes,
		log:   log.With("component", "client_app"),
	}
}

// Start resumes a stored session. It returns ErrAuthRequired when nobody is
// signed in. The scope is returned even when the initial load fails.
func (a *App) Start(ctx context.Context) (*Scope, error) {
	sess, err := a.auth.CurrentSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if sess == nil {
		return nil, collection.ErrAuthRequired
	}
	return a.open(ctx, sess)
}

// Login signs in, signing up instead when the email is unknown, and opens a
// fresh scope for the new session.
func (a *App) Login(ctx context.Context, email, password string) (*Scope, error) {
	sess, err := a.auth.SignIn(ctx, email, password)
	if errors.Is(err, user.ErrNotFound) {
		a.log.Info("unknown email, signing up")
		sess, err = a.auth.SignUp(ctx, email, password)
	}
	if err != nil {
		return nil, err
	}
	return a.open(ctx, sess)
}

// Logout tears the scope down before the session ends.
func (a *App) Logout(ctx context.Context) error {
	a.lifeMu.Lock()
	defer a.lifeMu.Unlock()

	a.closeScope()
	if err := a.auth.SignOut(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// Scope returns the active scope.
func (a *App) Scope() (*Scope, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.scope == nil {
		return nil, collection.ErrAuthRequired
	}
	return a.scope, nil
}

// Run follows session changes made elsewhere until ctx is done: a sign-out
// closes the scope and a sign-in opens one for the new session.
func (a *App) Run(ctx context.Context) error {
	changes := a.auth.OnSessionChange(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-changes:
			if !ok {
				return nil
			}
			a.handleChange(ctx, c)
		}
	}
}

// handleChange brings the scope in line with the session Auth reports now.
// Events queue up behind Login and Logout, so the event itself may be stale.
func (a *App) handleChange(ctx context.Context, c session.Change) {
	a.lifeMu.Lock()
	defer a.lifeMu.Unlock()

	if a.closed {
		return
	}
	sess, err := a.auth.CurrentSession(ctx)
	if err != nil {
		a.log.Warn("cannot check session after change", "event", c.Event.String(), "error", err)
		return
	}
	if sess == nil {
		a.closeScope()
		return
	}
	if _, err := a.openLocked(ctx, sess); err != nil {
		a.log.Error("failed to open scope for new session", "user_id", sess.UserID, "error", err)
	}
}

// Close ends the active scope. Sessions opened afterwards fail with ErrClosed.
func (a *App) Close() {
	a.lifeMu.Lock()
	defer a.lifeMu.Unlock()

	a.closed = true
	a.closeScope()
}

func (a *App) open(ctx context.Context, sess *session.Session) (*Scope, error) {
	a.lifeMu.Lock()
	defer a.lifeMu.Unlock()
	return a.openLocked(ctx, sess)
}

// openLocked keeps the active scope when it already belongs to sess.
func (a *App) openLocked(ctx context.Context, sess *session.Session) (*Scope, error) {
	if a.closed {
		return nil, ErrClosed
	}

	a.mu.Lock()
	current := a.scope
	a.mu.Unlock()
	if current != nil && current.Session.AccessToken == sess.AccessToken {
		return current, nil
	}

	a.closeScope()
	scope, err := newScope(ctx, sess, a.tasks, a.notes, a.log)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.scope = scope
	a.mu.Unlock()

	a.log.Debug("scope opened", "user_id", sess.UserID)
	return scope, scope.Load(ctx)
}

func (a *App) closeScope() {
	a.mu.Lock()
	scope := a.scope
	a.scope = nil
	a.mu.Unlock()

	if scope != nil {
		scope.Close()
		a.log.Debug("scope closed", "user_id", scope.Session.UserID)
	}
}
