// Package types holds what every dayboard command shares: the lazily opened
// backend, the client app and id lookup.
package types

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/exp/slog"

	"dayboard/internal/app/client"
	"dayboard/internal/backend"
	"dayboard/internal/config"
	"dayboard/internal/domain/collection"
)

type envKey struct{}

// EnvKey is the cobra context key of the command Env.
var EnvKey = envKey{}

// ShortIDLen is how many id characters tables print.
const ShortIDLen = 8

var (
	ErrNotSignedIn = errors.New(`not signed in, run "dayboard auth login"`)
	ErrNoEnv       = errors.New("application is not initialized")
	ErrAmbiguousID = errors.New("id prefix matches more than one record")
)

// Env is created by the root command before any subcommand runs. The
// backend is opened on first use so commands like migrate never connect.
type Env struct {
	Config *config.Config
	Log    *slog.Logger
	Out    io.Writer
	Err    io.Writer

	backend *backend.Backend
	app     *client.App
}

// NewEnv writes to stdout and stderr. The backend is opened on first use.
func NewEnv(cfg *config.Config, log *slog.Logger) *Env {
	return &Env{Config: cfg, Log: log, Out: os.Stdout, Err: os.Stderr}
}

// WithEnv stores env in ctx for the subcommands.
func WithEnv(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, EnvKey, env)
}

// FromContext returns ErrNoEnv when the root command did not run.
func FromContext(ctx context.Context) (*Env, error) {
	env, ok := ctx.Value(EnvKey).(*Env)
	if !ok || env == nil {
		return nil, ErrNoEnv
	}
	return env, nil
}

// Backend opens the configured backend once.
func (e *Env) Backend(ctx context.Context) (*backend.Backend, error) {
	if e.backend != nil {
		return e.backend, nil
	}
	b, err := backend.Open(ctx, e.Config, e.Log)
	if err != nil {
		return nil, fmt.Errorf("open backend: %w", err)
	}
	e.backend = b
	e.app = client.New(b.Auth, b.Tasks, b.Notes, e.Log)
	return b, nil
}

// App returns the client App, opening the backend first if needed.
func (e *Env) App(ctx context.Context) (*client.App, error) {
	if _, err := e.Backend(ctx); err != nil {
		return nil, err
	}
	return e.app, nil
}

// Scope resumes the stored session. A scope whose initial load failed is
// still returned; the failure is logged and the collections stay empty.
func (e *Env) Scope(ctx context.Context) (*client.Scope, error) {
	app, err := e.App(ctx)
	if err != nil {
		return nil, err
	}
	scope, err := app.Start(ctx)
	switch {
	case errors.Is(err, collection.ErrAuthRequired):
		return nil, ErrNotSignedIn
	case err != nil && scope == nil:
		return nil, err
	case err != nil:
		e.Log.Warn("failed to load collections", "error", err)
	}
	return scope, nil
}

// Close releases the app and the backend if they were opened.
func (e *Env) Close() error {
	if e.app != nil {
		e.app.Close()
	}
	if e.backend == nil {
		return nil
	}
	return e.backend.Close()
}

// ResolveID finds the id that equals ref or is the only one starting with it.
func ResolveID(ref string, ids []string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty id", collection.ErrNotFound)
	}

	var match string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", ErrAmbiguousID, ref)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", collection.ErrNotFound, ref)
	}
	return match, nil
}

// ShortID is the prefix of id tables print.
func ShortID(id string) string {
	if len(id) <= ShortIDLen {
		return id
	}
	return id[:ShortIDLen]
}
