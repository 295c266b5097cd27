// Package backend assembles the hosted-backend primitives the client is
// written against: authentication, one table per collection and the change
// stream of every table.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"

	"dayboard/internal/changefeed"
	"dayboard/internal/config"
	"dayboard/internal/domain/collection"
	"dayboard/internal/domain/record"
	"dayboard/internal/domain/session"
	"dayboard/internal/domain/user"
	"dayboard/internal/infrastructure/migration"
	"dayboard/internal/infrastructure/sessionstore"
	"dayboard/internal/infrastructure/storage/postgres"
	"dayboard/internal/infrastructure/storage/sqlite"
)

// Backend is the server side: authentication plus one table per collection.
type Backend struct {
	Auth  *Auth
	Tasks *TaskTable
	Notes *NoteTable

	bus     changefeed.Bus
	closers []func() error
	cancel  context.CancelFunc
	done    chan struct{}
}

// Open migrates the configured database and connects every adapter.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Backend, error) {
	if err := migration.NewMigration(cfg, migration.DefaultEngine, log).Up(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	switch cfg.Backend {
	case config.BackendPostgres:
		return openPostgres(ctx, cfg, log)
	default:
		return openSQLite(ctx, cfg, log)
	}
}

func openSQLite(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Backend, error) {
	bus, err := openBus(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	db, err := sqlite.Open(cfg.SQLitePath, bus, log)
	if err != nil {
		bus.Close()
		return nil, err
	}

	b := assemble(cfg, bus,
		sqlite.NewTaskRepository(db), sqlite.NewNoteRepository(db),
		sqlite.NewUserRepository(db), sqlite.NewSessionRepository(db), log)
	b.closers = append(b.closers, db.Close, bus.Close)
	return b, nil
}

// The database notifies every connected process itself, so the postgres
// backend always fans out through the in-process hub.
func openPostgres(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Backend, error) {
	if cfg.Changefeed == config.ChangefeedRedis {
		log.Info("postgres notifies every process directly, ignoring the redis change feed")
	}

	db, err := postgres.New(ctx, cfg.DatabaseURI, log)
	if err != nil {
		return nil, err
	}
	hub := changefeed.NewHub(log)

	b := assemble(cfg, hub,
		postgres.NewTaskRepository(db, log), postgres.NewNoteRepository(db, log),
		postgres.NewUserRepository(db, log), postgres.NewSessionRepository(db, log), log)

	listenCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	b.cancel = cancel
	b.done = make(chan struct{})
	listener := postgres.NewListener(db, hub, log)
	go func() {
		defer close(b.done)
		listener.Run(listenCtx)
	}()

	b.closers = append(b.closers, hub.Close, db.Close)
	return b, nil
}

func openBus(ctx context.Context, cfg *config.Config, log *slog.Logger) (changefeed.Bus, error) {
	if cfg.Changefeed != config.ChangefeedRedis {
		return changefeed.NewHub(log), nil
	}

	rc := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := rc.Ping(ctx).Err(); err != nil {
		rc.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return changefeed.NewRedisBus(rc, cfg.Redis.Channel, log), nil
}

func assemble(
	cfg *config.Config,
	bus changefeed.Bus,
	tasks collection.TaskRemote,
	notes collection.NoteRemote,
	users user.Repository,
	sessions session.Repository,
	log *slog.Logger,
) *Backend {
	userService := user.NewService(users, user.NewPasswordValidator(), log)
	sessionService := session.NewService(sessions, cfg.SessionSecret(), cfg.Session.TTL, log)

	return &Backend{
		Auth:  NewAuth(userService, sessionService, sessionstore.New(cfg.ConfigDir), log).WithRefresh(cfg.Session.Refresh),
		Tasks: NewTable(record.KindTask, tasks, bus, log),
		Notes: NewTable(record.KindNote, notes, bus, log),
		bus:   bus,
	}
}

// Close stops the change listener and releases every connection.
func (b *Backend) Close() error {
	if b.cancel != nil {
		b.cancel()
		<-b.done
	}

	var errs []error
	for _, c := range b.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
