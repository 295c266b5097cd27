package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"

	"dayboard/internal/changefeed"
	"dayboard/internal/infrastructure/storage"
)

// Storage is the embedded relational store. Every committed row change is
// published on bus.
type Storage struct {
	db    *sql.DB
	bus   changefeed.Publisher
	clock *storage.Clock
	log   *slog.Logger
}

// Open opens the database at path and publishes every committed write on bus.
func Open(path string, bus changefeed.Publisher, log *slog.Logger) (*Storage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Storage{
		db:    db,
		bus:   bus,
		clock: storage.NewClock(nil),
		log:   log.With("component", "sqlite_storage"),
	}, nil
}

// DB exposes the handle to migrations.
func (s *Storage) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) publish(ctx context.Context, msg changefeed.Message, err error) {
	if err != nil {
		s.log.Error("failed to encode change", "table", msg.Table, "id", msg.ID, "error", err)
		return
	}
	if s.bus == nil {
		return
	}
	// The row is committed; a lost notification only delays other sessions.
	if err := s.bus.Publish(context.WithoutCancel(ctx), msg); err != nil {
		s.log.Error("failed to publish change", "table", msg.Table, "id", msg.ID, "error", err)
	}
}

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique
}
