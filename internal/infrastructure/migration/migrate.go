package migration

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	// Database drivers for both storage backends.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"golang.org/x/exp/slog"

	"dayboard/internal/config"
)

//go:embed sql
var migrations embed.FS

// Migrator is the part of migrate.Migrate the migration needs.
type Migrator interface {
	Up() error
	Down() error
	Version() (uint, bool, error)
	Close() (error, error)
}

// MigrationEngine builds a Migrator; tests swap it to avoid touching a database.
type MigrationEngine func(src source.Driver, databaseURL string) (Migrator, error)

// Migration applies or rolls back the embedded schema.
type Migration struct {
	cfg    *config.Config
	engine MigrationEngine
	log    *slog.Logger
}

// NewMigration runs migrations against the backend cfg selects.
func NewMigration(cfg *config.Config, engine MigrationEngine, log *slog.Logger) *Migration {
	return &Migration{
		cfg:    cfg,
		engine: engine,
		log:    log.With("component", "migration"),
	}
}

// DefaultEngine is the golang-migrate engine for databaseURL.
func DefaultEngine(src source.Driver, databaseURL string) (Migrator, error) {
	return migrate.NewWithSourceInstance("iofs", src, databaseURL)
}

// Source returns the embedded migrations of a backend.
func Source(backend config.Backend) (source.Driver, error) {
	if err := backend.Validate(); err != nil {
		return nil, err
	}
	return iofs.New(migrations, "sql/"+string(backend))
}

// Up applies every pending migration. An up-to-date schema is not an error.
func (mg *Migration) Up() error {
	return mg.run(func(m Migrator) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration up: %w", err)
		}
		return nil
	})
}

// Down reverts every applied migration.
func (mg *Migration) Down() error {
	return mg.run(func(m Migrator) error {
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration down: %w", err)
		}
		return nil
	})
}

func (mg *Migration) run(step func(Migrator) error) (err error) {
	src, err := Source(mg.cfg.Backend)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	m, err := mg.engine(src, mg.cfg.MigrationURL())
	if err != nil {
		return err
	}
	defer func() {
		serr, dberr := m.Close()
		if serr != nil {
			err = errors.Join(err, fmt.Errorf("migration source: %w", serr))
		}
		if dberr != nil {
			err = errors.Join(err, fmt.Errorf("migration database: %w", dberr))
		}
	}()

	if err := step(m); err != nil {
		return err
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("migration version: %w", verr)
	}
	mg.log.Info("schema migrated", "backend", mg.cfg.Backend, "version", version, "dirty", dirty)
	return nil
}
