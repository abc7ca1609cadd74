package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/config"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// Migrate applies the embedded schema for backend to db. The handle stays open.
func Migrate(db *sql.DB, backend config.Backend) error {
	m, src, err := newMigrator(db, backend)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}

	return nil
}

// MigrateDown reverts every migration. Used by the admin CLI.
func MigrateDown(db *sql.DB, backend config.Backend) error {
	m, src, err := newMigrator(db, backend)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("reverting migrations: %w", err)
	}

	return nil
}

// Version reports the applied schema version and whether the last run failed
// half way. Zero means no migration has been applied.
func Version(db *sql.DB, backend config.Backend) (uint, bool, error) {
	m, src, err := newMigrator(db, backend)
	if err != nil {
		return 0, false, err
	}
	defer src.Close()

	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}

	return v, dirty, err
}

type closer interface {
	Close() error
}

func newMigrator(db *sql.DB, backend config.Backend) (*migrate.Migrate, closer, error) {
	src, err := iofs.New(migrations, "migrations/"+string(backend))
	if err != nil {
		return nil, nil, fmt.Errorf("loading migrations: %w", err)
	}

	var driver migratedb.Driver

	switch backend {
	case config.BackendPostgres:
		driver, err = pgxmigrate.WithInstance(db, &pgxmigrate.Config{})
	case config.BackendSQLite:
		driver, err = sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	default:
		err = fmt.Errorf("unknown backend %q", backend)
	}

	if err != nil {
		_ = src.Close()
		return nil, nil, fmt.Errorf("creating migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(backend), driver)
	if err != nil {
		_ = src.Close()
		return nil, nil, fmt.Errorf("creating migrator: %w", err)
	}

	return m, src, nil
}
