package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/config"
)

// New opens a PostgreSQL pool through the pgx stdlib driver.
func New(connStr string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// OpenSQLite opens the embedded database file at path, creating its directory.
func OpenSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}

	return db, nil
}

// Connect opens the backend selected by cfg without touching the schema.
func Connect(cfg *config.Config) (*sql.DB, config.Backend, error) {
	backend := cfg.Backend()

	if backend == config.BackendSQLite {
		db, err := OpenSQLite(cfg.ConnectionString())
		return db, backend, err
	}

	db, err := New(cfg.ConnectionString())
	if err != nil {
		return nil, backend, err
	}

	if cfg.DB.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}

	return db, backend, nil
}

// Open connects to the backend selected by cfg and applies migrations.
func Open(cfg *config.Config) (*sql.DB, config.Backend, error) {
	db, backend, err := Connect(cfg)
	if err != nil {
		return nil, backend, err
	}

	if err := Migrate(db, backend); err != nil {
		_ = db.Close()
		return nil, backend, err
	}

	return db, backend, nil
}
