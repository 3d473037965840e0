// Package localstore provides the durable local key-value store backing the
// client's session blob and theme preference. It is a single-file SQLite
// database so state survives across CLI invocations.
package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("localstore: key not found")

// Store is a durable string key-value surface. A single write connection is
// used; the CLI is single-user and SQLite serializes writes anyway.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Options holds configuration for opening a Store.
type Options struct {
	Path   string
	Logger *slog.Logger
}

// Open creates the state database if needed, applies migrations, and returns
// a Store ready for use.
func Open(opts Options) (*Store, error) {
	log := opts.Logger.With("component", "localstore")

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return nil, fmt.Errorf("error creating state directory: %w", err)
	}

	db, err := sql.Open("sqlite", opts.Path)
	if err != nil {
		log.Error("failed to open state database", "error", err, "path", opts.Path)
		return nil, fmt.Errorf("error opening state database: %w", err)
	}

	// One connection keeps reads and writes serialized on the same handle.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := setPragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := runMigrations(db, log); err != nil {
		db.Close()
		return nil, err
	}

	log.Debug("state database ready", "path", opts.Path)
	return &Store{db: db, log: log}, nil
}

// setPragmas applies the recommended PRAGMA settings for a small local
// state database (WAL mode, relaxed sync).
func setPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA mmap_size = 0", // memory-mapped I/O can misbehave with modernc.org/sqlite
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("error setting pragma %q: %w", pragma, err)
		}
	}
	return nil
}

// Get returns the value stored under key, or ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("error reading key %q: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("error writing key %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("error deleting key %q: %w", key, err)
	}
	return nil
}

// Close shuts down the underlying database connection.
func (s *Store) Close() error {
	s.log.Debug("closing state database")
	return s.db.Close()
}

// runMigrations applies the migrations embedded in migrationsFS via
// golang-migrate.
func runMigrations(db *sql.DB, log *slog.Logger) error {
	migrationFS, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("error creating migrations filesystem: %w", err)
	}

	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("error creating migration source driver: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{
		MigrationsTable: "schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("error creating sqlite migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}
	defer func() {
		sourceErr, dbErr := m.Close()
		if sourceErr != nil {
			log.Warn("error closing migration source driver", "error", sourceErr)
		}
		if dbErr != nil {
			log.Warn("error closing migration database driver", "error", dbErr)
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Debug("migrations up to date")
			return nil
		}
		return fmt.Errorf("error applying migrations: %w", err)
	}

	log.Debug("database migrations completed")
	return nil
}
