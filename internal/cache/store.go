// internal/cache/store.go
package cache

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/dhwani-ris/frappe-desk-theme/internal/theme"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrCacheMiss is returned when no usable entry exists. A malformed stored
// payload is reported the same way so callers treat it as an ordinary miss.
var ErrCacheMiss = errors.New("theme cache miss")

// TTL is the cache validity window. An entry aged exactly TTL is stale.
const TTL = 24 * time.Hour

// SchemaVersion is written with every entry. It is not checked on read; it
// exists so a future release can migrate old payloads.
const SchemaVersion = 1

const themeKey = "desk_theme"

// Entry is one persisted theme document with its write timestamp.
type Entry struct {
	Data      theme.Config `json:"data"`
	Timestamp int64        `json:"timestamp"`
	Version   int          `json:"version"`
}

// Fresh reports whether an entry written at timestamp (epoch millis) is
// still valid at now. The boundary is strict: exactly TTL old is stale.
func Fresh(now time.Time, timestamp int64) bool {
	return now.UnixMilli()-timestamp < TTL.Milliseconds()
}

// FreshAt reports whether the entry is still valid at now.
func (e *Entry) FreshAt(now time.Time) bool {
	return Fresh(now, e.Timestamp)
}

// Store persists theme cache entries in a local SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database at filename and applies
// the embedded migrations.
func Open(filename string) (*Store, error) {
	if filename == "" {
		return nil, fmt.Errorf("cache filename is required")
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating cache database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the cached entry. Missing rows and undecodable payloads both
// return ErrCacheMiss.
func (s *Store) Load(ctx context.Context) (*Entry, error) {
	var (
		data      string
		timestamp int64
		version   int
	)
	row := s.db.QueryRowContext(ctx,
		`SELECT data, timestamp, version FROM theme_cache WHERE key = ?`, themeKey)
	if err := row.Scan(&data, &timestamp, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("reading theme cache: %w", err)
	}

	var cfg theme.Config
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return nil, fmt.Errorf("%w: stored payload undecodable", ErrCacheMiss)
	}

	return &Entry{Data: cfg, Timestamp: timestamp, Version: version}, nil
}

// Save overwrites the cached entry with cfg stamped at now.
func (s *Store) Save(ctx context.Context, cfg *theme.Config, now time.Time) error {
	if cfg == nil {
		return fmt.Errorf("cannot cache a nil theme")
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding theme for cache: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO theme_cache (key, data, timestamp, version)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   data = excluded.data,
		   timestamp = excluded.timestamp,
		   version = excluded.version`,
		themeKey, string(data), now.UnixMilli(), SchemaVersion)
	if err != nil {
		return fmt.Errorf("writing theme cache: %w", err)
	}
	return nil
}

// Clear deletes the cached entry. Clearing an empty cache is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM theme_cache WHERE key = ?`, themeKey); err != nil {
		return fmt.Errorf("clearing theme cache: %w", err)
	}
	return nil
}

func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("could not create migrate driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not create source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}
