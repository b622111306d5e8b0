package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AQUACY/AGHIMS/pkg/logger"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// SQLite is the durable Store backing the client between runs. It holds
// a single kv table in a local database file.
type SQLite struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewSQLite opens (creating if needed) the local store at path
func NewSQLite(path string, log *logger.Logger) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	// The store is tiny and accessed from short-lived calls; a single
	// connection avoids sqlite write contention.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize local store schema: %w", err)
	}

	log.WithComponent("storage").Info("Local store opened")
	return &SQLite{db: db, logger: log}, nil
}

// newSQLiteWithDB wires an existing database handle; used by tests
func newSQLiteWithDB(db *sql.DB, log *logger.Logger) *SQLite {
	return &SQLite{db: db, logger: log}
}

// Get implements Store. Read failures are logged and reported as a
// miss so callers degrade the same way as an absent key.
func (s *SQLite) Get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		s.logger.WithComponent("storage").WithError(err).Warn("Failed to read key")
		return "", false
	}
	return value, true
}

// Set implements Store
func (s *SQLite) Set(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// Remove implements Store
func (s *SQLite) Remove(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to remove key %q: %w", key, err)
	}
	return nil
}

// Health checks the store connection health
func (s *SQLite) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.db.PingContext(ctx)
}

// Close closes the underlying database
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
