package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// DefaultUser owns records when no user is configured.
const DefaultUser = "default_user"

// ErrNotFound is returned when a period id does not exist for the user.
var ErrNotFound = errors.New("store: period not found")

// Store is a SQLite-backed period store scoped to one user.
type Store struct {
	db     *sql.DB
	userID string
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, userID: DefaultUser}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

// ForUser returns a view of the store scoped to userID. Both share the
// underlying connection; closing either closes it.
func (s *Store) ForUser(userID string) *Store {
	if userID == "" {
		userID = DefaultUser
	}
	return &Store{db: s.db, userID: userID}
}

// UserID returns the user the store is scoped to.
func (s *Store) UserID() string { return s.userID }

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS periods (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		start_date      TEXT NOT NULL,
		end_date        TEXT,
		flow_intensity  TEXT NOT NULL DEFAULT 'medium'
		                CHECK (flow_intensity IN ('light', 'medium', 'heavy')),
		notes           TEXT,
		created_at      TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		CHECK (end_date IS NULL OR end_date >= start_date)
	);

	CREATE INDEX IF NOT EXISTS idx_periods_user_start ON periods(user_id, start_date);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('week_start',   'monday'),
		('default_flow', 'medium');
	`
	_, err := s.db.Exec(ddl)
	return err
}
