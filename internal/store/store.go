package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store provides durable storage for normalization runs.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db    *sql.DB
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the UUIDv7 run id generator. Tests use it to get
// predictable ids.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// This function is idempotent - safe to call multiple times.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open run store %s: %w", path, err)
	}
	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, step := range []func(*sql.DB) error{
		func(db *sql.DB) error { return db.Ping() },
		applyPragmas,
		applySchema,
	} {
		if err := step(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("open run store %s: %w", path, err)
		}
	}

	s := &Store{db: db, newID: newRunID}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func newRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// pragmas are applied, in order, to every connection the store opens.
var pragmas = []struct{ name, value string }{
	{"journal_mode", "WAL"},
	{"synchronous", "NORMAL"},
	{"busy_timeout", "5000"},
}

func applyPragmas(db *sql.DB) error {
	for _, p := range pragmas {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			return fmt.Errorf("pragma %s: %w", p.name, err)
		}
	}
	return nil
}

// migrations upgrade databases written by older versions. migrations[i]
// moves user_version from i to i+1; the current version is len(migrations).
//
//	1: runs.tool_version
var migrations = []func(*sql.DB) error{
	addToolVersion,
}

// applySchema creates missing tables, then runs pending migrations.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	for v := version; v < len(migrations); v++ {
		if err := migrations[v](db); err != nil {
			return fmt.Errorf("migrate to v%d: %w", v+1, err)
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", len(migrations))); err != nil {
		return fmt.Errorf("write user_version: %w", err)
	}
	return nil
}

// addToolVersion adds runs.tool_version. Tables created from the current
// schema already have it.
func addToolVersion(db *sql.DB) error {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('runs') WHERE name = 'tool_version'`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err := db.Exec(`ALTER TABLE runs ADD COLUMN tool_version TEXT NOT NULL DEFAULT ''`)
	return err
}

// pragma reads the current value of a pragma as text.
func (s *Store) pragma(name string) (string, error) {
	var value string
	err := s.db.QueryRow("PRAGMA " + name).Scan(&value)
	return value, err
}
