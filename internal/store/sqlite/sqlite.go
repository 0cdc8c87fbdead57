package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store provides a SQLite-backed implementation of store.Store.
type Store struct {
	db *sql.DB
}

// New opens (creating if necessary) the SQLite database at path and runs
// migrations against it.
func New(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// A single connection avoids SQLITE_BUSY from concurrent writers;
	// shev's write volume is low enough that this never becomes a
	// bottleneck (single daemon process, one dispatcher goroutine
	// issuing most writes).
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
