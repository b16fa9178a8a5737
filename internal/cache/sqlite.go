package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists cache entries in a SQLite database so repeat
// requests survive process restarts.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens or creates a SQLite-backed cache store at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// createSchema creates the cache table if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS entries (
			key TEXT PRIMARY KEY,
			payload BLOB NOT NULL,
			created_at INTEGER NOT NULL
		);
	`
	_, err := db.Exec(schema)
	return err
}

// Get returns the entry for key, with ok=false on absence.
func (s *SQLiteStore) Get(key string) (Entry, bool, error) {
	row := s.db.QueryRow(`SELECT payload, created_at FROM entries WHERE key = ?`, key)

	var payload []byte
	var createdAt int64
	if err := row.Scan(&payload, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("scanning cache entry: %w", err)
	}

	return Entry{
		Key:       key,
		Payload:   payload,
		CreatedAt: time.Unix(0, createdAt),
	}, true, nil
}

// Put inserts or replaces the entry for entry.Key.
func (s *SQLiteStore) Put(entry Entry) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO entries (key, payload, created_at) VALUES (?, ?, ?)`,
		entry.Key, entry.Payload, entry.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("inserting cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry for key.
func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// Clear removes all entries.
func (s *SQLiteStore) Clear() (int, error) {
	res, err := s.db.Exec(`DELETE FROM entries`)
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(n), nil
}

// Count returns the number of stored entries.
func (s *SQLiteStore) Count() (int, error) {
	row := s.db.QueryRow(`SELECT COUNT(*) FROM entries`)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cache entries: %w", err)
	}
	return n, nil
}
