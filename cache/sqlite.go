package cache

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite is a response cache persisted to a sqlite database, useful for
// development sessions and batch scripts that re-issue the same calls across
// process restarts.
type SQLite struct {
	db  *sql.DB
	ttl time.Duration
}

// NewSQLite opens (and if needed initializes) a sqlite-backed cache at path.
func NewSQLite(path string, ttl time.Duration) (*SQLite, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS responses (
		key TEXT PRIMARY KEY,
		body BLOB NOT NULL,
		expires_at INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return &SQLite{db: db, ttl: ttl}, nil
}

// Get fetches a key, reporting whether it was present and unexpired.
func (c *SQLite) Get(key string) ([]byte, bool) {
	var body []byte
	var expires int64
	err := c.db.QueryRow(
		`SELECT body, expires_at FROM responses WHERE key = ?`, key,
	).Scan(&body, &expires)
	if err != nil {
		return nil, false
	}
	if time.Now().Unix() > expires {
		_, _ = c.db.Exec(`DELETE FROM responses WHERE key = ?`, key)
		return nil, false
	}
	return body, true
}

// Set stores a value under key with the configured TTL.
func (c *SQLite) Set(key string, value []byte) {
	_, _ = c.db.Exec(
		`INSERT OR REPLACE INTO responses (key, body, expires_at) VALUES (?, ?, ?)`,
		key, value, time.Now().Add(c.ttl).Unix(),
	)
}

// Contains reports whether key is cached and unexpired.
func (c *SQLite) Contains(key string) bool {
	_, ok := c.Get(key)
	return ok
}

// Close closes the underlying database.
func (c *SQLite) Close() error {
	return c.db.Close()
}
