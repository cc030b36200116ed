// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/trackmatch/pkg/types"
)

// SQLite is the persistent response cache; its lifetime spans runs.
type SQLite struct {
	db  *sql.DB
	ttl time.Duration
}

// NewSQLite opens or creates the cache database at path, creating the
// schema if it does not exist.
func NewSQLite(path string, ttl time.Duration) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS responses (
		query TEXT NOT NULL,
		strategy TEXT NOT NULL,
		body TEXT NOT NULL,
		ok INTEGER NOT NULL,
		err TEXT,
		elapsed_ms INTEGER NOT NULL,
		fetched_at TEXT NOT NULL,
		stored_at TEXT NOT NULL,
		PRIMARY KEY (query, strategy)
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &SQLite{db: db, ttl: ttl}, nil
}

func (s *SQLite) Get(queryText string, tag types.StrategyTag) (types.RawResponse, bool) {
	var (
		resp      types.RawResponse
		ok        int
		elapsedMS int64
		fetchedAt string
		storedAt  string
	)
	err := s.db.QueryRow(
		`SELECT body, ok, err, elapsed_ms, fetched_at, stored_at
		 FROM responses WHERE query = ? AND strategy = ?`,
		Key(queryText), string(tag),
	).Scan(&resp.Body, &ok, &resp.Err, &elapsedMS, &fetchedAt, &storedAt)
	if err != nil {
		return types.RawResponse{}, false
	}

	stored, err := time.Parse(time.RFC3339Nano, storedAt)
	if err != nil || time.Since(stored) > s.ttl {
		return types.RawResponse{}, false
	}

	resp.Strategy = tag
	resp.OK = ok == 1
	resp.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	if t, err := time.Parse(time.RFC3339Nano, fetchedAt); err == nil {
		resp.FetchedAt = t
	}
	return resp, true
}

// Put stores resp under its key. The first writer for a fresh key wins
// and concurrent duplicate fetches are dropped silently; an expired row is
// replaced in full.
func (s *SQLite) Put(queryText string, tag types.StrategyTag, resp types.RawResponse) {
	ok := 0
	if resp.OK {
		ok = 1
	}
	cutoff := time.Now().Add(-s.ttl).UTC().Format(time.RFC3339Nano)
	s.db.Exec(
		`INSERT INTO responses (query, strategy, body, ok, err, elapsed_ms, fetched_at, stored_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(query, strategy) DO UPDATE SET
			body=excluded.body, ok=excluded.ok, err=excluded.err,
			elapsed_ms=excluded.elapsed_ms, fetched_at=excluded.fetched_at,
			stored_at=excluded.stored_at
		 WHERE responses.stored_at < ?`,
		Key(queryText), string(tag), resp.Body, ok, resp.Err,
		resp.Elapsed.Milliseconds(),
		resp.FetchedAt.UTC().Format(time.RFC3339Nano),
		time.Now().UTC().Format(time.RFC3339Nano),
		cutoff,
	)
}

func (s *SQLite) Len() int {
	var n int
	if err := s.db.QueryRow(`SELECT count(*) FROM responses`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Purge removes entries older than the TTL and returns how many were dropped.
func (s *SQLite) Purge() (int, error) {
	cutoff := time.Now().Add(-s.ttl).UTC().Format(time.RFC3339Nano)
	res, err := s.db.Exec(`DELETE FROM responses WHERE stored_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *SQLite) Close() error { return s.db.Close() }
