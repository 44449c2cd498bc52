// Package store persists normalization keys across runs in sqlite.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite is the cross-run seen-key store. Safe for the pipeline's single
// writer; reads and writes take a context like any other I/O.
type SQLite struct {
	db *sql.DB
}

// Open creates the database (and its directory) if needed.
func Open(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS seen (
  key TEXT PRIMARY KEY,
  sample TEXT,
  first_seen TEXT,
  last_seen TEXT,
  count INTEGER DEFAULT 1
);`); err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

// Seen reports whether key was recorded by this or any earlier run.
func (s *SQLite) Seen(ctx context.Context, key string) (bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT 1 FROM seen WHERE key=?`, key)
	var one int
	switch err := row.Scan(&one); err {
	case nil:
		return true, nil
	case sql.ErrNoRows:
		return false, nil
	default:
		return false, err
	}
}

// Mark records key, keeping a short sample of the record text for debugging.
// Re-marking bumps last_seen and the hit count.
func (s *SQLite) Mark(ctx context.Context, key, sample string) error {
	const sampleMax = 120
	if len(sample) > sampleMax {
		sample = sample[:sampleMax]
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `INSERT INTO seen(key, sample, first_seen, last_seen, count)
VALUES(?,?,?,?,1)
ON CONFLICT(key) DO UPDATE SET last_seen=excluded.last_seen, count=count+1;`,
		key, sample, now, now)
	return err
}

// Count returns the number of stored keys.
func (s *SQLite) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seen`).Scan(&n)
	return n, err
}

// GC deletes keys not seen within the retention window.
func (s *SQLite) GC(ctx context.Context, olderThanDays int) (int64, error) {
	if olderThanDays <= 0 {
		return 0, nil
	}
	threshold := time.Now().AddDate(0, 0, -olderThanDays).UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `DELETE FROM seen WHERE last_seen < ?`, threshold)
	if err != nil {
		return 0, err
	}
	rows, _ := res.RowsAffected()
	return rows, nil
}
