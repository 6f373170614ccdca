// SPDX-License-Identifier: EPL-2.0

// Package history keeps a SQLite log of confirmed tracks.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver registration

	"github.com/ik5/audtag/tracker"
)

const schema = `
CREATE TABLE IF NOT EXISTS announcements (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    identity TEXT NOT NULL,
    artist TEXT NOT NULL,
    title TEXT NOT NULL,
    track_key TEXT NOT NULL DEFAULT '',
    isrc TEXT NOT NULL DEFAULT '',
    url TEXT NOT NULL DEFAULT '',
    confirmed_at_ms INTEGER NOT NULL,
    listeners INTEGER NOT NULL DEFAULT 0,
    played_at INTEGER
);
CREATE INDEX IF NOT EXISTS idx_announcements_confirmed ON announcements(confirmed_at_ms);
`

// Entry is one stored announcement.
type Entry struct {
	ID          int64
	Identity    string
	Artist      string
	Title       string
	Key         string
	ISRC        string
	URL         string
	ConfirmedAt time.Time
	Listeners   int
	PlayedAt    time.Time
}

// Store implements tracker.Announcer by inserting every announcement.
type Store struct {
	db *sql.DB
}

var _ tracker.Announcer = (*Store)(nil)

// Open opens or creates the database at dsn, a file path optionally followed
// by go-sqlite3 query parameters. Missing parent directories are created.
func Open(dsn string) (*Store, error) {
	path := dsn
	if idx := strings.Index(dsn, "?"); idx != -1 {
		path = dsn[:idx]
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" && !strings.HasPrefix(path, ":memory:") {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	if !strings.Contains(dsn, "_busy_timeout") {
		if strings.Contains(dsn, "?") {
			dsn += "&_busy_timeout=5000"
		} else {
			dsn += "?_busy_timeout=5000"
		}
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// Writes come from one loop; a single connection keeps :memory: databases
	// shared between calls.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history tables: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Announce(ctx context.Context, a tracker.Announcement) error {
	e := Entry{
		Identity:    a.Identity,
		ConfirmedAt: a.ConfirmedAt,
		Listeners:   a.Listeners,
		PlayedAt:    a.PlayedAt,
	}
	if t := a.Track; t != nil {
		e.Artist, e.Title, e.Key, e.ISRC, e.URL = t.Subtitle, t.Title, t.Key, t.ISRC, t.URL
		if e.Identity == "" {
			e.Identity = t.Identity()
		}
	}

	_, err := s.Insert(ctx, e)
	return err
}

// Insert stores e and returns its row id.
func (s *Store) Insert(ctx context.Context, e Entry) (int64, error) {
	var playedAt sql.NullInt64
	if !e.PlayedAt.IsZero() {
		playedAt = sql.NullInt64{Int64: e.PlayedAt.Unix(), Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO announcements (identity, artist, title, track_key, isrc, url, confirmed_at_ms, listeners, played_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Identity, e.Artist, e.Title, e.Key, e.ISRC, e.URL, e.ConfirmedAt.UnixMilli(), e.Listeners, playedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert announcement: %w", err)
	}

	return res.LastInsertId()
}

// Recent returns up to n announcements, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, identity, artist, title, track_key, isrc, url, confirmed_at_ms, listeners, played_at
		 FROM announcements ORDER BY confirmed_at_ms DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query announcements: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e           Entry
			confirmedMs int64
			playedAt    sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.Identity, &e.Artist, &e.Title, &e.Key, &e.ISRC, &e.URL, &confirmedMs, &e.Listeners, &playedAt); err != nil {
			return nil, fmt.Errorf("scan announcement: %w", err)
		}
		e.ConfirmedAt = time.UnixMilli(confirmedMs)
		if playedAt.Valid {
			e.PlayedAt = time.Unix(playedAt.Int64, 0)
		}
		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate announcements: %w", err)
	}

	return out, nil
}
