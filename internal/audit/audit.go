// Package audit persists entity-change events consumed from the broker
// into a local SQLite log, giving a queryable activity history that is
// independent of the remote backend.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded entity change.
type Entry struct {
	ID         int64
	Entity     string
	Action     string
	UserID     string
	OccurredAt time.Time
}

type Recorder struct {
	db *sql.DB
}

func NewRecorder(dbPath string) (*Recorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Recorder{db: db}, nil
}

func (r *Recorder) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Record appends one event to the log.
func (r *Recorder) Record(ctx context.Context, e Entry) error {
	occurred := e.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO entity_events (entity, action, user_id, occurred_at) VALUES (?, ?, ?, ?)`,
		e.Entity, e.Action, e.UserID, occurred.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Recent returns the newest events for a user, newest first.
func (r *Recorder) Recent(ctx context.Context, userID string, limit int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, entity, action, user_id, occurred_at
		 FROM entity_events WHERE user_id = ?
		 ORDER BY id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var occurred string
		if err := rows.Scan(&e.ID, &e.Entity, &e.Action, &e.UserID, &occurred); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if t, perr := time.Parse(time.RFC3339Nano, occurred); perr == nil {
			e.OccurredAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountSince reports how many changes a user made since the cutoff,
// grouped by entity kind.
func (r *Recorder) CountSince(ctx context.Context, userID string, since time.Time) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT entity, COUNT(*) FROM entity_events
		 WHERE user_id = ? AND occurred_at >= ?
		 GROUP BY entity`,
		userID, since.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var entity string
		var n int
		if err := rows.Scan(&entity, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[entity] = n
	}
	return counts, rows.Err()
}
