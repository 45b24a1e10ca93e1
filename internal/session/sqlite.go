package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps sessions in a local SQLite database so they survive
// gateway restarts.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
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

	return &SQLiteStore{db: db, ttl: DefaultTTL}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Put(ctx context.Context, sess Session) error {
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions (id, token, user_id, name, email, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Token, sess.UserID, sess.Name, sess.Email, sess.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	slog.InfoContext(ctx, "Session stored",
		"session_id", sess.ID,
		"user_id", sess.UserID)
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx,
		`SELECT id, token, user_id, name, email, created_at FROM sessions WHERE id = ?`,
		id).Scan(&sess.ID, &sess.Token, &sess.UserID, &sess.Name, &sess.Email, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("query session: %w", err)
	}

	if time.Since(sess.CreatedAt) > s.ttl {
		if err := s.Delete(ctx, id); err != nil {
			slog.WarnContext(ctx, "Failed to delete expired session", "session_id", id, "error", err)
		}
		return Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
