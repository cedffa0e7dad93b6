// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/speedtype/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("store: key not found")

// Store wraps SQLite access for the key/value blobs and session history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			ended_at TEXT NOT NULL,
			duration_s INTEGER NOT NULL,
			elapsed_s INTEGER NOT NULL,
			wpm INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			reason TEXT NOT NULL,
			text TEXT NOT NULL,
			qualified INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put overwrites the value stored under key.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Format(time.RFC3339Nano))
	return err
}

// InsertSession stores a completed test in the history table.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord) (int64, error) {
	qualified := 0
	if rec.Qualified {
		qualified = 1
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (ended_at, duration_s, elapsed_s, wpm, accuracy, reason, text, qualified)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.EndedAt.UTC().Format(time.RFC3339Nano),
		rec.Duration,
		rec.Elapsed,
		rec.WPM,
		rec.Accuracy,
		rec.Reason,
		rec.Text,
		qualified,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSessions returns history in chronological order, limited to the last
// cfg.Last entries when set.
func (s *Store) ListSessions(ctx context.Context, cfg model.HistoryConfig) ([]model.SessionRecord, error) {
	clauses := []string{}
	args := []any{}
	if cfg.Last > 0 {
		clauses = append(clauses, "LIMIT ?")
		args = append(args, cfg.Last)
	}
	query := fmt.Sprintf(`SELECT ended_at, duration_s, elapsed_s, wpm, accuracy, reason, text, qualified
		FROM (SELECT * FROM sessions ORDER BY ended_at DESC, id DESC %s)
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionRecord
	for rows.Next() {
		var rec model.SessionRecord
		var endedAt string
		var qualified int
		if err := rows.Scan(&endedAt, &rec.Duration, &rec.Elapsed, &rec.WPM, &rec.Accuracy, &rec.Reason, &rec.Text, &qualified); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		rec.EndedAt = parsed
		rec.Qualified = qualified != 0
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
