package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages rip history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Entry is one recorded rip attempt.
type Entry struct {
	ID          int64
	SessionID   string
	Device      string
	DiscLabel   string
	Destination string
	Backend     string
	Bytes       int64
	ExitCode    int
	Status      string
	CreatedAt   time.Time
}

// Entry statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
	StatusGuarded = "guarded"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS rips (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	device TEXT NOT NULL,
	disc_label TEXT NOT NULL DEFAULT '',
	destination TEXT NOT NULL,
	backend TEXT NOT NULL DEFAULT '',
	bytes INTEGER NOT NULL DEFAULT 0,
	exit_code INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_rips_session ON rips(session_id);
CREATE INDEX IF NOT EXISTS idx_rips_created ON rips(created_at);
`
	return retryOnBusy(ensureContext(ctx), func() error {
		_, err := s.db.ExecContext(ctx, schema)
		return err
	})
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Record persists one rip attempt. CreatedAt defaults to the current time.
func (s *Store) Record(ctx context.Context, entry Entry) (int64, error) {
	ctx = ensureContext(ctx)
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	const query = `
INSERT INTO rips (session_id, device, disc_label, destination, backend, bytes, exit_code, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var id int64
	err := retryOnBusy(ctx, func() error {
		res, execErr := s.db.ExecContext(ctx, query,
			entry.SessionID,
			entry.Device,
			entry.DiscLabel,
			entry.Destination,
			entry.Backend,
			entry.Bytes,
			entry.ExitCode,
			entry.Status,
			createdAt.Format(time.RFC3339),
		)
		if execErr != nil {
			return execErr
		}
		id, execErr = res.LastInsertId()
		return execErr
	})
	if err != nil {
		return 0, fmt.Errorf("record rip: %w", err)
	}
	return id, nil
}

// List returns the most recent entries, newest first. A non-positive limit
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	ctx = ensureContext(ctx)
	query := `
SELECT id, session_id, device, disc_label, destination, backend, bytes, exit_code, status, created_at
FROM rips
ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var entries []Entry
	err := retryOnBusy(ctx, func() error {
		rows, queryErr := s.db.QueryContext(ctx, query, args...)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()

		entries = entries[:0]
		for rows.Next() {
			var (
				entry   Entry
				created string
			)
			if scanErr := rows.Scan(
				&entry.ID,
				&entry.SessionID,
				&entry.Device,
				&entry.DiscLabel,
				&entry.Destination,
				&entry.Backend,
				&entry.Bytes,
				&entry.ExitCode,
				&entry.Status,
				&created,
			); scanErr != nil {
				return scanErr
			}
			if ts, parseErr := time.Parse(time.RFC3339, created); parseErr == nil {
				entry.CreatedAt = ts
			}
			entries = append(entries, entry)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list rips: %w", err)
	}
	return entries, nil
}

// BySession returns the entries recorded under one session identifier in
// insertion order.
func (s *Store) BySession(ctx context.Context, sessionID string) ([]Entry, error) {
	ctx = ensureContext(ctx)
	const query = `
SELECT id, session_id, device, disc_label, destination, backend, bytes, exit_code, status, created_at
FROM rips
WHERE session_id = ?
ORDER BY id ASC`

	var entries []Entry
	err := retryOnBusy(ctx, func() error {
		rows, queryErr := s.db.QueryContext(ctx, query, sessionID)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()

		entries = entries[:0]
		for rows.Next() {
			var (
				entry   Entry
				created string
			)
			if scanErr := rows.Scan(
				&entry.ID,
				&entry.SessionID,
				&entry.Device,
				&entry.DiscLabel,
				&entry.Destination,
				&entry.Backend,
				&entry.Bytes,
				&entry.ExitCode,
				&entry.Status,
				&created,
			); scanErr != nil {
				return scanErr
			}
			if ts, parseErr := time.Parse(time.RFC3339, created); parseErr == nil {
				entry.CreatedAt = ts
			}
			entries = append(entries, entry)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list session rips: %w", err)
	}
	return entries, nil
}
