// Package eventlog persists simulation events to a SQLite database so a
// run can be inspected after the fact.
package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nathoo/hauntcore/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	turn       INTEGER NOT NULL,
	type       TEXT NOT NULL,
	actor      TEXT NOT NULL,
	location   TEXT NOT NULL,
	details    TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id, turn);
`

// Store appends events to a SQLite database, one row per event.
type Store struct {
	db *sql.DB
}

// Open creates or opens the event database at path. Pass ":memory:" for
// an ephemeral store.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("empty event database path")
	}
	if path != ":memory:" {
		parent := filepath.Dir(path)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, pragma := range []string{
		`PRAGMA busy_timeout = 5000;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating event schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Append writes a batch of events for a session in a single transaction.
func (st *Store) Append(ctx context.Context, sessionID string, events []types.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := st.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (session_id, turn, type, actor, location, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, ev := range events {
		details, err := json.Marshal(ev.Details)
		if err != nil {
			return fmt.Errorf("encoding event details: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, sessionID, ev.Turn, ev.Type, ev.Actor, ev.Location, string(details), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Session returns all events recorded for a session in turn order.
func (st *Store) Session(ctx context.Context, sessionID string) ([]types.Event, error) {
	rows, err := st.db.QueryContext(ctx, `
		SELECT turn, type, actor, location, details
		FROM events WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.Event
	for rows.Next() {
		var ev types.Event
		var details string
		if err := rows.Scan(&ev.Turn, &ev.Type, &ev.Actor, &ev.Location, &details); err != nil {
			return nil, err
		}
		if details != "" && details != "null" {
			if err := json.Unmarshal([]byte(details), &ev.Details); err != nil {
				return nil, fmt.Errorf("decoding event details: %w", err)
			}
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Close releases the underlying database handle.
func (st *Store) Close() error {
	return st.db.Close()
}
