// Package sqlstore is a SQL-backed session.Store implementation using
// modernc.org/sqlite (pure Go, no cgo). One row per session id, with the
// transcript serialized via the chatmodel JSON codec.
package sqlstore

import (
	"database/sql"
	"encoding/json"
	"errors"

	_ "modernc.org/sqlite"

	"github.com/haasonsaas/pi-agent-core/internal/chatmodel"
	"github.com/haasonsaas/pi-agent-core/internal/pierr"
	"github.com/haasonsaas/pi-agent-core/internal/session"
)

// Store persists transcripts in a `sessions` table, one row per session id.
type Store struct {
	db *sql.DB
}

// Open opens (and migrates) a SQLite database at dsn, e.g. "file:agent.db"
// or ":memory:".
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, pierr.Wrap(pierr.Io, err, "sqlstore: open %s", dsn)
	}
	// Every pooled connection to ":memory:" opens its own empty database,
	// so the pool is held to one connection that all callers share.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an already-open database handle, migrating it if needed.
func New(db *sql.DB) (*Store, error) {
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			transcript TEXT NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`
	if _, err := s.db.Exec(ddl); err != nil {
		return pierr.Wrap(pierr.Io, err, "sqlstore: migrate")
	}
	return nil
}

// Load returns the transcript stored under id, or ok=false if no row exists.
func (s *Store) Load(id chatmodel.SessionId) (session.Transcript, bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT transcript FROM sessions WHERE id = ?`, id.String()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Transcript{}, false, nil
	}
	if err != nil {
		return session.Transcript{}, false, pierr.Wrap(pierr.Io, err, "sqlstore: load session %s", id.String())
	}

	var messages []chatmodel.ChatMessage
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		return session.Transcript{}, false, pierr.Wrap(pierr.Json, err, "sqlstore: decode transcript for session %s", id.String())
	}
	return session.Transcript{Messages: messages}, true, nil
}

// Save upserts the transcript for id inside a transaction, so concurrent
// readers never observe a partially written row.
func (s *Store) Save(id chatmodel.SessionId, transcript session.Transcript) error {
	raw, err := json.Marshal(transcript.Messages)
	if err != nil {
		return pierr.Wrap(pierr.Json, err, "sqlstore: encode transcript for session %s", id.String())
	}

	tx, err := s.db.Begin()
	if err != nil {
		return pierr.Wrap(pierr.Io, err, "sqlstore: begin transaction")
	}
	defer tx.Rollback()

	const upsert = `
		INSERT INTO sessions (id, transcript, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT (id) DO UPDATE SET transcript = excluded.transcript, updated_at = excluded.updated_at
	`
	if _, err := tx.Exec(upsert, id.String(), string(raw)); err != nil {
		return pierr.Wrap(pierr.Io, err, "sqlstore: save session %s", id.String())
	}

	if err := tx.Commit(); err != nil {
		return pierr.Wrap(pierr.Io, err, "sqlstore: commit session %s", id.String())
	}
	return nil
}
