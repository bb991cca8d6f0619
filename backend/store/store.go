// Package store persists rendered session summaries in a local sqlite
// database so a later session can recover them by session id.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("session not found")

type Record struct {
	ID        string
	SessionID string
	Version   string
	Markdown  string
	Summary   []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Store struct {
	database *sql.DB
	dbPath   string
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	database, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	database.SetMaxOpenConns(1)

	store := &Store{
		database: database,
		dbPath:   dbPath,
	}
	if err := store.migrate(context.Background()); err != nil {
		_ = database.Close()
		return nil, err
	}

	return store, nil
}

func (store *Store) Close() error {
	return store.database.Close()
}

func (store *Store) DBPath() string {
	return store.dbPath
}

func (store *Store) migrate(ctx context.Context) error {
	statements := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS summaries (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL UNIQUE,
			version TEXT NOT NULL,
			markdown TEXT NOT NULL,
			summary_json TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_summaries_created_at ON summaries(created_at);`,
	}

	for _, statement := range statements {
		if _, err := store.database.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}

// SaveSummary inserts or replaces the summary for a session. Repeated saves
// for the same session keep the original creation time.
func (store *Store) SaveSummary(ctx context.Context, record *Record) error {
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := store.database.ExecContext(ctx,
		`INSERT INTO summaries (id, session_id, version, markdown, summary_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
			version = excluded.version,
			markdown = excluded.markdown,
			summary_json = excluded.summary_json,
			updated_at = excluded.updated_at;`,
		uuid.NewString(), record.SessionID, record.Version,
		record.Markdown, string(record.Summary), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save summary for session %s: %w", record.SessionID, err)
	}
	return nil
}

func (store *Store) GetSummary(ctx context.Context, sessionID string) (*Record, error) {
	row := store.database.QueryRowContext(ctx,
		`SELECT id, session_id, version, markdown, summary_json, created_at, updated_at
		 FROM summaries WHERE session_id = ?;`, sessionID)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load summary for session %s: %w", sessionID, err)
	}
	return record, nil
}

// ListSessions returns all stored summaries, newest first.
func (store *Store) ListSessions(ctx context.Context) ([]*Record, error) {
	rows, err := store.database.QueryContext(ctx,
		`SELECT id, session_id, version, markdown, summary_json, created_at, updated_at
		 FROM summaries ORDER BY created_at DESC, session_id DESC;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (store *Store) DeleteSession(ctx context.Context, sessionID string) error {
	result, err := store.database.ExecContext(ctx,
		`DELETE FROM summaries WHERE session_id = ?;`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var record Record
	var summaryJSON, createdAt, updatedAt string

	err := row.Scan(&record.ID, &record.SessionID, &record.Version,
		&record.Markdown, &summaryJSON, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.Summary = []byte(summaryJSON)
	record.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	record.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &record, nil
}
