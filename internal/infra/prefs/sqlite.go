// Package prefs is the client-local persistent storage: user preferences
// and the auth token, kept in a small SQLite file.
package prefs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"prapp-client/internal/domain/model"
	"prapp-client/internal/domain/ports/store"
)

// Fixed keys in the kv table. The token key is part of the product
// contract: external tooling reads the same slot.
const (
	keyPreferences = "preferences"
	keyAuthToken   = "auth_token"
)

// Compile-time check
var _ store.PreferenceStore = (*SQLiteStore)(nil)

// SQLiteStore implements store.PreferenceStore. Writes are last-writer-wins
// with no merge resolution; this is single-user preference data.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping storage: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteStore) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, unixepoch())
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Load returns stored preferences, falling back to defaults when nothing
// has been saved yet.
func (s *SQLiteStore) Load(ctx context.Context) (model.Preferences, error) {
	raw, err := s.get(ctx, keyPreferences)
	if err != nil || raw == "" {
		return model.DefaultPreferences(), err
	}
	var prefs model.Preferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		// A corrupt row should not brick the client.
		return model.DefaultPreferences(), fmt.Errorf("decode preferences: %w", err)
	}
	return prefs, nil
}

func (s *SQLiteStore) Save(ctx context.Context, prefs model.Preferences) error {
	b, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	return s.set(ctx, keyPreferences, string(b))
}

func (s *SQLiteStore) Token(ctx context.Context) (string, error) {
	return s.get(ctx, keyAuthToken)
}

func (s *SQLiteStore) SetToken(ctx context.Context, token string) error {
	return s.set(ctx, keyAuthToken, token)
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
