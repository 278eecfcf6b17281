package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/futig/parallel-universe/internal/prefs"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS client_preferences (
	client_id  TEXT NOT NULL,
	pref_key   TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (client_id, pref_key)
)`

var _ prefs.Storage = &PreferenceSQLite{}

// PreferenceSQLite implements prefs.Storage on an embedded SQLite database.
type PreferenceSQLite struct {
	db *sql.DB
}

// OpenPreferenceSQLite opens the database at path, or a private in-memory
// database when path is ":memory:", and creates the schema.
func OpenPreferenceSQLite(ctx context.Context, path string) (*PreferenceSQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := ":memory:"
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}

	return &PreferenceSQLite{db: db}, nil
}

func (r *PreferenceSQLite) Close() error {
	return r.db.Close()
}

func (r *PreferenceSQLite) Get(ctx context.Context, clientID string, key prefs.Key) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM client_preferences WHERE client_id = ? AND pref_key = ?`,
		clientID, string(key),
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", prefs.ErrNotFound
		}
		return "", fmt.Errorf("query preference: %w", err)
	}

	return value, nil
}

func (r *PreferenceSQLite) Set(ctx context.Context, clientID string, key prefs.Key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO client_preferences (client_id, pref_key, value, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (client_id, pref_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		clientID, string(key), value,
	)
	if err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}

	return nil
}

func (r *PreferenceSQLite) Delete(ctx context.Context, clientID string, key prefs.Key) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM client_preferences WHERE client_id = ? AND pref_key = ?`,
		clientID, string(key),
	)
	if err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}

	return nil
}
