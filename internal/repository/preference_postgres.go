package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/parallel-universe/internal/prefs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ prefs.Storage = &PreferencePostgres{}

// PreferencePostgres implements prefs.Storage using PostgreSQL
type PreferencePostgres struct {
	db *pgxpool.Pool
}

func NewPreferencePostgres(db *pgxpool.Pool) *PreferencePostgres {
	return &PreferencePostgres{
		db: db,
	}
}

func (r *PreferencePostgres) Get(ctx context.Context, clientID string, key prefs.Key) (string, error) {
	id, err := uuid.Parse(clientID)
	if err != nil {
		return "", fmt.Errorf("invalid client ID: %w", err)
	}

	var value string
	err = r.db.QueryRow(ctx,
		`SELECT value FROM client_preferences WHERE client_id = $1 AND pref_key = $2`,
		id, string(key),
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", prefs.ErrNotFound
		}
		return "", fmt.Errorf("query preference: %w", err)
	}

	return value, nil
}

func (r *PreferencePostgres) Set(ctx context.Context, clientID string, key prefs.Key, value string) error {
	id, err := uuid.Parse(clientID)
	if err != nil {
		return fmt.Errorf("invalid client ID: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO client_preferences (client_id, pref_key, value, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (client_id, pref_key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		id, string(key), value,
	)
	if err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}

	return nil
}

func (r *PreferencePostgres) Delete(ctx context.Context, clientID string, key prefs.Key) error {
	id, err := uuid.Parse(clientID)
	if err != nil {
		return fmt.Errorf("invalid client ID: %w", err)
	}

	_, err = r.db.Exec(ctx,
		`DELETE FROM client_preferences WHERE client_id = $1 AND pref_key = $2`,
		id, string(key),
	)
	if err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}

	return nil
}
