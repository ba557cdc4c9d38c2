package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// GetAppState returns the JSON document stored under key.
func (d *DB) GetAppState(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := d.Pool.QueryRow(ctx, `SELECT state FROM app_states WHERE key = $1`, key).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to get state: %w", err)
	}
	return data, nil
}

// UpsertAppState stores data under key, replacing any previous document.
func (d *DB) UpsertAppState(ctx context.Context, key string, data []byte) error {
	_, err := d.Pool.Exec(ctx, `
		INSERT INTO app_states (key, state, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET state = EXCLUDED.state, updated_at = NOW()
	`, key, data)
	if err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// DeleteAppState removes the state stored under key.
func (d *DB) DeleteAppState(ctx context.Context, key string) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM app_states WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete state: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrStateNotFound
	}
	return nil
}

// CountAppStates returns the number of stored states.
func (d *DB) CountAppStates(ctx context.Context) (int, error) {
	var n int
	if err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM app_states`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count states: %w", err)
	}
	return n, nil
}

// PurgeAppStates deletes states not updated since before and returns how
// many were removed.
func (d *DB) PurgeAppStates(ctx context.Context, before time.Time) (int64, error) {
	result, err := d.Pool.Exec(ctx, `DELETE FROM app_states WHERE updated_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to purge states: %w", err)
	}
	return result.RowsAffected(), nil
}
