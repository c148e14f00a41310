package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// TokenSQLite keeps the token as a single row of the kv_store table.
type TokenSQLite struct {
	db  *sql.DB
	key string
}

func NewTokenSQLite(db *sql.DB, key string) *TokenSQLite {
	return &TokenSQLite{db: db, key: key}
}

var _ TokenStore = (*TokenSQLite)(nil)

const (
	selectValueSQL = `SELECT value FROM kv_store WHERE key = ?`
	upsertValueSQL = `INSERT INTO kv_store (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	deleteValueSQL = `DELETE FROM kv_store WHERE key = ?`
)

func (r *TokenSQLite) Get(ctx context.Context) (string, bool, error) {
	var v string
	err := r.db.QueryRowContext(ctx, selectValueSQL, r.key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("select %s: %w", r.key, err)
	}
	return v, true, nil
}

func (r *TokenSQLite) Set(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, upsertValueSQL, r.key, token); err != nil {
		return fmt.Errorf("upsert %s: %w", r.key, err)
	}
	return nil
}

// Remove deletes the entry; removing a missing entry is not an error.
func (r *TokenSQLite) Remove(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, deleteValueSQL, r.key); err != nil {
		return fmt.Errorf("delete %s: %w", r.key, err)
	}
	return nil
}

// NoopTokenStore stands in for durable storage outside a browser-like
// context: nothing is ever stored.
type NoopTokenStore struct{}

func (NoopTokenStore) Get(context.Context) (string, bool, error) { return "", false, nil }
func (NoopTokenStore) Set(context.Context, string) error         { return nil }
func (NoopTokenStore) Remove(context.Context) error              { return nil }
