package repository

import (
	"context"
	"database/sql"
	"time"

	"web_portal/internal/models"
)

// TokenKey names the durable entry holding the bearer token.
const TokenKey = "auth_token"

// TokenStore is the durable storage capability for the bearer token.
// Get reports ok=false when nothing is stored.
type TokenStore interface {
	Get(ctx context.Context) (token string, ok bool, err error)
	Set(ctx context.Context, token string) error
	Remove(ctx context.Context) error
}

type EventRepo interface {
	Append(ctx context.Context, e models.SessionEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.SessionEvent, error)
}

type Repository struct {
	Tokens    TokenStore
	EventRepo EventRepo
}

// NewRepository wires sqlite-backed repositories. When persistTokens is false
// (no browser-like context) the token store is the no-op capability.
func NewRepository(db *sql.DB, persistTokens bool) *Repository {
	var tokens TokenStore = NoopTokenStore{}
	if persistTokens {
		tokens = NewTokenSQLite(db, TokenKey)
	}
	return &Repository{
		Tokens:    tokens,
		EventRepo: NewEventSQLite(db),
	}
}
