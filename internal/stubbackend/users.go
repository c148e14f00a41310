package stubbackend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"web_portal/internal/models"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrUsernameTaken is returned when a username is already registered.
var ErrUsernameTaken = errors.New("username already exists")

// userRecord is a stored account including its password hash.
type userRecord struct {
	models.User
	PasswordHash string
}

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, u userRecord) error
	GetByUsername(ctx context.Context, username string) (*userRecord, error)
	GetByID(ctx context.Context, id string) (*userRecord, error)
}

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ UserStore = (*UserRepository)(nil)

const (
	insertUserSQL           = `INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`
	selectUserColumns       = `SELECT id, username, email, password_hash, created_at FROM users`
	selectUserByUsernameSQL = selectUserColumns + ` WHERE username = ?`
	selectUserByIDSQL       = selectUserColumns + ` WHERE id = ?`
)

// Create inserts a new account.
func (r *UserRepository) Create(ctx context.Context, u userRecord) error {
	_, err := r.db.ExecContext(ctx, insertUserSQL, u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	return nil
}

// GetByUsername fetches an account by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*userRecord, error) {
	return r.getOne(ctx, selectUserByUsernameSQL, username)
}

// GetByID fetches an account by id. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*userRecord, error) {
	return r.getOne(ctx, selectUserByIDSQL, id)
}

func (r *UserRepository) getOne(ctx context.Context, query, arg string) (*userRecord, error) {
	var u userRecord
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user %q: %w", arg, err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
