package stubbackend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"web_portal/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Domain errors for auth flows.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrEmptyPassword      = errors.New("password is empty")
)

const defaultTokenTTL = time.Hour

// createdAtLayout matches what browsers produce for Date.toISOString.
const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

// AuthService registers users and issues HS256 tokens.
type AuthService struct {
	users  UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(users UserStore, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{users: users, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Claims defines JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Register hashes the password, stores the account and logs it in.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResult, error) {
	hash, err := hashPassword(req.Password)
	if err != nil {
		return models.AuthResult{}, err
	}
	rec := userRecord{
		User: models.User{
			ID:        uuid.NewString(),
			Username:  req.Username,
			Email:     req.Email,
			CreatedAt: s.now().UTC().Format(createdAtLayout),
		},
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, rec); err != nil {
		return models.AuthResult{}, err
	}
	token, err := s.issueToken(rec.ID)
	if err != nil {
		return models.AuthResult{}, err
	}
	return models.AuthResult{User: rec.User, Token: token}, nil
}

// Login checks credentials. Unknown users and wrong passwords look the same.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (models.AuthResult, error) {
	u, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return models.AuthResult{}, err
	}
	if u == nil || verifyPassword(u.PasswordHash, req.Password) != nil {
		return models.AuthResult{}, ErrInvalidCredentials
	}
	token, err := s.issueToken(u.ID)
	if err != nil {
		return models.AuthResult{}, err
	}
	return models.AuthResult{User: u.User, Token: token}, nil
}

// CurrentUser returns the account behind a user id taken from a token.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if u == nil {
		return models.User{}, ErrUserNotFound
	}
	return u.User, nil
}

// Refresh issues a new token for an existing account.
func (s *AuthService) Refresh(ctx context.Context, userID string) (models.TokenResult, error) {
	if _, err := s.CurrentUser(ctx, userID); err != nil {
		return models.TokenResult{}, err
	}
	token, err := s.issueToken(userID)
	if err != nil {
		return models.TokenResult{}, err
	}
	return models.TokenResult{Token: token}, nil
}

// ParseToken validates a token and returns its user id.
func (s *AuthService) ParseToken(accessToken string) (string, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}

func (s *AuthService) issueToken(userID string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			// Distinct tokens even within the same second.
			ID: uuid.NewString(),
		},
		UserID: userID,
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", ErrEmptyPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
