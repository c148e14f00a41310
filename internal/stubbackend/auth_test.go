package stubbackend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"web_portal/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// memUsers is an in-memory UserStore.
type memUsers struct {
	mu     sync.Mutex
	byName map[string]userRecord
}

func newMemUsers() *memUsers { return &memUsers{byName: map[string]userRecord{}} }

func (m *memUsers) Create(ctx context.Context, u userRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[u.Username]; ok {
		return ErrUsernameTaken
	}
	m.byName[u.Username] = u
	return nil
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (*userRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byName[username]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*userRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byName {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, nil
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	svc := NewAuthService(newMemUsers(), "test-secret", time.Hour)
	ctx := context.Background()

	reg, err := svc.Register(ctx, models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "Secret123"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.User.ID == "" || reg.User.CreatedAt == "" || reg.Token == "" {
		t.Fatalf("incomplete result: %+v", reg)
	}

	if _, err := svc.Register(ctx, models.RegisterRequest{Username: "alice", Email: "x@y.z", Password: "Other123"}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	login, err := svc.Login(ctx, models.LoginRequest{Username: "alice", Password: "Secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User != reg.User {
		t.Fatalf("login user %+v differs from registered %+v", login.User, reg.User)
	}
	id, err := svc.ParseToken(login.Token)
	if err != nil || id != reg.User.ID {
		t.Fatalf("ParseToken = (%q, %v), want %q", id, err, reg.User.ID)
	}
}

func TestAuthService_Login_Rejections(t *testing.T) {
	users := newMemUsers()
	svc := NewAuthService(users, "test-secret", time.Hour)
	ctx := context.Background()
	if _, err := svc.Register(ctx, models.RegisterRequest{Username: "alice", Email: "a@x.io", Password: "Secret123"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, req := range []models.LoginRequest{
		{Username: "alice", Password: "wrongpass"},
		{Username: "nobody", Password: "Secret123"},
	} {
		if _, err := svc.Login(ctx, req); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("Login(%q) expected ErrInvalidCredentials, got %v", req.Username, err)
		}
	}

	if stored, _ := users.GetByUsername(ctx, "alice"); stored.PasswordHash == "Secret123" {
		t.Fatal("password stored in clear text")
	}
}

func TestAuthService_ParseToken_Invalid(t *testing.T) {
	svc := NewAuthService(newMemUsers(), "test-secret", time.Minute)
	other := NewAuthService(newMemUsers(), "other-secret", time.Minute)

	foreign, err := other.issueToken("u1")
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}
	if _, err := svc.ParseToken(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}

	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }
	tok, err := svc.issueToken("u1")
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}
	svc.now = func() time.Time { return start.Add(2 * time.Minute) }
	if _, err := svc.ParseToken(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := svc.ParseToken(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg none, got %v", err)
	}
}

func TestAuthService_Refresh(t *testing.T) {
	svc := NewAuthService(newMemUsers(), "test-secret", time.Hour)
	ctx := context.Background()
	reg, err := svc.Register(ctx, models.RegisterRequest{Username: "alice", Email: "a@x.io", Password: "Secret123"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	res, err := svc.Refresh(ctx, reg.User.ID)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if res.Token == "" || res.Token == reg.Token {
		t.Fatalf("expected a new token, got %q", res.Token)
	}
	if _, err := svc.Refresh(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := hashPassword("   "); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}
