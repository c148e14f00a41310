package service

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"web_portal"
	"web_portal/internal/models"
	"web_portal/internal/session"
)

// mockBackend is a lightweight in-test Backend.
type mockBackend struct {
	LoginFn    func(models.LoginRequest) web_portal.Response[models.AuthResult]
	RegisterFn func(models.RegisterRequest) web_portal.Response[models.AuthResult]
	MeFn       func() web_portal.Response[models.User]
	RefreshFn  func() web_portal.Response[models.TokenResult]

	tokens      *memTokens
	logoutCalls int
}

func (m *mockBackend) Login(ctx context.Context, req models.LoginRequest) web_portal.Response[models.AuthResult] {
	return m.LoginFn(req)
}
func (m *mockBackend) Register(ctx context.Context, req models.RegisterRequest) web_portal.Response[models.AuthResult] {
	return m.RegisterFn(req)
}
func (m *mockBackend) Logout(ctx context.Context) web_portal.Response[struct{}] {
	m.logoutCalls++
	if m.tokens != nil {
		_ = m.tokens.Remove(ctx)
	}
	return web_portal.OK(struct{}{}, 0)
}
func (m *mockBackend) GetCurrentUser(ctx context.Context) web_portal.Response[models.User] {
	return m.MeFn()
}
func (m *mockBackend) RefreshToken(ctx context.Context) web_portal.Response[models.TokenResult] {
	return m.RefreshFn()
}

// memTokens is an in-memory TokenStore.
type memTokens struct {
	token  string
	has    bool
	setErr error
}

func (m *memTokens) Get(ctx context.Context) (string, bool, error) { return m.token, m.has, nil }
func (m *memTokens) Set(ctx context.Context, token string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.token, m.has = token, true
	return nil
}
func (m *memTokens) Remove(ctx context.Context) error {
	m.token, m.has = "", false
	return nil
}

var alice = models.User{ID: "u1", Username: "alice", Email: "alice@example.com", CreatedAt: "2024-01-01T00:00:00Z"}

type fixture struct {
	svc     *AuthService
	store   *session.Store
	tokens  *memTokens
	backend *mockBackend
	events  *fakeEventRepo
	loading []bool
}

func newFixture(t *testing.T, tokens *memTokens) *fixture {
	t.Helper()
	store, err := session.New(context.Background(), tokens, nil)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	f := &fixture{store: store, tokens: tokens, backend: &mockBackend{tokens: tokens}, events: &fakeEventRepo{}}
	store.Subscribe(func(s models.SessionState) { f.loading = append(f.loading, s.Loading) })
	f.loading = nil
	f.svc = NewAuthService(store, f.backend, f.events, nil)
	return f
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newFixture(t, &memTokens{})
	f.backend.LoginFn = func(req models.LoginRequest) web_portal.Response[models.AuthResult] {
		if req.Username != "alice" {
			t.Errorf("unexpected username %q", req.Username)
		}
		return web_portal.OK(models.AuthResult{User: alice, Token: "abc"}, http.StatusOK)
	}

	resp := f.svc.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "Secret123"})
	if !resp.Ok() {
		t.Fatalf("expected success, got %q", resp.Error)
	}

	st := f.store.State()
	if st.User == nil || st.User.Username != "alice" || st.Token != "abc" || st.Loading {
		t.Fatalf("unexpected state: %+v", st)
	}
	if f.tokens.token != "abc" {
		t.Fatalf("expected persisted token abc, got %q", f.tokens.token)
	}
	if !reflect.DeepEqual(f.loading, []bool{true, false}) {
		t.Fatalf("expected loading true then false, got %v", f.loading)
	}
	if got := f.events.types(); !reflect.DeepEqual(got, []string{models.EventLogin}) {
		t.Fatalf("unexpected events: %v", got)
	}
}

func TestAuthService_Login_RejectedLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, &memTokens{token: "old", has: true})
	f.backend.LoginFn = func(models.LoginRequest) web_portal.Response[models.AuthResult] {
		return web_portal.Fail[models.AuthResult]("invalid credentials", http.StatusUnauthorized)
	}

	resp := f.svc.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "wrongpass"})
	if resp.Error != "invalid credentials" || resp.Status != http.StatusUnauthorized {
		t.Fatalf("expected backend error to pass through, got %+v", resp)
	}
	st := f.store.State()
	if st.User != nil || st.Token != "old" || st.Loading {
		t.Fatalf("expected prior state with loading reset, got %+v", st)
	}
	if got := f.events.types(); !reflect.DeepEqual(got, []string{models.EventLoginFailed}) {
		t.Fatalf("unexpected events: %v", got)
	}
}

func TestAuthService_Login_PersistFailure(t *testing.T) {
	f := newFixture(t, &memTokens{setErr: errors.New("disk full")})
	f.backend.LoginFn = func(models.LoginRequest) web_portal.Response[models.AuthResult] {
		return web_portal.OK(models.AuthResult{User: alice, Token: "abc"}, http.StatusOK)
	}

	resp := f.svc.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "Secret123"})
	if resp.Ok() || resp.Status != http.StatusInternalServerError {
		t.Fatalf("expected persist failure, got %+v", resp)
	}
	st := f.store.State()
	if st.User != nil || st.Token != "" || st.Loading {
		t.Fatalf("state must not change when the token cannot be stored: %+v", st)
	}
}

func TestAuthService_Register(t *testing.T) {
	f := newFixture(t, &memTokens{})
	f.backend.RegisterFn = func(req models.RegisterRequest) web_portal.Response[models.AuthResult] {
		if req.Email != "alice@example.com" {
			t.Errorf("unexpected email %q", req.Email)
		}
		return web_portal.OK(models.AuthResult{User: alice, Token: "reg"}, http.StatusCreated)
	}

	resp := f.svc.Register(context.Background(), models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "Secret123"})
	if !resp.Ok() {
		t.Fatalf("expected success, got %q", resp.Error)
	}
	if st := f.store.State(); st.Token != "reg" || st.User == nil {
		t.Fatalf("unexpected state: %+v", st)
	}

	f.backend.RegisterFn = func(models.RegisterRequest) web_portal.Response[models.AuthResult] {
		return web_portal.Fail[models.AuthResult]("username already exists", http.StatusConflict)
	}
	resp = f.svc.Register(context.Background(), models.RegisterRequest{Username: "alice"})
	if resp.Status != http.StatusConflict {
		t.Fatalf("expected 409, got %+v", resp)
	}
	if st := f.store.State(); st.Token != "reg" {
		t.Fatalf("failed registration must keep the current session, got %+v", st)
	}
	want := []string{models.EventRegister, models.EventRegisterFailed}
	if got := f.events.types(); !reflect.DeepEqual(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
}

func TestAuthService_Logout(t *testing.T) {
	f := newFixture(t, &memTokens{})
	if err := f.store.SetUser(context.Background(), &alice, "abc"); err != nil {
		t.Fatalf("SetUser: %v", err)
	}

	if resp := f.svc.Logout(context.Background()); !resp.Ok() {
		t.Fatalf("logout must succeed, got %q", resp.Error)
	}
	st := f.store.State()
	if st.User != nil || st.Token != "" || st.Loading {
		t.Fatalf("expected cleared state, got %+v", st)
	}
	if f.tokens.has {
		t.Fatal("expected token removed from storage")
	}
	if f.backend.logoutCalls != 1 {
		t.Fatalf("expected one client logout, got %d", f.backend.logoutCalls)
	}

	// Logging out twice is harmless.
	if resp := f.svc.Logout(context.Background()); !resp.Ok() {
		t.Fatalf("second logout must succeed, got %q", resp.Error)
	}
}

func TestAuthService_Restore(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		f := newFixture(t, &memTokens{})
		f.backend.MeFn = func() web_portal.Response[models.User] {
			t.Fatal("backend must not be called without a token")
			return web_portal.Response[models.User]{}
		}
		resp := f.svc.Restore(context.Background())
		if resp.Status != http.StatusUnauthorized || resp.Error != msgNoStoredSession {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("token accepted", func(t *testing.T) {
		f := newFixture(t, &memTokens{token: "abc", has: true})
		f.backend.MeFn = func() web_portal.Response[models.User] { return web_portal.OK(alice, http.StatusOK) }

		resp := f.svc.Restore(context.Background())
		if !resp.Ok() {
			t.Fatalf("expected success, got %q", resp.Error)
		}
		st := f.store.State()
		if st.User == nil || st.User.ID != "u1" || st.Token != "abc" || st.Loading {
			t.Fatalf("unexpected state: %+v", st)
		}
		if got := f.events.types(); !reflect.DeepEqual(got, []string{models.EventRestore}) {
			t.Fatalf("unexpected events: %v", got)
		}
	})

	t.Run("token rejected", func(t *testing.T) {
		f := newFixture(t, &memTokens{token: "stale", has: true})
		f.backend.MeFn = func() web_portal.Response[models.User] {
			return web_portal.Fail[models.User]("invalid token", http.StatusUnauthorized)
		}
		resp := f.svc.Restore(context.Background())
		if resp.Error != "invalid token" {
			t.Fatalf("unexpected response: %+v", resp)
		}
		if st := f.store.State(); st.Token != "stale" || st.User != nil || st.Loading {
			t.Fatalf("unexpected state: %+v", st)
		}
	})
}

func TestAuthService_Refresh(t *testing.T) {
	f := newFixture(t, &memTokens{})
	if err := f.store.SetUser(context.Background(), &alice, "abc"); err != nil {
		t.Fatalf("SetUser: %v", err)
	}
	f.backend.RefreshFn = func() web_portal.Response[models.TokenResult] {
		return web_portal.OK(models.TokenResult{Token: "def"}, http.StatusOK)
	}

	if resp := f.svc.Refresh(context.Background()); !resp.Ok() {
		t.Fatalf("expected success, got %q", resp.Error)
	}
	st := f.store.State()
	if st.Token != "def" || st.User == nil || st.User.Username != "alice" {
		t.Fatalf("expected user kept with new token, got %+v", st)
	}
	if f.tokens.token != "def" {
		t.Fatalf("expected persisted token def, got %q", f.tokens.token)
	}

	f.backend.RefreshFn = func() web_portal.Response[models.TokenResult] {
		return web_portal.Fail[models.TokenResult]("Network error", 0)
	}
	if resp := f.svc.Refresh(context.Background()); resp.Ok() {
		t.Fatal("expected failure")
	}
	if st := f.store.State(); st.Token != "def" || st.Loading {
		t.Fatalf("failed refresh must keep the session, got %+v", st)
	}
}

func TestAuthService_EventAppendFailureIsSwallowed(t *testing.T) {
	f := newFixture(t, &memTokens{})
	f.events.appendErr = errors.New("db locked")
	f.backend.LoginFn = func(models.LoginRequest) web_portal.Response[models.AuthResult] {
		return web_portal.OK(models.AuthResult{User: alice, Token: "abc"}, http.StatusOK)
	}

	if resp := f.svc.Login(context.Background(), models.LoginRequest{Username: "alice", Password: "Secret123"}); !resp.Ok() {
		t.Fatalf("event log failures must not fail the login, got %q", resp.Error)
	}
}
