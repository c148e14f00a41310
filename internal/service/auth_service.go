package service

import (
	"context"
	"net/http"
	"strings"

	"web_portal"
	"web_portal/internal/logger"
	"web_portal/internal/models"
	"web_portal/internal/repository"
	"web_portal/internal/session"
)

// Messages for failures that never reach the backend.
const (
	msgNoStoredSession = "no stored session"
	msgPersistFailed   = "failed to persist session"
)

// AuthService runs login, registration and token upkeep against the backend
// and mirrors every outcome into the session store.
type AuthService struct {
	store   *session.Store
	backend Backend
	events  repository.EventRepo
	log     *logger.Logger
}

func NewAuthService(store *session.Store, backend Backend, events repository.EventRepo, log *logger.Logger) *AuthService {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthService{store: store, backend: backend, events: events, log: log}
}

var _ Authorization = (*AuthService)(nil)

// Login authenticates and, on success, makes the user current.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) web_portal.Response[models.AuthResult] {
	s.store.SetLoading(true)
	resp := s.backend.Login(ctx, req)
	if !resp.Ok() {
		s.store.SetLoading(false)
		s.record(ctx, models.EventLoginFailed, "login rejected", map[string]any{
			"username": req.Username, "status": resp.Status, "error": resp.Error,
		})
		return resp
	}
	if err := s.store.SetUser(ctx, &resp.Data.User, resp.Data.Token); err != nil {
		return s.persistFailed(ctx, models.EventLoginFailed, req.Username, err, resp)
	}
	s.record(ctx, models.EventLogin, "user logged in", map[string]any{
		"username": resp.Data.User.Username, "user_id": resp.Data.User.ID,
	})
	return resp
}

// Register creates an account; the new user becomes current.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) web_portal.Response[models.AuthResult] {
	s.store.SetLoading(true)
	resp := s.backend.Register(ctx, req)
	if !resp.Ok() {
		s.store.SetLoading(false)
		s.record(ctx, models.EventRegisterFailed, "registration rejected", map[string]any{
			"username": req.Username, "status": resp.Status, "error": resp.Error,
		})
		return resp
	}
	if err := s.store.SetUser(ctx, &resp.Data.User, resp.Data.Token); err != nil {
		return s.persistFailed(ctx, models.EventRegisterFailed, req.Username, err, resp)
	}
	s.record(ctx, models.EventRegister, "user registered", map[string]any{
		"username": resp.Data.User.Username, "user_id": resp.Data.User.ID,
	})
	return resp
}

// Logout forgets the token and the user. It always succeeds.
func (s *AuthService) Logout(ctx context.Context) web_portal.Response[struct{}] {
	prev := s.store.State()
	resp := s.backend.Logout(ctx)
	if err := s.store.ClearUser(ctx); err != nil {
		s.log.Warnw("session_logout_clear_failed", "err", err)
	}
	meta := map[string]any{}
	if prev.User != nil {
		meta["username"] = prev.User.Username
	}
	s.record(ctx, models.EventLogout, "user logged out", meta)
	return resp
}

// Restore rehydrates the user behind a persisted token.
func (s *AuthService) Restore(ctx context.Context) web_portal.Response[models.User] {
	cur := s.store.State()
	if cur.Token == "" {
		return web_portal.Fail[models.User](msgNoStoredSession, http.StatusUnauthorized)
	}

	s.store.SetLoading(true)
	resp := s.backend.GetCurrentUser(ctx)
	if !resp.Ok() {
		s.store.SetLoading(false)
		s.record(ctx, models.EventRestoreFailed, "session restore rejected", map[string]any{
			"status": resp.Status, "error": resp.Error,
		})
		return resp
	}
	if err := s.store.SetUser(ctx, resp.Data, cur.Token); err != nil {
		s.store.SetLoading(false)
		s.log.Errorw("session_persist_failed", "op", "restore", "err", err)
		return web_portal.Fail[models.User](msgPersistFailed, http.StatusInternalServerError)
	}
	s.record(ctx, models.EventRestore, "session restored", map[string]any{
		"username": resp.Data.Username, "user_id": resp.Data.ID,
	})
	return resp
}

// Refresh swaps the current token for a fresh one, keeping the user.
func (s *AuthService) Refresh(ctx context.Context) web_portal.Response[models.TokenResult] {
	s.store.SetLoading(true)
	resp := s.backend.RefreshToken(ctx)
	if !resp.Ok() {
		s.store.SetLoading(false)
		s.record(ctx, models.EventRefreshFailed, "token refresh rejected", map[string]any{
			"status": resp.Status, "error": resp.Error,
		})
		return resp
	}
	cur := s.store.State()
	if err := s.store.SetUser(ctx, cur.User, resp.Data.Token); err != nil {
		s.store.SetLoading(false)
		s.log.Errorw("session_persist_failed", "op", "refresh", "err", err)
		return web_portal.Fail[models.TokenResult](msgPersistFailed, http.StatusInternalServerError)
	}
	s.record(ctx, models.EventRefresh, "token refreshed", nil)
	return resp
}

func (s *AuthService) persistFailed(ctx context.Context, typ, username string, err error, resp web_portal.Response[models.AuthResult]) web_portal.Response[models.AuthResult] {
	s.store.SetLoading(false)
	s.log.Errorw("session_persist_failed", "op", typ, "username", username, "err", err)
	s.record(ctx, typ, "session could not be persisted", map[string]any{
		"username": username, "status": resp.Status, "error": msgPersistFailed,
	})
	return web_portal.Fail[models.AuthResult](msgPersistFailed, http.StatusInternalServerError)
}

// record appends an activity event. Failures are logged and swallowed.
func (s *AuthService) record(ctx context.Context, typ, description string, meta map[string]any) {
	s.log.Infow("session_"+strings.ToLower(typ), "meta", meta)
	if s.events == nil {
		return
	}
	var m any
	if len(meta) > 0 {
		m = meta
	}
	if err := s.events.Append(ctx, models.SessionEvent{Type: typ, Description: description, Metadata: m}); err != nil {
		s.log.Warnw("session_event_append_failed", "type", typ, "err", err)
	}
}
