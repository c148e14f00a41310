package service

import (
	"context"

	"web_portal"
	"web_portal/internal/logger"
	"web_portal/internal/models"
	"web_portal/internal/repository"
	"web_portal/internal/session"
)

// Backend is the auth backend as seen through the API client.
type Backend interface {
	Login(ctx context.Context, req models.LoginRequest) web_portal.Response[models.AuthResult]
	Register(ctx context.Context, req models.RegisterRequest) web_portal.Response[models.AuthResult]
	Logout(ctx context.Context) web_portal.Response[struct{}]
	GetCurrentUser(ctx context.Context) web_portal.Response[models.User]
	RefreshToken(ctx context.Context) web_portal.Response[models.TokenResult]
}

// Authorization drives the session through the backend.
type Authorization interface {
	Login(ctx context.Context, req models.LoginRequest) web_portal.Response[models.AuthResult]
	Register(ctx context.Context, req models.RegisterRequest) web_portal.Response[models.AuthResult]
	Logout(ctx context.Context) web_portal.Response[struct{}]
	Restore(ctx context.Context) web_portal.Response[models.User]
	Refresh(ctx context.Context) web_portal.Response[models.TokenResult]
}

// Session exposes read access to the session store.
type Session interface {
	State() models.SessionState
	Subscribe(fn session.Listener) (unsubscribe func())
}

// EventLog exposes the session activity log with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.SessionEvent, error)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Session
	EventLog
}

// NewService wires the store, backend and repositories into concrete services.
func NewService(repos *repository.Repository, store *session.Store, backend Backend, log *logger.Logger) *Service {
	return &Service{
		Authorization: NewAuthService(store, backend, repos.EventRepo, log),
		Session:       store,
		EventLog:      NewEventLogService(repos.EventRepo),
	}
}
