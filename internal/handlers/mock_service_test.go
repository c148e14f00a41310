package handlers

import (
	"context"
	"testing"
	"time"

	"web_portal"
	"web_portal/internal/models"
	"web_portal/internal/service"
	"web_portal/internal/session"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	loginResp    web_portal.Response[models.AuthResult]
	registerResp web_portal.Response[models.AuthResult]
	restoreResp  web_portal.Response[models.User]
	refreshResp  web_portal.Response[models.TokenResult]

	lastLogin    models.LoginRequest
	lastRegister models.RegisterRequest
	loginCalls   int
	regCalls     int
	logoutCalls  int
}

func (m *mockAuth) Login(ctx context.Context, req models.LoginRequest) web_portal.Response[models.AuthResult] {
	m.loginCalls++
	m.lastLogin = req
	return m.loginResp
}
func (m *mockAuth) Register(ctx context.Context, req models.RegisterRequest) web_portal.Response[models.AuthResult] {
	m.regCalls++
	m.lastRegister = req
	return m.registerResp
}
func (m *mockAuth) Logout(ctx context.Context) web_portal.Response[struct{}] {
	m.logoutCalls++
	return web_portal.OK(struct{}{}, 0)
}
func (m *mockAuth) Restore(ctx context.Context) web_portal.Response[models.User] {
	return m.restoreResp
}
func (m *mockAuth) Refresh(ctx context.Context) web_portal.Response[models.TokenResult] {
	return m.refreshResp
}

type mockEventLog struct {
	resp     []models.SessionEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.SessionEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	store, err := session.New(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	return store
}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewHandler(s, "", nil).InitRoutes()
}
