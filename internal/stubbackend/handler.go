// Package stubbackend is a small stand-in for the auth backend used for
// local development and end-to-end tests of the portal.
package stubbackend

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"web_portal/internal/logger"
	"web_portal/internal/models"

	"github.com/gin-gonic/gin"
)

const ctxUserID = "userId"

// Handler serves the backend's /api/auth endpoints.
type Handler struct {
	auth *AuthService
	log  *logger.Logger
}

func NewHandler(auth *AuthService, log *logger.Logger) *Handler {
	return &Handler{auth: auth, log: log}
}

// InitRoutes builds the backend router.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, models.NewHealthStatus("auth-stub", time.Now()))
	})

	auth := router.Group("/api/auth")
	{
		auth.POST("/login", h.login)
		auth.POST("/register", h.register)
		auth.GET("/me", h.bearer, h.me)
		auth.POST("/refresh", h.bearer, h.refresh)
	}
	return router
}

type loginBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerBody struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var in loginBody
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.auth.Login(c.Request.Context(), models.LoginRequest{Username: in.Username, Password: in.Password})
	if err != nil {
		h.fail(c, "stub_login_failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) register(c *gin.Context) {
	var in registerBody
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.auth.Register(c.Request.Context(), models.RegisterRequest{Username: in.Username, Email: in.Email, Password: in.Password})
	if err != nil {
		h.fail(c, "stub_register_failed", err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) me(c *gin.Context) {
	u, err := h.auth.CurrentUser(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		h.fail(c, "stub_me_failed", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) refresh(c *gin.Context) {
	res, err := h.auth.Refresh(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		h.fail(c, "stub_refresh_failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// bearer requires a valid "Authorization: Bearer <token>" header.
func (h *Handler) bearer(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
		return
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header format"})
		return
	}
	userID, err := h.auth.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}
	c.Set(ctxUserID, userID)
	c.Next()
}

func (h *Handler) fail(c *gin.Context, event string, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, ErrInvalidCredentials.Error()
	case errors.Is(err, ErrUsernameTaken):
		status, msg = http.StatusConflict, ErrUsernameTaken.Error()
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrInvalidToken):
		status, msg = http.StatusUnauthorized, "invalid or expired token"
	case errors.Is(err, ErrEmptyPassword):
		status, msg = http.StatusBadRequest, ErrEmptyPassword.Error()
	}
	if h.log != nil {
		h.log.Infow(event, "status", status, "err", err)
	}
	c.JSON(status, gin.H{"error": msg})
}
