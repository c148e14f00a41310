// Package api talks to the auth backend and normalizes every exchange into a
// web_portal.Response envelope.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"web_portal"
	"web_portal/internal/logger"
	"web_portal/internal/metrics"
	"web_portal/internal/models"
	"web_portal/internal/repository"
)

// Backend endpoints, relative to the base URL.
const (
	loginPath    = "/api/auth/login"
	registerPath = "/api/auth/register"
	mePath       = "/api/auth/me"
	refreshPath  = "/api/auth/refresh"
)

// Client is a bearer-authenticated JSON client for the auth backend.
type Client struct {
	baseURL string
	tokens  repository.TokenStore
	http    *http.Client
	log     *logger.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request. Zero leaves the transport defaults.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// WithLogger attaches a logger. Without one the client is silent.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New builds a client for baseURL. tokens supplies the bearer token; nil means
// no durable storage is available.
func New(baseURL string, tokens repository.TokenStore, opts ...Option) *Client {
	if tokens == nil {
		tokens = repository.NoopTokenStore{}
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{},
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the resolved backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Login exchanges credentials for a user and token.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) web_portal.Response[models.AuthResult] {
	return do[models.AuthResult](ctx, c, "login", http.MethodPost, loginPath, req)
}

// Register creates an account and returns the new user and token.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) web_portal.Response[models.AuthResult] {
	return do[models.AuthResult](ctx, c, "register", http.MethodPost, registerPath, req)
}

// GetCurrentUser resolves the user behind the stored token.
func (c *Client) GetCurrentUser(ctx context.Context) web_portal.Response[models.User] {
	return do[models.User](ctx, c, "me", http.MethodGet, mePath, nil)
}

// RefreshToken asks the backend for a fresh token.
func (c *Client) RefreshToken(ctx context.Context) web_portal.Response[models.TokenResult] {
	return do[models.TokenResult](ctx, c, "refresh", http.MethodPost, refreshPath, nil)
}

// Logout only forgets the persisted token; the backend is not contacted.
// A storage failure is logged and the call still succeeds.
func (c *Client) Logout(ctx context.Context) web_portal.Response[struct{}] {
	if err := c.tokens.Remove(ctx); err != nil {
		c.log.Warnw("api_logout_remove_token_failed", "err", err)
	}
	return web_portal.OK(struct{}{}, 0)
}

func do[T any](ctx context.Context, c *Client, endpoint, method, path string, body any) web_portal.Response[T] {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		metrics.ObserveBackendCall(endpoint, metrics.OutcomeTransport)
		return web_portal.Fail[T](networkMessage(err), 0)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Infow("api_request_failed", "endpoint", endpoint, "err", err)
		metrics.ObserveBackendCall(endpoint, metrics.OutcomeTransport)
		return web_portal.Fail[T](networkMessage(err), 0)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveBackendCall(endpoint, metrics.OutcomeTransport)
		return web_portal.Fail[T](networkMessage(err), 0)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(resp.StatusCode, raw)
		c.log.Infow("api_request_rejected", "endpoint", endpoint, "status", resp.StatusCode, "error", msg)
		metrics.ObserveBackendCall(endpoint, metrics.OutcomeAppError)
		return web_portal.Fail[T](msg, resp.StatusCode)
	}

	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		c.log.Infow("api_response_undecodable", "endpoint", endpoint, "status", resp.StatusCode, "err", err)
		metrics.ObserveBackendCall(endpoint, metrics.OutcomeTransport)
		return web_portal.Fail[T](networkMessage(err), 0)
	}
	metrics.ObserveBackendCall(endpoint, metrics.OutcomeOK)
	return web_portal.OK(data, resp.StatusCode)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	token, ok, err := c.tokens.Get(ctx)
	if err != nil {
		// Unreadable storage behaves like an empty one.
		c.log.Warnw("api_read_token_failed", "err", err)
	} else if ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}
