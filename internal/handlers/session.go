package handlers

import (
	"net/http"

	"web_portal"
	"web_portal/internal/validation"

	"github.com/gin-gonic/gin"
)

const errValidationFailed = "validation failed"

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled, true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("session_bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// rejectInvalid writes a 422 listing every violated rule when res failed.
func (h *Handler) rejectInvalid(c *gin.Context, res validation.Result) bool {
	if res.Success {
		return false
	}
	if h.log != nil {
		h.log.Infow("session_form_invalid", "path", c.FullPath(), "fields", res.Fields())
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":  errValidationFailed,
		"fields": res.Errors,
	})
	return true
}

// writeEnvelope maps an envelope onto the HTTP response. Backend errors keep
// their status; transport failures become 502.
func writeEnvelope[T any](c *gin.Context, resp web_portal.Response[T], okStatus int) {
	if resp.Ok() {
		c.JSON(okStatus, resp)
		return
	}
	c.JSON(errorStatus(resp.Status), resp)
}

func errorStatus(upstream int) int {
	if upstream >= 400 && upstream <= 599 {
		return upstream
	}
	return http.StatusBadGateway
}

// @Summary      Current session
// @Description  Returns the session state: user, token and loading flag.
// @Tags         session
// @Produce      json
// @Success      200  {object}  models.SessionState
// @Router       /api/session [get]
func (h *Handler) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Session.State())
}

// @Summary      Log in
// @Description  Validates the form, authenticates against the backend and stores the session.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        input  body      validation.LoginForm  true  "credentials"
// @Success      200    {object}  map[string]interface{}  "data: user and token"
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      422    {object}  map[string]interface{}  "error, fields"
// @Failure      502    {object}  map[string]string
// @Router       /api/session/login [post]
func (h *Handler) login(c *gin.Context) {
	var form validation.LoginForm
	if ok := h.bindJSONOrBadRequest(c, &form); !ok {
		return
	}
	if h.rejectInvalid(c, h.validator.Login(form)) {
		return
	}
	resp := h.services.Authorization.Login(c.Request.Context(), form.Request())
	writeEnvelope(c, resp, http.StatusOK)
}

// @Summary      Register
// @Description  Validates the form, creates the account and stores the session.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        input  body      validation.RegisterForm  true  "account"
// @Success      201    {object}  map[string]interface{}  "data: user and token"
// @Failure      400    {object}  map[string]string
// @Failure      409    {object}  map[string]string
// @Failure      422    {object}  map[string]interface{}  "error, fields"
// @Failure      502    {object}  map[string]string
// @Router       /api/session/register [post]
func (h *Handler) register(c *gin.Context) {
	var form validation.RegisterForm
	if ok := h.bindJSONOrBadRequest(c, &form); !ok {
		return
	}
	if h.rejectInvalid(c, h.validator.Register(form)) {
		return
	}
	resp := h.services.Authorization.Register(c.Request.Context(), form.Request())
	writeEnvelope(c, resp, http.StatusCreated)
}

// @Summary      Log out
// @Description  Forgets the stored token and user. Always succeeds.
// @Tags         session
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/session/logout [post]
func (h *Handler) logout(c *gin.Context) {
	writeEnvelope(c, h.services.Authorization.Logout(c.Request.Context()), http.StatusOK)
}

// @Summary      Restore session
// @Description  Loads the user behind the stored token.
// @Tags         session
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "data: user"
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/session/restore [post]
func (h *Handler) restore(c *gin.Context) {
	writeEnvelope(c, h.services.Authorization.Restore(c.Request.Context()), http.StatusOK)
}

// @Summary      Refresh token
// @Description  Exchanges the stored token for a fresh one.
// @Tags         session
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "data: token"
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/session/refresh [post]
func (h *Handler) refresh(c *gin.Context) {
	writeEnvelope(c, h.services.Authorization.Refresh(c.Request.Context()), http.StatusOK)
}
