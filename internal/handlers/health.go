package handlers

import (
	"net/http"
	"time"

	"web_portal/internal/models"

	"github.com/gin-gonic/gin"
)

// @Summary      Liveness probe
// @Description  Always reports healthy; no dependency is checked.
// @Tags         health
// @Produce      json
// @Success      200  {object}  models.HealthStatus
// @Router       /api/health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, models.NewHealthStatus(h.serviceName, time.Now()))
}
