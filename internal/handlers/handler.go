package handlers

import (
	"web_portal/internal/logger"
	"web_portal/internal/metrics"
	"web_portal/internal/service"
	"web_portal/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const defaultServiceName = "web-portal"

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services    *service.Service
	validator   *validation.Validator
	log         *logger.Logger
	serviceName string
}

// NewHandler constructs a new HTTP handler with dependencies. An empty
// serviceName reports as "web-portal" on the health endpoint.
func NewHandler(services *service.Service, serviceName string, log *logger.Logger) *Handler {
	if serviceName == "" {
		serviceName = defaultServiceName
	}
	return &Handler{
		services:    services,
		validator:   validation.New(),
		log:         log,
		serviceName: serviceName,
	}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), metrics.GinMiddleware(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", h.health)
		h.registerSessionRoutes(api)
	}

	return router
}

func (h *Handler) registerSessionRoutes(api *gin.RouterGroup) {
	s := api.Group("/session")
	{
		s.GET("", h.getSession)
		s.POST("/login", h.login)
		s.POST("/register", h.register)
		s.POST("/logout", h.logout)
		s.POST("/restore", h.restore)
		s.POST("/refresh", h.refresh)
		s.GET("/events", h.getEvents)
		s.GET("/ws", h.sessionStream)
	}
}
