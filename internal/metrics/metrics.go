// Package metrics defines the portal's prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Backend call outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeAppError  = "app_error"
	OutcomeTransport = "transport_error"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web_portal_http_requests_total",
			Help: "Total number of HTTP requests served by the portal",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "web_portal_http_request_duration_seconds",
			Help:    "Portal HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	backendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web_portal_backend_requests_total",
			Help: "Calls made to the auth backend by outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	sessionSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "web_portal_session_stream_clients",
			Help: "Websocket clients currently subscribed to session changes",
		},
	)
)

// GinMiddleware records request counts and latency per route pattern.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// ObserveBackendCall counts one call to a backend endpoint.
func ObserveBackendCall(endpoint, outcome string) {
	backendRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
}

// StreamClientConnected and StreamClientDisconnected track websocket subscribers.
func StreamClientConnected()    { sessionSubscribers.Inc() }
func StreamClientDisconnected() { sessionSubscribers.Dec() }
