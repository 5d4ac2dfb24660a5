package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// HealthStatus is the body of the health and readiness endpoints.
type HealthStatus struct {
	Status       string                      `json:"status"`
	Service      string                      `json:"service"`
	Timestamp    string                      `json:"timestamp"`
	Dependencies map[string]DependencyStatus `json:"dependencies,omitempty"`
}

// DependencyStatus is the state of one readiness check.
type DependencyStatus struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
}

const serviceName = "breeze-gateway"

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthStatus{
		Status:    "healthy",
		Service:   serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:       "ready",
		Service:      serviceName,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Dependencies: make(map[string]DependencyStatus, len(s.checks)),
	}
	code := http.StatusOK
	for name, check := range s.checks {
		start := time.Now()
		err := check(ctx)
		dep := DependencyStatus{Status: "healthy", LatencyMs: time.Since(start).Milliseconds()}
		if err != nil {
			dep.Status = "unhealthy"
			dep.Message = err.Error()
			status.Status = "not_ready"
			code = http.StatusServiceUnavailable
		}
		status.Dependencies[name] = dep
	}
	c.JSON(code, status)
}
