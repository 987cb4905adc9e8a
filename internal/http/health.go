package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is anything that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

const healthCheckTimeout = 3 * time.Second

const (
	healthStatusHealthy   = "healthy"
	healthStatusDegraded  = "degraded"
	healthStatusUnhealthy = "unhealthy"
)

// HealthCheck names one dependency. A failing critical check makes the
// process unhealthy; any other failure only degrades it.
type HealthCheck struct {
	Name     string
	Pinger   Pinger
	Critical bool
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	checks  []HealthCheck
	version string
}

func NewHealthController(version string, checks ...HealthCheck) *HealthController {
	return &HealthController{checks: checks, version: version}
}

// Status pings every configured dependency. Pages still render without the
// backend, so the router registers it as non-critical.
func (h *HealthController) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	response := HealthResponse{
		Status:  healthStatusHealthy,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  make(map[string]string, len(h.checks)),
	}

	for _, check := range h.checks {
		if check.Pinger == nil {
			response.Checks[check.Name] = "not configured"
			continue
		}
		if err := check.Pinger.Ping(ctx); err != nil {
			response.Checks[check.Name] = "error: " + err.Error()
			switch {
			case check.Critical:
				response.Status = healthStatusUnhealthy
			case response.Status == healthStatusHealthy:
				response.Status = healthStatusDegraded
			}
			continue
		}
		response.Checks[check.Name] = "ok"
	}

	statusCode := http.StatusOK
	if response.Status == healthStatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	c.IndentedJSON(statusCode, response)
}

// Ping is the plain liveness probe.
func (h *HealthController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
