package health

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultCheckTimeout = 2 * time.Second

// Status is the health report body
type Status struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Handler handles health check related endpoints
type Handler struct {
	responseHandler ResponseHandler
	checks          map[string]Pinger
	timeout         time.Duration
}

// NewHandler creates a new health check handler
func NewHandler(responseHandler ResponseHandler) *Handler {
	return &Handler{
		responseHandler: responseHandler,
		checks:          make(map[string]Pinger),
		timeout:         defaultCheckTimeout,
	}
}

// AddCheck registers a named dependency for the readiness probe
func (h *Handler) AddCheck(name string, p Pinger) *Handler {
	if p != nil {
		h.checks[name] = p
	}
	return h
}

// RegisterRoutes mounts /health and /health/ready
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.HandleHealthCheck)
	router.GET("/health/ready", h.HandleReadiness)
}

// @Summary Health check endpoint
// @Description Checks if the API server is running properly
// @Tags health
// @Produce json
// @Success 200 {object} Status "Health check successful"
// @Router /health [get]
func (h *Handler) HandleHealthCheck(c *gin.Context) {
	h.responseHandler.SuccessResponse(c, Status{Status: "ok"}, "Health check successful")
}

// @Summary Readiness probe
// @Description Pings every registered backing service
// @Tags health
// @Produce json
// @Success 200 {object} Status
// @Failure 503 {object} Status
// @Router /health/ready [get]
func (h *Handler) HandleReadiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := Status{Status: "ok", Checks: make(map[string]string, len(names))}
	var failed []string
	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			status.Checks[name] = err.Error()
			failed = append(failed, name)
			continue
		}
		status.Checks[name] = "ok"
	}

	if len(failed) > 0 {
		status.Status = "unavailable"
		h.responseHandler.ErrorResponse(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE",
			"Service not ready", fmt.Errorf("unhealthy dependencies: %v", failed))
		return
	}
	h.responseHandler.SuccessResponse(c, status, "Service ready")
}
