// Package http contains service-level HTTP handlers
package http

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// HealthChecker is implemented by components that can report their health
type HealthChecker interface {
	// Name is the component label in the response
	Name() string

	// HealthCheck returns nil when the component is usable
	HealthCheck(ctx context.Context) error
}

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth represents health status of a single component
type ComponentHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the JSON response for health check
type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

// HealthHandler handles HTTP health check requests
type HealthHandler struct {
	checkers []HealthChecker
	timeout  time.Duration
	logger   zerolog.Logger
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(checkers []HealthChecker, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		checkers: checkers,
		timeout:  5 * time.Second,
		logger:   logger,
	}
}

// Handle serves GET /health
func (h *HealthHandler) Handle(reqCtx *fasthttp.RequestCtx) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	resp := h.Check(ctx)

	statusCode := fasthttp.StatusOK
	if resp.Status == HealthStatusUnhealthy {
		statusCode = fasthttp.StatusServiceUnavailable
	}

	logEvent := h.logger.Debug()
	if resp.Status == HealthStatusUnhealthy {
		logEvent = h.logger.Warn()
	} else if resp.Status == HealthStatusDegraded {
		logEvent = h.logger.Info()
	}
	logEvent.
		Str("status", string(resp.Status)).
		Int("status_code", statusCode).
		Interface("components", resp.Components).
		Msg("Health check completed")

	body, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode health check response")
		reqCtx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}

	reqCtx.SetContentType("application/json")
	reqCtx.SetStatusCode(statusCode)
	reqCtx.SetBody(body)
}

// Check runs every checker and aggregates the result
func (h *HealthHandler) Check(ctx context.Context) HealthResponse {
	components := make([]ComponentHealth, 0, len(h.checkers))

	for _, c := range h.checkers {
		comp := ComponentHealth{Name: c.Name(), Healthy: true}
		if err := c.HealthCheck(ctx); err != nil {
			comp.Healthy = false
			comp.Message = err.Error()
		}
		components = append(components, comp)
	}

	return HealthResponse{
		Status:     determineOverallStatus(components),
		Timestamp:  time.Now().UTC(),
		Components: components,
	}
}

// determineOverallStatus determines overall health status based on component health
func determineOverallStatus(components []ComponentHealth) HealthStatus {
	allHealthy := true
	anyHealthy := false

	for _, component := range components {
		if !component.Healthy {
			allHealthy = false
		} else {
			anyHealthy = true
		}
	}

	if allHealthy {
		return HealthStatusHealthy
	} else if anyHealthy {
		return HealthStatusDegraded
	}

	return HealthStatusUnhealthy
}
