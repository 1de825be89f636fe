package http

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

// mockChecker implements HealthChecker for testing
type mockChecker struct {
	name string
	err  error
}

func (m *mockChecker) Name() string                        { return m.name }
func (m *mockChecker) HealthCheck(_ context.Context) error { return m.err }

func serve(t *testing.T, h *HealthHandler) (int, HealthResponse) {
	t.Helper()

	var reqCtx fasthttp.RequestCtx
	reqCtx.Request.Header.SetMethod(fasthttp.MethodGet)
	reqCtx.Request.SetRequestURI("/health")

	h.Handle(&reqCtx)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(reqCtx.Response.Body(), &resp))
	return reqCtx.Response.StatusCode(), resp
}

func TestHealthHandler_AllHealthy(t *testing.T) {
	h := NewHealthHandler([]HealthChecker{
		&mockChecker{name: "telegram"},
		&mockChecker{name: "yt-dlp"},
	}, zerolog.Nop())

	code, resp := serve(t, h)

	assert.Equal(t, fasthttp.StatusOK, code)
	assert.Equal(t, HealthStatusHealthy, resp.Status)
	assert.Len(t, resp.Components, 2)
}

func TestHealthHandler_Degraded(t *testing.T) {
	h := NewHealthHandler([]HealthChecker{
		&mockChecker{name: "telegram"},
		&mockChecker{name: "database", err: errors.New("connection refused")},
	}, zerolog.Nop())

	code, resp := serve(t, h)

	assert.Equal(t, fasthttp.StatusOK, code)
	assert.Equal(t, HealthStatusDegraded, resp.Status)
	assert.Equal(t, "connection refused", resp.Components[1].Message)
	assert.False(t, resp.Components[1].Healthy)
}

func TestHealthHandler_Unhealthy(t *testing.T) {
	h := NewHealthHandler([]HealthChecker{
		&mockChecker{name: "yt-dlp", err: errors.New("not found in PATH")},
	}, zerolog.Nop())

	code, resp := serve(t, h)

	assert.Equal(t, fasthttp.StatusServiceUnavailable, code)
	assert.Equal(t, HealthStatusUnhealthy, resp.Status)
}

func TestHealthHandler_NoCheckers(t *testing.T) {
	h := NewHealthHandler(nil, zerolog.Nop())

	code, resp := serve(t, h)

	assert.Equal(t, fasthttp.StatusOK, code)
	assert.Equal(t, HealthStatusHealthy, resp.Status)
	assert.Empty(t, resp.Components)
}
