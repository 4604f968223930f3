package healthcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubChecker struct {
	status  Status
	message string
}

func (c stubChecker) Check(ctx context.Context) Check {
	return Check{
		Status:      c.status,
		Message:     c.message,
		LastChecked: time.Now().UTC(),
	}
}

func TestCheckAggregation(t *testing.T) {
	t.Run("all healthy", func(t *testing.T) {
		hc := New("test", zap.NewNop())
		hc.Register("db", stubChecker{status: StatusHealthy})
		hc.Register("redis", stubChecker{status: StatusHealthy})

		response := hc.Check(context.Background())
		assert.Equal(t, StatusHealthy, response.Status)
		assert.Len(t, response.Checks, 2)
	})

	t.Run("one unhealthy makes overall unhealthy", func(t *testing.T) {
		hc := New("test", zap.NewNop())
		hc.Register("db", stubChecker{status: StatusHealthy})
		hc.Register("redis", stubChecker{status: StatusUnhealthy, message: "connection refused"})

		response := hc.Check(context.Background())
		assert.Equal(t, StatusUnhealthy, response.Status)
	})

	t.Run("degraded does not override unhealthy", func(t *testing.T) {
		hc := New("test", zap.NewNop())
		hc.Register("db", stubChecker{status: StatusUnhealthy})
		hc.Register("cache", stubChecker{status: StatusDegraded})

		response := hc.Check(context.Background())
		assert.Equal(t, StatusUnhealthy, response.Status)
	})
}

func TestHandlers(t *testing.T) {
	t.Run("health handler returns 503 when unhealthy", func(t *testing.T) {
		hc := New("test", zap.NewNop())
		hc.Register("db", stubChecker{status: StatusUnhealthy})

		rec := httptest.NewRecorder()
		hc.Handler()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("liveness always responds 200", func(t *testing.T) {
		hc := New("test", zap.NewNop())
		hc.Register("db", stubChecker{status: StatusUnhealthy})

		rec := httptest.NewRecorder()
		hc.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readiness requires all checks healthy", func(t *testing.T) {
		hc := New("test", zap.NewNop())
		hc.Register("db", stubChecker{status: StatusHealthy})

		rec := httptest.NewRecorder()
		hc.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		hc.Register("redis", stubChecker{status: StatusDegraded})
		rec = httptest.NewRecorder()
		hc.ReadinessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
