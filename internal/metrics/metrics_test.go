package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogify-press/backend-go/internal/metrics"
)

func TestMetrics_CountersByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	m.AuthEvent("signin", nil)
	m.AuthEvent("signin", errors.New("bad password"))
	m.AuthEvent("signin", errors.New("bad password"))
	m.Transition("user", "delete", nil)

	count, err := testutil.GatherAndCount(reg, "blogify_auth_events_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "blogify_lifecycle_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.AuthEvent("signin", nil)
		m.Transition("post", "restore", nil)
		m.ObserveRequest("GET", "/", "200", 0.1)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.ObserveRequest("GET", "/api/v1/blog", "200", 0.01)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `blogify_http_requests_total{method="GET",route="/api/v1/blog",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
