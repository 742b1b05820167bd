package service

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/console/students", http.StatusOK, 20*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/console/students", http.StatusOK, 40*time.Millisecond)
	m.ObserveBackendCall("students", "list", http.StatusOK, 10*time.Millisecond)
	m.ObserveBackendCall("students", "get", 0, 30*time.Millisecond)
	m.ObserveRepublish("students", 3)
	m.ObserveSnapshotWrite("students", time.Millisecond, nil)
	m.ObserveSnapshotWrite("courses", 0, errors.New("full"))

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.RequestsTotal)
	assert.InDelta(t, 30, snap.AverageRequestDurationMs, 0.01)
	assert.Equal(t, uint64(2), snap.BackendCalls)
	assert.Equal(t, uint64(1), snap.BackendFailures)
	assert.InDelta(t, 20, snap.AverageBackendDurationMs, 0.01)
	assert.Equal(t, uint64(1), snap.Republishes)
	assert.Equal(t, uint64(1), snap.SnapshotWrites)
	assert.Equal(t, uint64(1), snap.SnapshotFailures)
}

func TestMetricsServiceHandlerExposesCollectors(t *testing.T) {
	m := NewMetricsService()
	m.ObserveRepublish("courses", 2)
	m.ObserveBackendCall("courses", "list", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `store_republish_total{store="courses"} 1`)
	assert.Contains(t, body, `store_cached_entities{store="courses"} 2`)
	assert.Contains(t, body, `backend_requests_total{operation="list",resource="courses",status="200"} 1`)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	m.ObserveBackendCall("students", "list", http.StatusOK, time.Millisecond)
	m.ObserveRepublish("students", 1)
	m.ObserveSnapshotWrite("students", time.Millisecond, nil)
	assert.Zero(t, m.Snapshot().RequestsTotal)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
