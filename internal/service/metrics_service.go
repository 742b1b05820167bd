package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/student-admin-console/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	backendTotal    *prometheus.CounterVec
	republishTotal  *prometheus.CounterVec
	storeSize       *prometheus.GaugeVec
	snapshotWrite   *prometheus.HistogramVec
	snapshotFailed  *prometheus.CounterVec

	requestCount         uint64
	requestDurationTotal uint64
	backendCount         uint64
	backendFailures      uint64
	backendDurationTotal uint64
	republishCount       uint64
	snapshotWrites       uint64
	snapshotFailures     uint64

	now func() time.Time
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	backendDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_request_duration_seconds",
		Help:    "Duration of calls to the student/course backend",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource", "operation", "outcome"})

	backendTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backend_requests_total",
		Help: "Total calls to the student/course backend",
	}, []string{"resource", "operation", "status"})

	republishTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "store_republish_total",
		Help: "Number of collection republishes per store",
	}, []string{"store"})

	storeSize := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "store_cached_entities",
		Help: "Entities held in each store cache after the last republish",
	}, []string{"store"})

	snapshotWrite := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "snapshot_write_seconds",
		Help:    "Latency of snapshot writes to Redis",
		Buckets: prometheus.DefBuckets,
	}, []string{"store"})

	snapshotFailed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "snapshot_write_failures_total",
		Help: "Snapshot writes that failed or were dropped",
	}, []string{"store"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, backendDuration, backendTotal, republishTotal, storeSize, snapshotWrite, snapshotFailed, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		backendDuration: backendDuration,
		backendTotal:    backendTotal,
		republishTotal:  republishTotal,
		storeSize:       storeSize,
		snapshotWrite:   snapshotWrite,
		snapshotFailed:  snapshotFailed,
		now:             time.Now,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveBackendCall records one backend round trip. Status 0 means the
// request never got a response.
func (m *MetricsService) ObserveBackendCall(resource, operation string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if status == 0 || status >= http.StatusBadRequest {
		outcome = "error"
		atomic.AddUint64(&m.backendFailures, 1)
	}
	m.backendDuration.WithLabelValues(resource, operation, outcome).Observe(duration.Seconds())
	m.backendTotal.WithLabelValues(resource, operation, fmt.Sprintf("%d", status)).Inc()
	atomic.AddUint64(&m.backendCount, 1)
	atomic.AddUint64(&m.backendDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveRepublish counts store republishes and tracks cache size.
func (m *MetricsService) ObserveRepublish(store string, size int) {
	if m == nil {
		return
	}
	m.republishTotal.WithLabelValues(store).Inc()
	m.storeSize.WithLabelValues(store).Set(float64(size))
	atomic.AddUint64(&m.republishCount, 1)
}

// ObserveSnapshotWrite tracks snapshot persistence.
func (m *MetricsService) ObserveSnapshotWrite(store string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.snapshotFailed.WithLabelValues(store).Inc()
		atomic.AddUint64(&m.snapshotFailures, 1)
		return
	}
	m.snapshotWrite.WithLabelValues(store).Observe(duration.Seconds())
	atomic.AddUint64(&m.snapshotWrites, 1)
}

// Snapshot returns aggregated metrics suitable for the home screen.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	calls := atomic.LoadUint64(&m.backendCount)
	callDuration := atomic.LoadUint64(&m.backendDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgBackendMs float64
	if calls > 0 {
		avgBackendMs = float64(callDuration) / float64(calls) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		BackendCalls:             calls,
		BackendFailures:          atomic.LoadUint64(&m.backendFailures),
		AverageBackendDurationMs: avgBackendMs,
		Republishes:              atomic.LoadUint64(&m.republishCount),
		SnapshotWrites:           atomic.LoadUint64(&m.snapshotWrites),
		SnapshotFailures:         atomic.LoadUint64(&m.snapshotFailures),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              m.now().UTC(),
	}
}
