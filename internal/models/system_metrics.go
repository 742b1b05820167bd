package models

import "time"

// SystemMetrics is a point-in-time summary of console instrumentation.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	BackendCalls             uint64    `json:"backend_calls"`
	BackendFailures          uint64    `json:"backend_failures"`
	AverageBackendDurationMs float64   `json:"average_backend_duration_ms"`
	Republishes              uint64    `json:"republishes"`
	SnapshotWrites           uint64    `json:"snapshot_writes"`
	SnapshotFailures         uint64    `json:"snapshot_failures"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
