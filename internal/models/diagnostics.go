package models

import (
	"encoding/json"
	"time"
)

// VersionInfo mirrors the backend version endpoint.
type VersionInfo struct {
	Version           string `json:"version"`
	BuildDate         string `json:"buildDate"`
	JavaVersion       string `json:"javaVersion,omitempty"`
	SpringBootVersion string `json:"springBootVersion,omitempty"`
	Timestamp         string `json:"timestamp,omitempty"`
}

// DiagnosticResult captures one connectivity check against the backend.
type DiagnosticResult struct {
	Endpoint   string          `json:"endpoint"`
	StatusCode int             `json:"statusCode"`
	Reachable  bool            `json:"reachable"`
	LatencyMs  int64           `json:"latencyMs"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Error      string          `json:"error,omitempty"`
	ObservedAt time.Time       `json:"observedAt"`
}
