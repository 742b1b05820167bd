package repository

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/noah-isme/student-admin-console/internal/models"
	"github.com/noah-isme/student-admin-console/pkg/backend"
)

// DiagnosticsRepository reaches the backend's non-data endpoints.
type DiagnosticsRepository struct {
	client *backend.Client
}

// NewDiagnosticsRepository constructs a DiagnosticsRepository.
func NewDiagnosticsRepository(client *backend.Client) *DiagnosticsRepository {
	return &DiagnosticsRepository{client: client}
}

// Ping issues GET /{endpoint} and returns the raw JSON body.
func (r *DiagnosticsRepository) Ping(ctx context.Context, endpoint string) (json.RawMessage, *backend.Result, error) {
	var raw json.RawMessage
	res, err := r.client.Do(ctx, backend.Call{
		Resource:  "diagnostics",
		Operation: endpoint,
		Method:    http.MethodGet,
		Path:      "/" + endpoint,
	}, &raw)
	return raw, res, err
}

// Version fetches the backend build information.
func (r *DiagnosticsRepository) Version(ctx context.Context) (*models.VersionInfo, error) {
	var info models.VersionInfo
	if _, err := r.client.Do(ctx, backend.Call{
		Resource:  "diagnostics",
		Operation: "version",
		Method:    http.MethodGet,
		Path:      "/version",
	}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
