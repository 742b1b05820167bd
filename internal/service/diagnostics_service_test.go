package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-admin-console/internal/models"
	"github.com/noah-isme/student-admin-console/pkg/backend"
	appErrors "github.com/noah-isme/student-admin-console/pkg/errors"
)

type fakeDiagnosticsRepo struct {
	payloads map[string]json.RawMessage
	results  map[string]*backend.Result
	errs     map[string]error
	version  *models.VersionInfo
}

func (f *fakeDiagnosticsRepo) Ping(_ context.Context, endpoint string) (json.RawMessage, *backend.Result, error) {
	return f.payloads[endpoint], f.results[endpoint], f.errs[endpoint]
}

func (f *fakeDiagnosticsRepo) Version(context.Context) (*models.VersionInfo, error) {
	if f.version == nil {
		return nil, appErrors.Clone(appErrors.ErrNetwork, "down")
	}
	return f.version, nil
}

func TestDiagnosticsServiceHello(t *testing.T) {
	repo := &fakeDiagnosticsRepo{
		payloads: map[string]json.RawMessage{"hello": json.RawMessage(`{"message":"Hello from backend"}`)},
		results:  map[string]*backend.Result{"hello": {Status: http.StatusOK, Duration: 12 * time.Millisecond}},
	}
	svc := NewDiagnosticsService(repo, nil)

	result := svc.Hello(context.Background())
	assert.True(t, result.Reachable)
	assert.Equal(t, "/hello", result.Endpoint)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, int64(12), result.LatencyMs)
	assert.JSONEq(t, `{"message":"Hello from backend"}`, string(result.Payload))
	assert.Empty(t, result.Error)
}

func TestDiagnosticsServiceHealthUnreachable(t *testing.T) {
	repo := &fakeDiagnosticsRepo{
		errs: map[string]error{"health": appErrors.Wrap(context.DeadlineExceeded, appErrors.ErrNetwork.Code, appErrors.ErrNetwork.Status, "diagnostics health: backend unreachable")},
	}
	svc := NewDiagnosticsService(repo, nil)

	result := svc.Health(context.Background())
	assert.False(t, result.Reachable)
	assert.Equal(t, 0, result.StatusCode)
	assert.Contains(t, result.Error, "unreachable")
}

func TestDiagnosticsServiceHealthServerError(t *testing.T) {
	repo := &fakeDiagnosticsRepo{
		results: map[string]*backend.Result{"health": {Status: http.StatusServiceUnavailable}},
		errs:    map[string]error{"health": appErrors.FromStatus(http.StatusServiceUnavailable, "DOWN")},
	}
	result := NewDiagnosticsService(repo, nil).Health(context.Background())
	assert.False(t, result.Reachable)
	assert.Equal(t, http.StatusServiceUnavailable, result.StatusCode)
}

func TestDiagnosticsServiceVersion(t *testing.T) {
	svc := NewDiagnosticsService(&fakeDiagnosticsRepo{version: &models.VersionInfo{Version: "1.2.0"}}, nil)
	info, err := svc.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", info.Version)

	_, err = NewDiagnosticsService(&fakeDiagnosticsRepo{}, nil).Version(context.Background())
	assert.Error(t, err)
}
