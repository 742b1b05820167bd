package service

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-admin-console/internal/models"
	"github.com/noah-isme/student-admin-console/pkg/backend"
	appErrors "github.com/noah-isme/student-admin-console/pkg/errors"
	"github.com/noah-isme/student-admin-console/pkg/logger"
)

type diagnosticsRepository interface {
	Ping(ctx context.Context, endpoint string) (json.RawMessage, *backend.Result, error)
	Version(ctx context.Context) (*models.VersionInfo, error)
}

// DiagnosticsService backs the home screen connectivity checks. It talks to
// the backend directly and never touches the stores.
type DiagnosticsService struct {
	repo   diagnosticsRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewDiagnosticsService constructs a DiagnosticsService.
func NewDiagnosticsService(repo diagnosticsRepository, logger *zap.Logger) *DiagnosticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiagnosticsService{repo: repo, logger: logger, now: time.Now}
}

// Hello checks the backend greeting endpoint.
func (s *DiagnosticsService) Hello(ctx context.Context) models.DiagnosticResult {
	return s.check(ctx, "hello")
}

// Health checks the backend health endpoint.
func (s *DiagnosticsService) Health(ctx context.Context) models.DiagnosticResult {
	return s.check(ctx, "health")
}

// Version fetches backend build information.
func (s *DiagnosticsService) Version(ctx context.Context) (*models.VersionInfo, error) {
	info, err := s.repo.Version(ctx)
	if err != nil {
		logger.ForContext(ctx, s.logger).Warn("backend version unavailable", zap.Error(err))
		return nil, err
	}
	return info, nil
}

// check never fails; an unreachable backend is reported in the result.
func (s *DiagnosticsService) check(ctx context.Context, endpoint string) models.DiagnosticResult {
	result := models.DiagnosticResult{
		Endpoint:   "/" + endpoint,
		ObservedAt: s.now().UTC(),
	}

	payload, res, err := s.repo.Ping(ctx, endpoint)
	if res != nil {
		result.StatusCode = res.Status
		result.LatencyMs = res.Duration.Milliseconds()
	}
	if len(payload) > 0 {
		result.Payload = payload
	}
	if err != nil {
		result.Error = err.Error()
		// A 4xx still proves the backend answered.
		result.Reachable = res != nil && res.Status > 0 && res.Status < http.StatusInternalServerError
		if appErrors.FromError(err).Code == appErrors.ErrNetwork.Code {
			result.Reachable = false
		}
		logger.ForContext(ctx, s.logger).Warn("backend check failed",
			zap.String("endpoint", endpoint), zap.Error(err))
		return result
	}
	result.Reachable = true
	return result
}
