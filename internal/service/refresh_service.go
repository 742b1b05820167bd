package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RefreshConfig drives the scheduled store refresh.
type RefreshConfig struct {
	Schedule string
	Timeout  time.Duration
}

// RefreshService re-lists both stores on a cron schedule so subscribers and
// snapshots pick up changes made outside the console.
type RefreshService struct {
	students studentLister
	courses  courseLister
	logger   *zap.Logger
	cfg      RefreshConfig

	mu      sync.Mutex
	cron    *cron.Cron
	lastRun time.Time
	lastErr error
	now     func() time.Time
}

// NewRefreshService constructs a RefreshService.
func NewRefreshService(students studentLister, courses courseLister, cfg RefreshConfig, logger *zap.Logger) *RefreshService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.Schedule = strings.TrimSpace(cfg.Schedule)
	return &RefreshService{students: students, courses: courses, logger: logger, cfg: cfg, now: time.Now}
}

// Enabled reports whether a schedule is configured.
func (s *RefreshService) Enabled() bool {
	return s != nil && s.cfg.Schedule != ""
}

// Start registers the schedule and starts the cron runner. Overlapping runs are
// skipped. Without a schedule Start is a no-op.
func (s *RefreshService) Start() error {
	if !s.Enabled() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return nil
	}

	cl := cronLogger{s.logger.Sugar()}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	if _, err := c.AddFunc(s.cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
		defer cancel()
		_ = s.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", s.cfg.Schedule, err)
	}
	c.Start()
	s.cron = c
	s.logger.Info("store refresh scheduled", zap.String("schedule", s.cfg.Schedule))
	return nil
}

// Stop halts the scheduler and waits for a running refresh to finish or ctx
// to expire.
func (s *RefreshService) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
	}
}

// RunOnce lists both stores concurrently. Each store is refreshed even when the
// other fails.
func (s *RefreshService) RunOnce(ctx context.Context) error {
	start := s.now()
	var (
		wg                     sync.WaitGroup
		studentErr, courseErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		if _, err := s.students.List(ctx); err != nil {
			studentErr = fmt.Errorf("refresh students: %w", err)
		}
	}()
	go func() {
		defer wg.Done()
		if _, err := s.courses.List(ctx); err != nil {
			courseErr = fmt.Errorf("refresh courses: %w", err)
		}
	}()
	wg.Wait()

	err := errors.Join(studentErr, courseErr)
	s.mu.Lock()
	s.lastRun = start
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("store refresh failed", zap.Error(err))
		return err
	}
	s.logger.Debug("stores refreshed", zap.Duration("took", s.now().Sub(start)))
	return nil
}

// LastRun reports when RunOnce last started and how it ended.
func (s *RefreshService) LastRun() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.lastErr
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
