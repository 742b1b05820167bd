package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/student-admin-console/api/swagger"
	"github.com/noah-isme/student-admin-console/internal/handler"
	"github.com/noah-isme/student-admin-console/internal/middleware"
	"github.com/noah-isme/student-admin-console/internal/repository"
	"github.com/noah-isme/student-admin-console/internal/service"
	"github.com/noah-isme/student-admin-console/internal/store"
	"github.com/noah-isme/student-admin-console/pkg/backend"
	"github.com/noah-isme/student-admin-console/pkg/cache"
	"github.com/noah-isme/student-admin-console/pkg/config"
	"github.com/noah-isme/student-admin-console/pkg/export"
	"github.com/noah-isme/student-admin-console/pkg/jobs"
	"github.com/noah-isme/student-admin-console/pkg/logger"
	corsmiddleware "github.com/noah-isme/student-admin-console/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/student-admin-console/pkg/middleware/requestid"
)

// @title Student Admin Console API
// @version 1.0.0
// @description Cached student/course administration over a remote backend
// @BasePath /console
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()

	client, err := backend.New(backend.Config{
		BaseURL:  cfg.Backend.BaseURL,
		Timeout:  cfg.Backend.Timeout,
		Observer: metrics,
		Logger:   logr,
	})
	if err != nil {
		logr.Fatal("failed to init backend client", zap.Error(err))
	}

	students := store.NewStudentStore(repository.NewStudentRepository(client), logr, metrics)
	courses := store.NewCourseStore(repository.NewCourseRepository(client), logr, metrics)
	validate := validator.New()

	diagnostics := service.NewDiagnosticsService(repository.NewDiagnosticsRepository(client), logr)
	enrollments := service.NewEnrollmentService(students, courses, logr)
	dashboard := service.NewDashboardService(service.DashboardServiceParams{
		Students: students,
		Courses:  courses,
		Logger:   logr,
	})
	exports := service.NewExportService(students, courses, export.Renderers(), export.NewCalendar(""), logr)

	snapshots, shutdownSnapshots := startSnapshots(ctx, cfg, metrics, students, courses, logr)
	defer shutdownSnapshots()

	refresh := service.NewRefreshService(students, courses, service.RefreshConfig{
		Schedule: cfg.Refresh.Schedule,
		Timeout:  cfg.Refresh.Timeout,
	}, logr)
	if err := refresh.Start(); err != nil {
		logr.Fatal("failed to schedule refresh", zap.Error(err))
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics,
		"/metrics",
		cfg.APIPrefix+"/students/stream",
		cfg.APIPrefix+"/courses/stream",
	))
	r.Use(middleware.WithResponseMeta())

	var clearer interface {
		Clear(ctx context.Context) error
	}
	if snapshots != nil {
		clearer = snapshots
	}

	registerRoutes(r, cfg, routeHandlers{
		students:    handler.NewStudentHandler(students, validate),
		courses:     handler.NewCourseHandler(courses, validate),
		enrollments: handler.NewEnrollmentHandler(enrollments, validate),
		dashboard:   handler.NewDashboardHandler(dashboard),
		home:        handler.NewHomeHandler(diagnostics, metrics, clearer),
		exports:     handler.NewExportHandler(exports),
		metrics:     handler.NewMetricsHandler(metrics, diagnostics),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "backend", client.BaseURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	refresh.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// startSnapshots wires the Redis mirror when enabled. Stores are restored
// before they are watched so the restore is not echoed back to Redis.
func startSnapshots(ctx context.Context, cfg *config.Config, metrics *service.MetricsService, students *store.StudentStore, courses *store.CourseStore, logr *zap.Logger) (*service.SnapshotService, func()) {
	if !cfg.Snapshots.Enabled {
		return nil, func() {}
	}

	client, err := cache.OpenSnapshots(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("snapshot mirror disabled: redis unavailable", zap.Error(err))
		return nil, func() {}
	}

	repo := repository.NewSnapshotRepository(client, cfg.Snapshots.KeyPrefix)
	worker := service.NewSnapshotWorker(repo, metrics, cfg.Snapshots.TTL, logr)
	queue := jobs.NewQueue("snapshots", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Snapshots.Workers,
		MaxRetries: cfg.Snapshots.Retries,
		RetryDelay: cfg.Snapshots.RetryDelay,
		Logger:     logr,
	})
	queue.Start(ctx)

	snapshots := service.NewSnapshotService(repo, queue, metrics, service.SnapshotConfig{TTL: cfg.Snapshots.TTL}, logr)
	if err := snapshots.Restore(ctx, students, courses); err != nil {
		logr.Warn("snapshot restore incomplete", zap.Error(err))
	}
	snapshots.Watch(students, courses)

	return snapshots, func() {
		snapshots.Stop()
		queue.Stop()
		if err := repo.Close(); err != nil {
			logr.Warn("redis close failed", zap.Error(err))
		}
	}
}
