package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/student-admin-console/internal/models"
	"github.com/noah-isme/student-admin-console/internal/store"
	appErrors "github.com/noah-isme/student-admin-console/pkg/errors"
	"github.com/noah-isme/student-admin-console/pkg/jobs"
)

const snapshotJobPrefix = "snapshot."

type snapshotStore interface {
	Load(ctx context.Context, store string, dest interface{}) (time.Time, error)
	Save(ctx context.Context, store string, items interface{}, ttl time.Duration) error
	Clear(ctx context.Context) (int, error)
}

type snapshotDispatcher interface {
	TryEnqueue(job jobs.Job) error
}

// snapshotSource is a store whose collection can be mirrored and restored.
type snapshotSource[T any] interface {
	Name() string
	Subscribe(fn store.Subscriber[T]) func()
	Hydrate(items []T) bool
	Filtered() bool
}

// SnapshotConfig tunes snapshot persistence.
type SnapshotConfig struct {
	TTL time.Duration
}

// snapshotPayload is the job body handed to SnapshotWorker. Seq increases
// with every republish so a retried job never overwrites a newer one.
type snapshotPayload struct {
	Store string
	Seq   uint64
	Items interface{}
}

// SnapshotService mirrors every full-collection republish into Redis and
// warm-starts stores from the last mirrored collection. Republishes of a
// search result are not mirrored.
type SnapshotService struct {
	repo    snapshotStore
	queue   snapshotDispatcher
	metrics *MetricsService
	logger  *zap.Logger
	cfg     SnapshotConfig
	seq     atomic.Uint64

	mu           sync.Mutex
	unsubscribes []func()
}

// NewSnapshotService constructs a SnapshotService.
func NewSnapshotService(repo snapshotStore, queue snapshotDispatcher, metrics *MetricsService, cfg SnapshotConfig, logger *zap.Logger) *SnapshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &SnapshotService{repo: repo, queue: queue, metrics: metrics, logger: logger, cfg: cfg}
}

// Watch subscribes to both stores. The immediate delivery on subscribe is
// skipped so an empty cache never overwrites a stored snapshot.
func (s *SnapshotService) Watch(students snapshotSource[models.Student], courses snapshotSource[models.Course]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unsubscribes = append(s.unsubscribes, mirror(s, students), mirror(s, courses))
}

// Stop detaches from the stores.
func (s *SnapshotService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, unsubscribe := range s.unsubscribes {
		unsubscribe()
	}
	s.unsubscribes = nil
}

// Restore hydrates both stores from their stored snapshots. Missing snapshots
// are not an error.
func (s *SnapshotService) Restore(ctx context.Context, students snapshotSource[models.Student], courses snapshotSource[models.Course]) error {
	return errors.Join(restore(ctx, s, students), restore(ctx, s, courses))
}

// Clear removes every stored snapshot.
func (s *SnapshotService) Clear(ctx context.Context) error {
	removed, err := s.repo.Clear(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear snapshots")
	}
	s.logger.Info("snapshots cleared", zap.Int("removed", removed))
	return nil
}

func (s *SnapshotService) enqueue(storeName string, items interface{}) {
	err := s.queue.TryEnqueue(jobs.Job{
		Type:    snapshotJobPrefix + storeName,
		Payload: snapshotPayload{Store: storeName, Seq: s.seq.Add(1), Items: items},
	})
	if err != nil {
		s.metrics.ObserveSnapshotWrite(storeName, 0, err)
		s.logger.Warn("snapshot dropped", zap.String("store", storeName), zap.Error(err))
	}
}

func mirror[T any](s *SnapshotService, src snapshotSource[T]) func() {
	name := src.Name()
	initial := true
	return src.Subscribe(func(items []T) {
		if initial {
			initial = false
			return
		}
		if src.Filtered() {
			return
		}
		s.enqueue(name, items)
	})
}

func restore[T any](ctx context.Context, s *SnapshotService, src snapshotSource[T]) error {
	name := src.Name()
	var items []T
	savedAt, err := s.repo.Load(ctx, name, &items)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Debug("no snapshot to restore", zap.String("store", name))
			return nil
		}
		s.logger.Warn("snapshot restore failed", zap.String("store", name), zap.Error(err))
		return fmt.Errorf("restore %s: %w", name, err)
	}
	if src.Hydrate(items) {
		s.logger.Info("store restored from snapshot",
			zap.String("store", name),
			zap.Int("size", len(items)),
			zap.Duration("age", time.Since(savedAt)))
	}
	return nil
}

// SnapshotWorker persists queued snapshots.
type SnapshotWorker struct {
	repo    snapshotStore
	metrics *MetricsService
	logger  *zap.Logger
	ttl     time.Duration

	mu      sync.Mutex
	cursors map[string]*snapshotCursor
}

// snapshotCursor serializes writes of one store and remembers the newest
// sequence number written for it.
type snapshotCursor struct {
	mu      sync.Mutex
	written uint64
}

// NewSnapshotWorker constructs a worker.
func NewSnapshotWorker(repo snapshotStore, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *SnapshotWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SnapshotWorker{repo: repo, metrics: metrics, logger: logger, ttl: ttl, cursors: make(map[string]*snapshotCursor)}
}

func (w *SnapshotWorker) cursor(storeName string) *snapshotCursor {
	w.mu.Lock()
	defer w.mu.Unlock()
	cur, ok := w.cursors[storeName]
	if !ok {
		cur = &snapshotCursor{}
		w.cursors[storeName] = cur
	}
	return cur
}

// Handle processes a queue job. A payload older than the last one written
// for its store is dropped.
func (w *SnapshotWorker) Handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(snapshotPayload)
	if !ok || payload.Store == "" {
		w.logger.Sugar().Errorw("unexpected snapshot payload", "job_id", job.ID, "type", job.Type)
		return nil
	}

	cur := w.cursor(payload.Store)
	cur.mu.Lock()
	defer cur.mu.Unlock()
	if payload.Seq <= cur.written {
		w.logger.Sugar().Debugw("stale snapshot skipped",
			"store", payload.Store, "seq", payload.Seq, "written", cur.written, "job_id", job.ID)
		return nil
	}

	start := time.Now()
	err := w.repo.Save(ctx, payload.Store, payload.Items, w.ttl)
	w.metrics.ObserveSnapshotWrite(payload.Store, time.Since(start), err)
	if err != nil {
		return err
	}
	cur.written = payload.Seq
	w.logger.Sugar().Debugw("snapshot written", "store", payload.Store, "seq", payload.Seq, "job_id", job.ID)
	return nil
}
