package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/student-admin-console/internal/dto"
	"github.com/noah-isme/student-admin-console/internal/models"
	appErrors "github.com/noah-isme/student-admin-console/pkg/errors"
	"github.com/noah-isme/student-admin-console/pkg/logger"
)

const (
	sectionStudents      = "students"
	sectionCourses       = "courses"
	sectionActiveCourses = "activeCourses"
)

type studentLister interface {
	List(ctx context.Context) ([]models.Student, error)
}

type courseLister interface {
	List(ctx context.Context) ([]models.Course, error)
	ListActive(ctx context.Context) ([]models.Course, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	RecentLimit int
}

// DashboardService computes the overview counts. Nothing is cached here; each
// call refetches through the stores.
type DashboardService struct {
	students studentLister
	courses  courseLister
	logger   *zap.Logger
	now      func() time.Time
	cfg      DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Students studentLister
	Courses  courseLister
	Logger   *zap.Logger
	Config   DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 5
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		students: params.Students,
		courses:  params.Courses,
		logger:   logger,
		now:      time.Now,
		cfg:      cfg,
	}
}

// Summary fetches the three sections concurrently. A failing section is
// reported in Unavailable with zero counts; an error is returned only when
// every section failed.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, error) {
	var (
		students []models.Student
		courses  []models.Course
		active   []models.Course

		mu       sync.Mutex
		failed   []string
		firstErr error
	)
	fail := func(section string, err error) {
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, section)
		if firstErr == nil {
			firstErr = err
		}
		logger.ForContext(ctx, s.logger).Warn("dashboard section unavailable",
			zap.String("section", section), zap.Error(err))
	}

	var g errgroup.Group
	g.Go(func() error {
		var err error
		if students, err = s.students.List(ctx); err != nil {
			fail(sectionStudents, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if courses, err = s.courses.List(ctx); err != nil {
			fail(sectionCourses, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if active, err = s.courses.ListActive(ctx); err != nil {
			fail(sectionActiveCourses, err)
		}
		return nil
	})
	_ = g.Wait()

	if len(failed) == 3 {
		return nil, appErrors.FromError(firstErr)
	}

	summary := &dto.DashboardSummary{
		TotalStudents:    len(students),
		TotalCourses:     len(courses),
		ActiveCourses:    len(active),
		TotalEnrollments: countEnrollments(students),
		RecentStudents:   head(students, s.cfg.RecentLimit),
		RecentCourses:    head(courses, s.cfg.RecentLimit),
		Unavailable:      sortSections(failed),
		GeneratedAt:      s.now().UTC(),
	}
	return summary, nil
}

func countEnrollments(students []models.Student) int {
	total := 0
	for _, st := range students {
		total += len(st.CourseIDs)
	}
	return total
}

func head[T any](items []T, n int) []T {
	if len(items) < n {
		n = len(items)
	}
	out := make([]T, n)
	copy(out, items[:n])
	return out
}

// sortSections keeps Unavailable stable regardless of completion order.
func sortSections(failed []string) []string {
	if len(failed) == 0 {
		return nil
	}
	order := []string{sectionStudents, sectionCourses, sectionActiveCourses}
	out := make([]string, 0, len(failed))
	for _, name := range order {
		for _, f := range failed {
			if f == name {
				out = append(out, name)
			}
		}
	}
	return out
}
