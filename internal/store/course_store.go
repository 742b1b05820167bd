package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/student-admin-console/internal/models"
	"github.com/noah-isme/student-admin-console/pkg/logger"
)

// CourseRepository is the backend contract behind CourseStore.
type CourseRepository interface {
	Repository[models.Course, models.CourseForm]
	ListActive(ctx context.Context) ([]models.Course, error)
	AddStudents(ctx context.Context, courseID int64, studentIDs []int64) error
}

// CourseStore caches the course collection.
type CourseStore struct {
	*Collection[models.Course, models.CourseForm]
	repo CourseRepository
}

// NewCourseStore constructs a CourseStore.
func NewCourseStore(repo CourseRepository, l *zap.Logger, observer Observer) *CourseStore {
	return &CourseStore{
		Collection: NewCollection[models.Course, models.CourseForm]("courses", repo, Options[models.Course]{
			Logger:    l,
			Observer:  observer,
			Normalize: models.Course.Normalize,
		}),
		repo: repo,
	}
}

// ListActive fetches active courses. The result is not cached.
func (s *CourseStore) ListActive(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.ListActive(ctx)
	if err != nil {
		logger.ForContext(ctx, s.logger).Error("store operation failed",
			zap.String("operation", "list_active"), zap.Error(err))
		return nil, err
	}
	return courses, nil
}

// AddStudents associates students with a course on the backend.
func (s *CourseStore) AddStudents(ctx context.Context, courseID int64, studentIDs []int64) error {
	if err := s.repo.AddStudents(ctx, courseID, models.UniqueIDs(studentIDs)); err != nil {
		logger.ForContext(ctx, s.logger).Error("store operation failed",
			zap.String("operation", "add_students"), zap.Int64("id", courseID), zap.Error(err))
		return err
	}
	return nil
}
