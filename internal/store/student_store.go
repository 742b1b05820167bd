package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/student-admin-console/internal/models"
	"github.com/noah-isme/student-admin-console/pkg/logger"
)

// StudentRepository is the backend contract behind StudentStore.
type StudentRepository interface {
	Repository[models.Student, models.StudentForm]
	AddCourses(ctx context.Context, studentID int64, courseIDs []int64) error
}

// StudentStore caches the student collection.
type StudentStore struct {
	*Collection[models.Student, models.StudentForm]
	repo StudentRepository
}

// NewStudentStore constructs a StudentStore. Course id lists are normalised to
// sets as they enter the cache.
func NewStudentStore(repo StudentRepository, l *zap.Logger, observer Observer) *StudentStore {
	return &StudentStore{
		Collection: NewCollection[models.Student, models.StudentForm]("students", repo, Options[models.Student]{
			Logger:    l,
			Observer:  observer,
			Normalize: models.Student.Normalize,
		}),
		repo: repo,
	}
}

// AddCourses associates courses with a student on the backend. The cache is
// not touched; callers refresh with List when they need the new state.
func (s *StudentStore) AddCourses(ctx context.Context, studentID int64, courseIDs []int64) error {
	if err := s.repo.AddCourses(ctx, studentID, models.UniqueIDs(courseIDs)); err != nil {
		logger.ForContext(ctx, s.logger).Error("store operation failed",
			zap.String("operation", "add_courses"), zap.Int64("id", studentID), zap.Error(err))
		return err
	}
	return nil
}
