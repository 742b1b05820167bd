package repository

import (
	"context"

	"github.com/noah-isme/student-admin-console/internal/models"
	"github.com/noah-isme/student-admin-console/pkg/backend"
)

// CourseRepository talks to the backend /courses resource.
type CourseRepository struct {
	resource[models.Course, models.CourseForm]
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(client *backend.Client) *CourseRepository {
	return &CourseRepository{resource: resource[models.Course, models.CourseForm]{client: client, name: "courses"}}
}

// ListActive fetches only courses flagged active.
func (r *CourseRepository) ListActive(ctx context.Context) ([]models.Course, error) {
	return r.fetchList(ctx, "list_active", r.path("active"), nil)
}

// AddStudents associates student ids with a course (POST /courses/{id}/students).
func (r *CourseRepository) AddStudents(ctx context.Context, courseID int64, studentIDs []int64) error {
	return r.associate(ctx, "add_students", courseID, "students", studentIDs)
}
