package repository

import (
	"context"

	"github.com/noah-isme/student-admin-console/internal/models"
	"github.com/noah-isme/student-admin-console/pkg/backend"
)

// StudentRepository talks to the backend /students resource.
type StudentRepository struct {
	resource[models.Student, models.StudentForm]
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(client *backend.Client) *StudentRepository {
	return &StudentRepository{resource: resource[models.Student, models.StudentForm]{client: client, name: "students"}}
}

// AddCourses associates course ids with a student (POST /students/{id}/courses).
func (r *StudentRepository) AddCourses(ctx context.Context, studentID int64, courseIDs []int64) error {
	return r.associate(ctx, "add_courses", studentID, "courses", courseIDs)
}
