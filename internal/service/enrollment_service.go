package service

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/student-admin-console/internal/models"
	appErrors "github.com/noah-isme/student-admin-console/pkg/errors"
	"github.com/noah-isme/student-admin-console/pkg/logger"
)

type enrollmentStudentStore interface {
	List(ctx context.Context) ([]models.Student, error)
	Get(ctx context.Context, id int64) (*models.Student, error)
	GetVersioned(ctx context.Context, id int64) (*models.Student, string, error)
	UpdateVersioned(ctx context.Context, id int64, form models.StudentForm, version string) (*models.Student, error)
	AddCourses(ctx context.Context, studentID int64, courseIDs []int64) error
	Find(id int64) (models.Student, bool)
}

type enrollmentCourseStore interface {
	List(ctx context.Context) ([]models.Course, error)
	Get(ctx context.Context, id int64) (*models.Course, error)
	Find(id int64) (models.Course, bool)
}

// EnrollmentService derives the student/course join from student course ids.
type EnrollmentService struct {
	students enrollmentStudentStore
	courses  enrollmentCourseStore
	logger   *zap.Logger
	now      func() time.Time
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(students enrollmentStudentStore, courses enrollmentCourseStore, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		students: students,
		courses:  courses,
		logger:   logger,
		now:      time.Now,
	}
}

// Enroll associates courseID with studentID. The add-courses call is always
// issued; the backend treats course ids as a set so repeating it is safe.
// created reports whether the cached student did not already carry the course.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID int64) (*models.EnrollmentRecord, bool, error) {
	if err := validatePair(studentID, courseID); err != nil {
		return nil, false, err
	}

	created := true
	if student, ok := s.students.Find(studentID); ok && student.HasCourse(courseID) {
		created = false
	}

	if err := s.students.AddCourses(ctx, studentID, []int64{courseID}); err != nil {
		return nil, false, err
	}
	logger.ForContext(ctx, s.logger).Info("student enrolled",
		zap.Int64("student_id", studentID), zap.Int64("course_id", courseID), zap.Bool("created", created))
	return s.record(studentID, courseID), created, nil
}

// Unenroll removes every occurrence of courseID from the student's course ids
// with a get-then-update. The version token from the read guards the write.
func (s *EnrollmentService) Unenroll(ctx context.Context, studentID, courseID int64) (*models.Student, error) {
	if err := validatePair(studentID, courseID); err != nil {
		return nil, err
	}

	student, version, err := s.students.GetVersioned(ctx, studentID)
	if err != nil {
		return nil, err
	}

	form := student.Form()
	form.CourseIDs = withoutID(student.CourseIDs, courseID)

	updated, err := s.students.UpdateVersioned(ctx, studentID, form, version)
	if err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrConflict.Code {
			logger.ForContext(ctx, s.logger).Warn("unenroll lost a concurrent update",
				zap.Int64("student_id", studentID), zap.Int64("course_id", courseID))
		}
		return nil, err
	}
	logger.ForContext(ctx, s.logger).Info("student unenrolled",
		zap.Int64("student_id", studentID), zap.Int64("course_id", courseID))
	return updated, nil
}

// AllEnrollments lists students and flattens their course ids into records.
// Course names are left blank; see JoinCourseNames.
func (s *EnrollmentService) AllEnrollments(ctx context.Context) ([]models.EnrollmentRecord, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, err
	}
	return FlattenEnrollments(students, s.now()), nil
}

// ListEnrollments fetches students and courses concurrently and returns the
// joined records.
func (s *EnrollmentService) ListEnrollments(ctx context.Context) ([]models.EnrollmentRecord, error) {
	var (
		records []models.EnrollmentRecord
		courses []models.Course
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.AllEnrollments(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		courses, err = s.courses.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return JoinCourseNames(records, courses), nil
}

// StudentEnrollments returns the records of one student with course names
// taken from the course cache.
func (s *EnrollmentService) StudentEnrollments(ctx context.Context, studentID int64) ([]models.EnrollmentRecord, error) {
	student, err := s.students.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	records := FlattenEnrollments([]models.Student{*student}, s.now())
	for i := range records {
		if course, ok := s.courses.Find(records[i].CourseID); ok {
			records[i].CourseName = course.CourseName
		}
	}
	return records, nil
}

// CourseEnrollments returns the records pointing at courseID.
func (s *EnrollmentService) CourseEnrollments(ctx context.Context, courseID int64) ([]models.EnrollmentRecord, error) {
	course, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	all, err := s.AllEnrollments(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]models.EnrollmentRecord, 0)
	for _, r := range all {
		if r.CourseID == courseID {
			r.CourseName = course.CourseName
			records = append(records, r)
		}
	}
	return records, nil
}

func (s *EnrollmentService) record(studentID, courseID int64) *models.EnrollmentRecord {
	rec := &models.EnrollmentRecord{
		StudentID:  studentID,
		CourseID:   courseID,
		EnrolledAt: s.now().UTC(),
	}
	if student, ok := s.students.Find(studentID); ok {
		rec.StudentName = student.FullName()
	}
	if course, ok := s.courses.Find(courseID); ok {
		rec.CourseName = course.CourseName
	}
	return rec
}

// FlattenEnrollments yields one record per (student, course id) pair. Students
// without course ids contribute nothing.
func FlattenEnrollments(students []models.Student, at time.Time) []models.EnrollmentRecord {
	records := make([]models.EnrollmentRecord, 0)
	for _, student := range students {
		for _, courseID := range models.UniqueIDs(student.CourseIDs) {
			records = append(records, models.EnrollmentRecord{
				StudentID:   student.ID,
				CourseID:    courseID,
				EnrolledAt:  at.UTC(),
				StudentName: student.FullName(),
			})
		}
	}
	return records
}

// JoinCourseNames backfills course names from courses. Records whose course is
// unknown keep a blank name. The input slice is not modified.
func JoinCourseNames(records []models.EnrollmentRecord, courses []models.Course) []models.EnrollmentRecord {
	names := make(map[int64]string, len(courses))
	for _, c := range courses {
		names[c.ID] = c.CourseName
	}
	out := make([]models.EnrollmentRecord, len(records))
	for i, r := range records {
		r.CourseName = names[r.CourseID]
		out[i] = r
	}
	return out
}

func withoutID(ids []int64, drop int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}

func validatePair(studentID, courseID int64) error {
	if studentID <= 0 || courseID <= 0 {
		return appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "studentId and courseId must be positive")
	}
	return nil
}
