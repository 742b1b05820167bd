package service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/student-admin-console/internal/models"
	appErrors "github.com/noah-isme/student-admin-console/pkg/errors"
	"github.com/noah-isme/student-admin-console/pkg/export"
	"github.com/noah-isme/student-admin-console/pkg/logger"
)

// Export datasets.
const (
	DatasetStudents    = "students"
	DatasetCourses     = "courses"
	DatasetEnrollments = "enrollments"
)

type calendarRenderer interface {
	Render(name string, events []export.CalendarEvent, stamp time.Time) ([]byte, error)
	ContentType() string
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders store collections as downloadable files. Collections
// are re-listed first so exports reflect the backend.
type ExportService struct {
	students  studentLister
	courses   courseLister
	renderers map[export.Format]export.Renderer
	calendar  calendarRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the
// defaults.
func NewExportService(students studentLister, courses courseLister, renderers map[export.Format]export.Renderer, calendar calendarRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderers == nil {
		renderers = export.Renderers()
	}
	if calendar == nil {
		calendar = export.NewCalendar("")
	}
	return &ExportService{
		students:  students,
		courses:   courses,
		renderers: renderers,
		calendar:  calendar,
		logger:    logger,
		now:       time.Now,
	}
}

// Export renders dataset in the requested format.
func (s *ExportService) Export(ctx context.Context, dataset, format string) (*ExportFile, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, err.Error())
	}
	renderer, ok := s.renderers[f]
	if !ok {
		return nil, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, fmt.Sprintf("format %s is not available", f))
	}

	data, err := s.Dataset(ctx, dataset)
	if err != nil {
		return nil, err
	}

	body, err := renderer.Render(data)
	if err != nil {
		logger.ForContext(ctx, s.logger).Error("export render failed",
			zap.String("dataset", dataset), zap.String("format", string(f)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("%s-%s.%s", data.Name, s.now().UTC().Format("20060102"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

// Dataset builds the tabular content of a named dataset.
func (s *ExportService) Dataset(ctx context.Context, name string) (export.Dataset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case DatasetStudents:
		students, err := s.students.List(ctx)
		if err != nil {
			return export.Dataset{}, err
		}
		return studentDataset(students), nil
	case DatasetCourses:
		courses, err := s.courses.List(ctx)
		if err != nil {
			return export.Dataset{}, err
		}
		return courseDataset(courses), nil
	case DatasetEnrollments:
		var (
			students []models.Student
			courses  []models.Course
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			students, err = s.students.List(gctx)
			return err
		})
		g.Go(func() (err error) {
			courses, err = s.courses.List(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return export.Dataset{}, err
		}
		records := JoinCourseNames(FlattenEnrollments(students, s.now()), courses)
		return enrollmentDataset(records), nil
	default:
		return export.Dataset{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown dataset %q", name))
	}
}

// CourseCalendar renders an ICS feed with one all-day event per dated course.
func (s *ExportService) CourseCalendar(ctx context.Context) (*ExportFile, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]export.CalendarEvent, 0, len(courses))
	for _, c := range courses {
		start, ok := parseDate(c.StartDate)
		if !ok {
			continue
		}
		end, _ := parseDate(c.EndDate)
		modified, _ := time.Parse("2006-01-02T15:04:05", c.UpdatedAt)
		events = append(events, export.CalendarEvent{
			UID:         fmt.Sprintf("course-%d@student-admin-console", c.ID),
			Summary:     strings.TrimSpace(c.CourseCode + " " + c.CourseName),
			Description: c.Description,
			Start:       start,
			End:         end,
			Modified:    modified,
		})
	}

	body, err := s.calendar.Render("Courses", events, s.now().UTC())
	if err != nil {
		logger.ForContext(ctx, s.logger).Error("calendar render failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render calendar")
	}
	return &ExportFile{Filename: "courses.ics", ContentType: s.calendar.ContentType(), Body: body}, nil
}

func studentDataset(students []models.Student) export.Dataset {
	ds := export.Dataset{
		Name:  DatasetStudents,
		Title: "Students",
		Columns: []export.Column{
			{Key: "id", Label: "ID", Width: 0.5},
			{Key: "name", Label: "Name", Width: 1.6},
			{Key: "email", Label: "Email", Width: 2},
			{Key: "dateOfBirth", Label: "Date of Birth"},
			{Key: "phoneNumber", Label: "Phone"},
			{Key: "courses", Label: "Courses", Width: 0.6},
		},
	}
	for _, st := range students {
		ds.Rows = append(ds.Rows, map[string]string{
			"id":          strconv.FormatInt(st.ID, 10),
			"name":        st.FullName(),
			"email":       st.Email,
			"dateOfBirth": st.DateOfBirth,
			"phoneNumber": st.PhoneNumber,
			"courses":     strconv.Itoa(len(st.CourseIDs)),
		})
	}
	return ds
}

func courseDataset(courses []models.Course) export.Dataset {
	ds := export.Dataset{
		Name:  DatasetCourses,
		Title: "Courses",
		Columns: []export.Column{
			{Key: "id", Label: "ID", Width: 0.5},
			{Key: "code", Label: "Code", Width: 0.8},
			{Key: "name", Label: "Name", Width: 2},
			{Key: "credits", Label: "Credits", Width: 0.6},
			{Key: "price", Label: "Price", Width: 0.8},
			{Key: "startDate", Label: "Start"},
			{Key: "endDate", Label: "End"},
			{Key: "active", Label: "Active", Width: 0.6},
		},
	}
	for _, c := range courses {
		ds.Rows = append(ds.Rows, map[string]string{
			"id":        strconv.FormatInt(c.ID, 10),
			"code":      c.CourseCode,
			"name":      c.CourseName,
			"credits":   strconv.Itoa(c.Credits),
			"price":     strconv.FormatFloat(c.Price, 'f', 2, 64),
			"startDate": c.StartDate,
			"endDate":   c.EndDate,
			"active":    strconv.FormatBool(c.IsActive),
		})
	}
	return ds
}

func enrollmentDataset(records []models.EnrollmentRecord) export.Dataset {
	ds := export.Dataset{
		Name:  DatasetEnrollments,
		Title: "Enrollments",
		Columns: []export.Column{
			{Key: "studentId", Label: "Student ID", Width: 0.7},
			{Key: "studentName", Label: "Student", Width: 1.6},
			{Key: "courseId", Label: "Course ID", Width: 0.7},
			{Key: "courseName", Label: "Course", Width: 2},
		},
	}
	for _, r := range records {
		ds.Rows = append(ds.Rows, map[string]string{
			"studentId":   strconv.FormatInt(r.StudentID, 10),
			"studentName": r.StudentName,
			"courseId":    strconv.FormatInt(r.CourseID, 10),
			"courseName":  r.CourseName,
		})
	}
	return ds
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) < len("2006-01-02") {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", raw[:10])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
