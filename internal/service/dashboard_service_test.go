package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-admin-console/internal/models"
	appErrors "github.com/noah-isme/student-admin-console/pkg/errors"
)

type fakeStudentLister struct {
	students []models.Student
	err      error
	calls    int
}

func (f *fakeStudentLister) List(context.Context) ([]models.Student, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.students, nil
}

type fakeCourseLister struct {
	courses   []models.Course
	err       error
	activeErr error
	calls     int
}

func (f *fakeCourseLister) List(context.Context) ([]models.Course, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.courses, nil
}

func (f *fakeCourseLister) ListActive(context.Context) ([]models.Course, error) {
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	var active []models.Course
	for _, c := range f.courses {
		if c.IsActive {
			active = append(active, c)
		}
	}
	return active, nil
}

func dashboardFixtures() (*fakeStudentLister, *fakeCourseLister) {
	students := &fakeStudentLister{}
	for i := int64(1); i <= 7; i++ {
		students.students = append(students.students, models.Student{ID: i, FirstName: "S", CourseIDs: make([]int64, i%3)})
	}
	courses := &fakeCourseLister{courses: []models.Course{
		{ID: 1, CourseName: "A", IsActive: true},
		{ID: 2, CourseName: "B"},
		{ID: 3, CourseName: "C", IsActive: true},
	}}
	return students, courses
}

func TestDashboardServiceSummary(t *testing.T) {
	students, courses := dashboardFixtures()
	svc := NewDashboardService(DashboardServiceParams{Students: students, Courses: courses})
	fixed := time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, summary.TotalStudents)
	assert.Equal(t, 3, summary.TotalCourses)
	assert.Equal(t, 2, summary.ActiveCourses)
	// course id counts 1,2,0,1,2,0,1
	assert.Equal(t, 7, summary.TotalEnrollments)
	assert.Len(t, summary.RecentStudents, 5)
	assert.Len(t, summary.RecentCourses, 3)
	assert.Empty(t, summary.Unavailable)
	assert.Equal(t, fixed, summary.GeneratedAt)
}

func TestDashboardServiceRecomputesEachCall(t *testing.T) {
	students, courses := dashboardFixtures()
	svc := NewDashboardService(DashboardServiceParams{Students: students, Courses: courses})

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)
	_, err = svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, students.calls)
	assert.Equal(t, 2, courses.calls)
}

func TestDashboardServicePartialFailure(t *testing.T) {
	students, courses := dashboardFixtures()
	courses.activeErr = appErrors.Clone(appErrors.ErrNetwork, "down")
	svc := NewDashboardService(DashboardServiceParams{Students: students, Courses: courses})

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.ActiveCourses)
	assert.Equal(t, 3, summary.TotalCourses)
	assert.Equal(t, []string{"activeCourses"}, summary.Unavailable)
}

func TestDashboardServiceAllSectionsFail(t *testing.T) {
	down := appErrors.Clone(appErrors.ErrNetwork, "down")
	svc := NewDashboardService(DashboardServiceParams{
		Students: &fakeStudentLister{err: down},
		Courses:  &fakeCourseLister{err: down, activeErr: down},
	})

	_, err := svc.Summary(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNetwork))
}
