package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-admin-console/internal/models"
	"github.com/noah-isme/student-admin-console/internal/store"
)

type fakeCourseStore struct {
	courses     []models.Course
	err         error
	activeCalls int
	created     *models.CourseForm
	added       []int64
}

func (f *fakeCourseStore) List(context.Context) ([]models.Course, error) { return f.courses, f.err }

func (f *fakeCourseStore) ListActive(context.Context) ([]models.Course, error) {
	f.activeCalls++
	var out []models.Course
	for _, c := range f.courses {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, f.err
}

func (f *fakeCourseStore) Search(context.Context, string) ([]models.Course, error) {
	return f.courses, f.err
}

func (f *fakeCourseStore) Get(_ context.Context, id int64) (*models.Course, error) {
	return &models.Course{ID: id}, f.err
}

func (f *fakeCourseStore) Create(_ context.Context, form models.CourseForm) (*models.Course, error) {
	f.created = &form
	return &models.Course{ID: 3, CourseCode: form.CourseCode}, f.err
}

func (f *fakeCourseStore) Update(_ context.Context, id int64, form models.CourseForm) (*models.Course, error) {
	return &models.Course{ID: id, CourseCode: form.CourseCode}, f.err
}

func (f *fakeCourseStore) Delete(context.Context, int64) error { return f.err }

func (f *fakeCourseStore) AddStudents(_ context.Context, _ int64, ids []int64) error {
	f.added = ids
	return f.err
}

func (f *fakeCourseStore) Subscribe(fn store.Subscriber[models.Course]) func() {
	fn(f.courses)
	return func() {}
}

func courseRouter(cs *fakeCourseStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCourseHandler(cs, nil)
	r := gin.New()
	r.GET("/courses", h.List)
	r.GET("/courses/active", h.Active)
	r.GET("/courses/:id", h.Get)
	r.POST("/courses", h.Create)
	r.PUT("/courses/:id", h.Update)
	r.DELETE("/courses/:id", h.Delete)
	r.POST("/courses/:id/students", h.AddStudents)
	return r
}

const validCourse = `{"courseCode":"CS101","courseName":"Intro to CS","credits":3,"price":120.5,"isActive":true}`

func TestCourseHandlerActive(t *testing.T) {
	cs := &fakeCourseStore{courses: []models.Course{{ID: 1, IsActive: true}, {ID: 2}}}
	rec := doRequest(courseRouter(cs), http.MethodGet, "/courses/active", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var courses []models.Course
	decodeEnvelope(t, rec, &courses)
	require.Len(t, courses, 1)
	assert.EqualValues(t, 1, courses[0].ID)
	assert.Equal(t, 1, cs.activeCalls)
}

func TestCourseHandlerCreate(t *testing.T) {
	cs := &fakeCourseStore{}
	rec := doRequest(courseRouter(cs), http.MethodPost, "/courses", validCourse)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, cs.created)
	assert.Equal(t, 3, cs.created.Credits)
}

func TestCourseHandlerCreditsEnforcedAtForm(t *testing.T) {
	cs := &fakeCourseStore{}
	body := `{"courseCode":"CS101","courseName":"Intro to CS","credits":9,"price":10}`
	rec := doRequest(courseRouter(cs), http.MethodPost, "/courses", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec, nil)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "Credits failed max=6")
	assert.Nil(t, cs.created)
}

func TestCourseHandlerAddStudents(t *testing.T) {
	cs := &fakeCourseStore{}
	rec := doRequest(courseRouter(cs), http.MethodPost, "/courses/2/students", `{"ids":[1,2]}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []int64{1, 2}, cs.added)
}

func TestCourseHandlerUpdateRejectsBadID(t *testing.T) {
	rec := doRequest(courseRouter(&fakeCourseStore{}), http.MethodPut, "/courses/0", validCourse)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
