package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/student-admin-console/internal/models"
	"github.com/noah-isme/student-admin-console/internal/store"
	"github.com/noah-isme/student-admin-console/pkg/response"
)

type courseStore interface {
	List(ctx context.Context) ([]models.Course, error)
	ListActive(ctx context.Context) ([]models.Course, error)
	Search(ctx context.Context, query string) ([]models.Course, error)
	Get(ctx context.Context, id int64) (*models.Course, error)
	Create(ctx context.Context, form models.CourseForm) (*models.Course, error)
	Update(ctx context.Context, id int64, form models.CourseForm) (*models.Course, error)
	Delete(ctx context.Context, id int64) error
	AddStudents(ctx context.Context, courseID int64, studentIDs []int64) error
	Subscribe(fn store.Subscriber[models.Course]) func()
}

// CourseHandler exposes course endpoints.
type CourseHandler struct {
	courses   courseStore
	validate  *validator.Validate
	heartbeat time.Duration
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses courseStore, validate *validator.Validate) *CourseHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &CourseHandler{courses: courses, validate: validate, heartbeat: defaultHeartbeat}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param q query string false "Free-text search; blank lists everything"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	if q := c.Query("q"); q != "" {
		h.Search(c)
		return
	}
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, map[string]interface{}{"count": len(courses)})
}

// Active godoc
// @Summary List active courses
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses/active [get]
func (h *CourseHandler) Active(c *gin.Context) {
	courses, err := h.courses.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, map[string]interface{}{"count": len(courses)})
}

// Search godoc
// @Summary Search courses
// @Tags Courses
// @Produce json
// @Param q query string false "Search query"
// @Success 200 {object} response.Envelope
// @Router /courses/search [get]
func (h *CourseHandler) Search(c *gin.Context) {
	courses, err := h.courses.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, map[string]interface{}{"count": len(courses)})
}

// Get godoc
// @Summary Get course detail
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.courses.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body models.CourseForm true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	form, err := h.bindForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.courses.Create(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary Update course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param payload body models.CourseForm true "Course payload"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	form, err := h.bindForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.courses.Update(c.Request.Context(), id, form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// Delete godoc
// @Summary Delete course
// @Tags Courses
// @Param id path int true "Course ID"
// @Success 204
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.courses.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddStudents godoc
// @Summary Associate students with a course
// @Tags Courses
// @Accept json
// @Param id path int true "Course ID"
// @Param payload body []int true "Student IDs"
// @Success 204
// @Router /courses/{id}/students [post]
func (h *CourseHandler) AddStudents(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	ids, err := bindIDs(c, h.validate)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.courses.AddStudents(c.Request.Context(), id, ids); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Stream godoc
// @Summary Stream the cached course collection
// @Tags Courses
// @Produce text/event-stream
// @Router /courses/stream [get]
func (h *CourseHandler) Stream(c *gin.Context) {
	streamCollection(c, h.courses.Subscribe, h.heartbeat)
}

func (h *CourseHandler) bindForm(c *gin.Context) (models.CourseForm, error) {
	var form models.CourseForm
	if err := c.ShouldBindJSON(&form); err != nil {
		return form, invalidPayload(err)
	}
	form = form.Trim()
	if err := validateForm(h.validate, form); err != nil {
		return form, err
	}
	return form, nil
}
