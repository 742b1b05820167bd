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

type studentStore interface {
	List(ctx context.Context) ([]models.Student, error)
	Search(ctx context.Context, query string) ([]models.Student, error)
	Get(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, form models.StudentForm) (*models.Student, error)
	Update(ctx context.Context, id int64, form models.StudentForm) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
	AddCourses(ctx context.Context, studentID int64, courseIDs []int64) error
	Subscribe(fn store.Subscriber[models.Student]) func()
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students  studentStore
	validate  *validator.Validate
	heartbeat time.Duration
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentStore, validate *validator.Validate) *StudentHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &StudentHandler{students: students, validate: validate, heartbeat: defaultHeartbeat}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param q query string false "Free-text search; blank lists everything"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	if q := c.Query("q"); q != "" {
		h.Search(c)
		return
	}
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, map[string]interface{}{"count": len(students)})
}

// Search godoc
// @Summary Search students
// @Tags Students
// @Produce json
// @Param q query string false "Search query"
// @Success 200 {object} response.Envelope
// @Router /students/search [get]
func (h *StudentHandler) Search(c *gin.Context) {
	students, err := h.students.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, map[string]interface{}{"count": len(students)})
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body models.StudentForm true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	form, err := h.bindForm(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.students.Create(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body models.StudentForm true "Student payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
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
	student, err := h.students.Update(c.Request.Context(), id, form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Delete godoc
// @Summary Delete student
// @Tags Students
// @Param id path int true "Student ID"
// @Success 204
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.students.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddCourses godoc
// @Summary Associate courses with a student
// @Tags Students
// @Accept json
// @Param id path int true "Student ID"
// @Param payload body []int true "Course IDs"
// @Success 204
// @Router /students/{id}/courses [post]
func (h *StudentHandler) AddCourses(c *gin.Context) {
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
	if err := h.students.AddCourses(c.Request.Context(), id, ids); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Stream godoc
// @Summary Stream the cached student collection
// @Description Server-sent events: a "snapshot" event carries the full collection after every change.
// @Tags Students
// @Produce text/event-stream
// @Router /students/stream [get]
func (h *StudentHandler) Stream(c *gin.Context) {
	streamCollection(c, h.students.Subscribe, h.heartbeat)
}

func (h *StudentHandler) bindForm(c *gin.Context) (models.StudentForm, error) {
	var form models.StudentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		return form, invalidPayload(err)
	}
	form = form.Trim()
	if err := validateForm(h.validate, form); err != nil {
		return form, err
	}
	return form, nil
}
