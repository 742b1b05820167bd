package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/student-admin-console/internal/dto"
	"github.com/noah-isme/student-admin-console/internal/models"
	"github.com/noah-isme/student-admin-console/pkg/response"
)

type enrollmentService interface {
	ListEnrollments(ctx context.Context) ([]models.EnrollmentRecord, error)
	StudentEnrollments(ctx context.Context, studentID int64) ([]models.EnrollmentRecord, error)
	CourseEnrollments(ctx context.Context, courseID int64) ([]models.EnrollmentRecord, error)
	Enroll(ctx context.Context, studentID, courseID int64) (*models.EnrollmentRecord, bool, error)
	Unenroll(ctx context.Context, studentID, courseID int64) (*models.Student, error)
}

// EnrollmentHandler manages the student/course join.
type EnrollmentHandler struct {
	enrollments enrollmentService
	validate    *validator.Validate
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments enrollmentService, validate *validator.Validate) *EnrollmentHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &EnrollmentHandler{enrollments: enrollments, validate: validate}
}

// List godoc
// @Summary List enrollments with course names
// @Tags Enrollments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	records, err := h.enrollments.ListEnrollments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, map[string]interface{}{"count": len(records)})
}

// ByStudent godoc
// @Summary List enrollments of a student
// @Tags Enrollments
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/student/{id} [get]
func (h *EnrollmentHandler) ByStudent(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	records, err := h.enrollments.StudentEnrollments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, map[string]interface{}{"count": len(records)})
}

// ByCourse godoc
// @Summary List enrollments of a course
// @Tags Enrollments
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/course/{id} [get]
func (h *EnrollmentHandler) ByCourse(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	records, err := h.enrollments.CourseEnrollments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, map[string]interface{}{"count": len(records)})
}

// Enroll godoc
// @Summary Enroll a student in a course
// @Description Idempotent: the backend is always updated; 200 when the student already carried the course.
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body dto.EnrollRequest true "Enrollment"
// @Success 201 {object} response.Envelope
// @Success 200 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	if err := validateForm(h.validate, req); err != nil {
		response.Error(c, err)
		return
	}
	record, created, err := h.enrollments.Enroll(c.Request.Context(), req.StudentID, req.CourseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if created {
		response.Created(c, record)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

// Unenroll godoc
// @Summary Remove a student from a course
// @Tags Enrollments
// @Produce json
// @Param studentId path int true "Student ID"
// @Param courseId path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /enrollments/{studentId}/{courseId} [delete]
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	studentID, err := idParam(c, "studentId")
	if err != nil {
		response.Error(c, err)
		return
	}
	courseID, err := idParam(c, "courseId")
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.enrollments.Unenroll(c.Request.Context(), studentID, courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}
