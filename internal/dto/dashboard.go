package dto

import (
	"time"

	"github.com/noah-isme/student-admin-console/internal/models"
)

// DashboardSummary is the read-only overview payload.
type DashboardSummary struct {
	TotalStudents    int              `json:"totalStudents"`
	TotalCourses     int              `json:"totalCourses"`
	ActiveCourses    int              `json:"activeCourses"`
	TotalEnrollments int              `json:"totalEnrollments"`
	RecentStudents   []models.Student `json:"recentStudents"`
	RecentCourses    []models.Course  `json:"recentCourses"`
	// Unavailable lists the sections whose backend fetch failed. Their counts are zero.
	Unavailable []string  `json:"unavailable,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}
