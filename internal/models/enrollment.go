package models

import "time"

// EnrollmentRecord is a derived (student, course) pair. It has no identity of
// its own; EnrolledAt is stamped when the record is built and is display-only.
type EnrollmentRecord struct {
	StudentID   int64     `json:"studentId"`
	CourseID    int64     `json:"courseId"`
	EnrolledAt  time.Time `json:"enrolledAt"`
	StudentName string    `json:"studentName"`
	CourseName  string    `json:"courseName"`
}
