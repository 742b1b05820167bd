package models

import "strings"

// Student is a learner as returned by the backend. CourseIDs is the only
// client-side evidence of enrollment.
type Student struct {
	ID          int64   `json:"id,omitempty"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	DateOfBirth string  `json:"dateOfBirth"`
	PhoneNumber string  `json:"phoneNumber,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
	CourseIDs   []int64 `json:"courseIds,omitempty"`
}

// StudentForm is the create/update payload for a student.
type StudentForm struct {
	FirstName   string  `json:"firstName" validate:"required,max=50"`
	LastName    string  `json:"lastName" validate:"required,max=50"`
	Email       string  `json:"email" validate:"required,email,max=100"`
	DateOfBirth string  `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	PhoneNumber string  `json:"phoneNumber,omitempty" validate:"omitempty,max=20"`
	CourseIDs   []int64 `json:"courseIds" validate:"omitempty,unique,dive,gt=0"`
}

// Identity implements the store entity contract.
func (s Student) Identity() int64 {
	return s.ID
}

// FullName joins first and last name the way list screens display it.
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// HasCourse reports whether courseID is among the student's course ids.
func (s Student) HasCourse(courseID int64) bool {
	for _, id := range s.CourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}

// Normalize returns s with CourseIDs deduplicated, keeping first-seen order.
func (s Student) Normalize() Student {
	s.CourseIDs = UniqueIDs(s.CourseIDs)
	return s
}

// Form converts the entity back to its write payload.
func (s Student) Form() StudentForm {
	ids := make([]int64, len(s.CourseIDs))
	copy(ids, s.CourseIDs)
	return StudentForm{
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		Email:       s.Email,
		DateOfBirth: s.DateOfBirth,
		PhoneNumber: s.PhoneNumber,
		CourseIDs:   ids,
	}
}

// Trim strips surrounding whitespace from the text fields.
func (f StudentForm) Trim() StudentForm {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.DateOfBirth = strings.TrimSpace(f.DateOfBirth)
	f.PhoneNumber = strings.TrimSpace(f.PhoneNumber)
	return f
}

// UniqueIDs drops duplicate ids while preserving order. A nil input stays nil.
func UniqueIDs(ids []int64) []int64 {
	if ids == nil {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
