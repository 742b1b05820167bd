package models

import "strings"

// Course is an offering as returned by the backend.
type Course struct {
	ID          int64   `json:"id,omitempty"`
	CourseCode  string  `json:"courseCode"`
	CourseName  string  `json:"courseName"`
	Description string  `json:"description,omitempty"`
	Credits     int     `json:"credits"`
	Price       float64 `json:"price"`
	StartDate   string  `json:"startDate,omitempty"`
	EndDate     string  `json:"endDate,omitempty"`
	IsActive    bool    `json:"isActive"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
	StudentIDs  []int64 `json:"studentIds,omitempty"`
}

// CourseForm is the create/update payload for a course. The credit range is
// enforced here, at the form, and never by the store.
type CourseForm struct {
	CourseCode  string  `json:"courseCode" validate:"required,min=3,max=10"`
	CourseName  string  `json:"courseName" validate:"required,min=5,max=100"`
	Description string  `json:"description,omitempty" validate:"max=500"`
	Credits     int     `json:"credits" validate:"required,min=1,max=6"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	StartDate   string  `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string  `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsActive    bool    `json:"isActive"`
	StudentIDs  []int64 `json:"studentIds,omitempty" validate:"omitempty,unique,dive,gt=0"`
}

// Identity implements the store entity contract.
func (c Course) Identity() int64 {
	return c.ID
}

// Normalize returns c with StudentIDs deduplicated.
func (c Course) Normalize() Course {
	c.StudentIDs = UniqueIDs(c.StudentIDs)
	return c
}

// Form converts the entity back to its write payload.
func (c Course) Form() CourseForm {
	return CourseForm{
		CourseCode:  c.CourseCode,
		CourseName:  c.CourseName,
		Description: c.Description,
		Credits:     c.Credits,
		Price:       c.Price,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		IsActive:    c.IsActive,
		StudentIDs:  UniqueIDs(c.StudentIDs),
	}
}

// Trim strips surrounding whitespace from the text fields.
func (f CourseForm) Trim() CourseForm {
	f.CourseCode = strings.TrimSpace(f.CourseCode)
	f.CourseName = strings.TrimSpace(f.CourseName)
	f.Description = strings.TrimSpace(f.Description)
	f.StartDate = strings.TrimSpace(f.StartDate)
	f.EndDate = strings.TrimSpace(f.EndDate)
	return f
}
