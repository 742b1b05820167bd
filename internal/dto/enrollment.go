package dto

// EnrollRequest is the body of POST /enrollments.
type EnrollRequest struct {
	StudentID int64 `json:"studentId" validate:"required,gt=0"`
	CourseID  int64 `json:"courseId" validate:"required,gt=0"`
}

// AssociateRequest carries ids for the bulk association endpoints. The body may
// be either a bare JSON array or {"ids": [...]}.
type AssociateRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,unique,dive,gt=0"`
}
