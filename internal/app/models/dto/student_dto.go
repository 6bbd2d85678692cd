package dto

import (
	"github.com/yigit/studentms/internal/app/models"
	"github.com/yigit/studentms/internal/pkg/validation"
)

// CreateStudentRequest is the body of self-service registration and of admin-add.
// Registration requires every field; admin-add only studentId, name and password.
type CreateStudentRequest struct {
	StudentID string `json:"studentId" example:"S2024001"`
	Name      string `json:"name" example:"Li Hua"`
	Gender    string `json:"gender" example:"F"`
	Age       *int   `json:"age" example:"20"`
	ClassName string `json:"className" example:"CS-2401"`
	Major     string `json:"major" example:"Computer Science"`
	Phone     string `json:"phone" example:"13800000000"`
	Email     string `json:"email" example:"lihua@example.com"`
	Password  string `json:"password" example:"p1"`
}

// Fields flattens the request for the validator
func (r *CreateStudentRequest) Fields() validation.StudentFields {
	return validation.StudentFields{
		StudentID: r.StudentID,
		Name:      r.Name,
		Gender:    r.Gender,
		Age:       r.Age,
		ClassName: r.ClassName,
		Major:     r.Major,
		Phone:     r.Phone,
		Email:     r.Email,
		Password:  r.Password,
	}
}

// UpdateStudentRequest carries any subset of the editable fields.
// A key sent as null clears the column.
type UpdateStudentRequest struct {
	Name      models.Optional[string] `json:"name" swaggertype:"string" example:"Li Hua"`
	Gender    models.Optional[string] `json:"gender" swaggertype:"string" example:"F"`
	Age       models.Optional[int]    `json:"age" swaggertype:"integer" example:"21"`
	ClassName models.Optional[string] `json:"className" swaggertype:"string" example:"CS-2402"`
	Major     models.Optional[string] `json:"major" swaggertype:"string" example:"Software Engineering"`
	Phone     models.Optional[string] `json:"phone" swaggertype:"string" example:"999"`
	Email     models.Optional[string] `json:"email" swaggertype:"string" example:"li@example.com"`
	Password  models.Optional[string] `json:"password" swaggertype:"string" example:"newpass"`
}

// ToUpdate maps the request onto a StudentUpdate. The password is copied
// as plain text; the service hashes it before the update is applied.
func (r *UpdateStudentRequest) ToUpdate() models.StudentUpdate {
	return models.StudentUpdate{
		Name:         r.Name,
		Gender:       r.Gender,
		Age:          r.Age,
		ClassName:    r.ClassName,
		Major:        r.Major,
		Phone:        r.Phone,
		Email:        r.Email,
		PasswordHash: r.Password,
	}
}

// ChangePasswordRequest changes a student's password.
// Admins may omit currentPassword.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" example:"p1"`
	NewPassword     string `json:"newPassword" example:"p2"`
}

// StudentListQuery holds the list filters
type StudentListQuery struct {
	Search string `form:"search"`
	Class  string `form:"class"`
	Major  string `form:"major"`
}

// ToFilter converts the query into a repository filter
func (q StudentListQuery) ToFilter() models.StudentFilter {
	return models.StudentFilter{Search: q.Search, Class: q.Class, Major: q.Major}
}
