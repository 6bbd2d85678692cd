package models

import (
	"time"
)

// Student defines the student model based on the 'students' table.
// StudentID is immutable once created; every other field except Name is nullable.
// The password hash is never part of this type.
type Student struct {
	StudentID string    `json:"student_id" db:"student_id" example:"S2024001"`
	Name      string    `json:"name" db:"name" example:"Li Hua"`
	Gender    *string   `json:"gender" db:"gender" example:"F"`
	Age       *int      `json:"age" db:"age" example:"20"`
	ClassName *string   `json:"class_name" db:"class_name" example:"CS-2401"`
	Major     *string   `json:"major" db:"major" example:"Computer Science"`
	Phone     *string   `json:"phone" db:"phone" example:"13800000000"`
	Email     *string   `json:"email" db:"email" example:"lihua@example.com"`
	CreatedAt time.Time `json:"created_at" db:"created_at" example:"2024-09-01T08:00:00Z"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" example:"2024-09-02T10:30:00Z"`
}

// NewStudent is the input for inserting a student row
type NewStudent struct {
	StudentID    string
	Name         string
	Gender       *string
	Age          *int
	ClassName    *string
	Major        *string
	Phone        *string
	Email        *string
	PasswordHash string
}

// StudentCredentials carries the stored hash for password checks only
type StudentCredentials struct {
	Student      *Student
	PasswordHash string
}

// StudentFilter narrows FindAll. Empty strings impose no constraint.
type StudentFilter struct {
	Search string // substring of name, student_id or class_name
	Class  string // substring of class_name
	Major  string // substring of major
}

// StudentUpdate is a sparse set of column changes. Only fields with Set=true are written.
type StudentUpdate struct {
	Name         Optional[string]
	Gender       Optional[string]
	Age          Optional[int]
	ClassName    Optional[string]
	Major        Optional[string]
	Phone        Optional[string]
	Email        Optional[string]
	PasswordHash Optional[string]
}

// IsEmpty reports whether no field was supplied
func (u StudentUpdate) IsEmpty() bool {
	return !u.Name.Set && !u.Gender.Set && !u.Age.Set && !u.ClassName.Set &&
		!u.Major.Set && !u.Phone.Set && !u.Email.Set && !u.PasswordHash.Set
}
