package dto

import "github.com/yigit/studentms/internal/app/models"

// Response messages
const (
	MsgLoginSucceeded      = "login successful"
	MsgLogoutSucceeded     = "logout successful"
	MsgRegisterSucceeded   = "registration successful"
	MsgStudentCreated      = "student added successfully"
	MsgStudentFetched      = "student fetched successfully"
	MsgStudentsFetched     = "students fetched successfully"
	MsgStudentUpdated      = "student updated successfully"
	MsgStudentDeleted      = "student deleted successfully"
	MsgPasswordChanged     = "password changed successfully"
	MsgHealthy             = "service is healthy"
	MsgInternalServerError = "internal server error"
	MsgMethodNotAllowed    = "method not allowed"
	MsgRouteNotFound       = "route not found"
	MsgAuthRequired        = "authentication required"
	MsgInvalidToken        = "invalid or expired token"
	MsgPermissionDenied    = "permission denied"
	MsgInvalidRequestBody  = "invalid request body"
)

// Envelope is embedded in every response body
type Envelope struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Operation completed successfully"`
}

// NewSuccess creates a success envelope
func NewSuccess(message string) Envelope {
	return Envelope{Success: true, Message: message}
}

// StudentResponse carries a single student
type StudentResponse struct {
	Envelope
	Student *models.Student `json:"student"`
}

// StudentListResponse carries a filtered student list
type StudentListResponse struct {
	Envelope
	Students []*models.Student `json:"students"`
	Total    int               `json:"total" example:"1"`
}

// NewStudentResponse wraps a student in a success envelope
func NewStudentResponse(message string, student *models.Student) StudentResponse {
	return StudentResponse{Envelope: NewSuccess(message), Student: student}
}

// NewStudentListResponse wraps students in a success envelope. A nil slice is
// written as an empty array.
func NewStudentListResponse(message string, students []*models.Student) StudentListResponse {
	if students == nil {
		students = []*models.Student{}
	}
	return StudentListResponse{
		Envelope: NewSuccess(message),
		Students: students,
		Total:    len(students),
	}
}
