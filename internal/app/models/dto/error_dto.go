package dto

// ErrorResponse is the failure envelope. Only a user-facing message is
// returned; internal details go to the log.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"student not found"`
}

// NewErrorResponse creates a failure envelope
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: message,
	}
}
