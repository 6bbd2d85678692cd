package dto

import "github.com/yigit/studentms/internal/app/models"

// AdminLoginRequest represents admin login credentials
type AdminLoginRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"admin123"`
}

// StudentLoginRequest represents student login credentials
type StudentLoginRequest struct {
	StudentID string `json:"studentId" example:"S2024001"`
	Password  string `json:"password" example:"p1"`
}

// AdminData is the public view of an admin account
type AdminData struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"admin"`
}

// NewAdminData converts an admin model
func NewAdminData(a *models.Admin) *AdminData {
	if a == nil {
		return nil
	}
	return &AdminData{ID: a.ID, Username: a.Username}
}

// TokenFields are attached to every login response
type TokenFields struct {
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType string `json:"token_type" example:"Bearer"`
	ExpiresIn int64  `json:"expires_in" example:"7200"`
}

// AdminLoginResponse is returned by a successful admin login
type AdminLoginResponse struct {
	Envelope
	Admin *AdminData `json:"admin"`
	TokenFields
}

// StudentLoginResponse is returned by a successful student login
type StudentLoginResponse struct {
	Envelope
	Student *models.Student `json:"student"`
	TokenFields
}
