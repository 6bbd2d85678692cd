package auth

import (
	"github.com/yigit/studentms/internal/pkg/apperrors"
	"github.com/yigit/studentms/internal/pkg/auth"
)

// Forbidden messages
const (
	MsgAdminOnly     = "admin privileges required"
	MsgOwnRecordOnly = "you can only access your own record"
	// MsgPasswordViaPasswordRoute points students at the route that checks the current password
	MsgPasswordViaPasswordRoute = "use PUT /students/{id}/password to change your password"
)

// Principal is the authenticated caller of a request
type Principal struct {
	Subject string
	Role    auth.Role
}

// PrincipalFromClaims extracts the caller from validated token claims
func PrincipalFromClaims(claims *auth.Claims) Principal {
	if claims == nil {
		return Principal{}
	}
	return Principal{Subject: claims.Subject, Role: claims.Role}
}

// IsAdmin reports whether the caller holds an admin token
func (p Principal) IsAdmin() bool {
	return p.Role == auth.RoleAdmin
}

// RequireAdmin fails unless the caller is an admin
func RequireAdmin(p Principal) error {
	if !p.IsAdmin() {
		return apperrors.NewForbiddenError(MsgAdminOnly)
	}
	return nil
}

// CanAccessStudent allows admins, and students acting on their own record
func CanAccessStudent(p Principal, studentID string) error {
	if p.IsAdmin() {
		return nil
	}
	if p.Role == auth.RoleStudent && p.Subject != "" && p.Subject == studentID {
		return nil
	}
	return apperrors.NewForbiddenError(MsgOwnRecordOnly)
}

// CanUpdatePassword decides whether a generic profile update may carry a new
// password. Only admins may; students must prove the current one instead.
func CanUpdatePassword(p Principal) error {
	if p.IsAdmin() {
		return nil
	}
	return apperrors.NewForbiddenError(MsgPasswordViaPasswordRoute)
}
