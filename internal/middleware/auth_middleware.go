package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/studentms/internal/app/auth"
	"github.com/yigit/studentms/internal/pkg/apperrors"
	"github.com/yigit/studentms/internal/pkg/auth"
)

// ContextKeyClaims is the gin context key holding the validated *auth.Claims
const ContextKeyClaims = "claims"

// TokenAuthenticator verifies an access token, including revocation
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	authenticator TokenAuthenticator
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authenticator TokenAuthenticator) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator}
}

// JWTAuth middleware for JWT token validation. Only the Authorization header is
// accepted; tokens in query strings end up in access logs.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			HandleAPIError(c, apperrors.ErrUnauthorized)
			return
		}

		claims, err := m.authenticator.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// AdminRequired rejects callers that do not hold an admin token. JWTAuth must run first.
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := GetPrincipal(c)
		if err != nil {
			HandleAPIError(c, err)
			return
		}
		if err := appauth.RequireAdmin(principal); err != nil {
			HandleAPIError(c, err)
			return
		}
		c.Next()
	}
}

// GetClaims returns the claims stored by JWTAuth
func GetClaims(c *gin.Context) (*auth.Claims, error) {
	value, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil, apperrors.ErrUnauthorized
	}
	claims, ok := value.(*auth.Claims)
	if !ok || claims == nil {
		return nil, errors.New("invalid claims type in context")
	}
	return claims, nil
}

// GetPrincipal returns the authenticated caller
func GetPrincipal(c *gin.Context) (appauth.Principal, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return appauth.Principal{}, err
	}
	return appauth.PrincipalFromClaims(claims), nil
}
