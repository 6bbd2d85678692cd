package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/studentms/internal/pkg/apperrors"
	"github.com/yigit/studentms/internal/pkg/auth"
)

type jwtAuthenticator struct {
	jwt *auth.JWTService
}

func (a jwtAuthenticator) Authenticate(_ context.Context, token string) (*auth.Claims, error) {
	claims, err := a.jwt.ValidateToken(token)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "k", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	m := NewAuthMiddleware(jwtAuthenticator{jwt: jwtService})

	r := gin.New()
	r.GET("/me", m.JWTAuth(), func(c *gin.Context) {
		p, err := GetPrincipal(c)
		if err != nil {
			HandleAPIError(c, err)
			return
		}
		c.String(http.StatusOK, p.Subject)
	})
	r.GET("/admin", m.JWTAuth(), m.AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	adminToken, _ := jwtService.GenerateToken("1", auth.RoleAdmin)
	studentToken, _ := jwtService.GenerateToken("S1", auth.RoleStudent)

	do := func(path, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, do("/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do("/me", "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, do("/me", "Bearer not.a.token").Code)

	w := do("/me", "Bearer "+studentToken.Token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "S1", w.Body.String())

	assert.Equal(t, http.StatusForbidden, do("/admin", "Bearer "+studentToken.Token).Code)
	assert.Equal(t, http.StatusNoContent, do("/admin", "Bearer "+adminToken.Token).Code)
}
