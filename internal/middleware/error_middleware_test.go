package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studentms/internal/app/models/dto"
	"github.com/yigit/studentms/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleAPIError_StatusMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperrors.NewValidationError("age must be between 15 and 50"), http.StatusBadRequest, "age must be between 15 and 50"},
		{"no fields", apperrors.ErrNoFieldsToUpdate, http.StatusBadRequest, "no fields to update"},
		{"bad request", apperrors.NewBadRequestError("unknown field \"foo\""), http.StatusBadRequest, "unknown field \"foo\""},
		{"credentials", apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "invalid student ID or password"), http.StatusUnauthorized, "invalid student ID or password"},
		{"revoked", apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.MsgInvalidToken},
		{"missing token", apperrors.ErrUnauthorized, http.StatusUnauthorized, dto.MsgAuthRequired},
		{"forbidden", apperrors.NewForbiddenError("you can only access your own record"), http.StatusForbidden, "you can only access your own record"},
		{"not found", fmt.Errorf("lookup: %w", apperrors.ErrStudentNotFound), http.StatusNotFound, "student not found"},
		{"conflict", apperrors.ErrStudentIDAlreadyExists, http.StatusConflict, "student ID already exists"},
		{"method", apperrors.ErrMethodNotAllowed, http.StatusMethodNotAllowed, dto.MsgMethodNotAllowed},
		{"internal", errors.New("pq: relation \"students\" does not exist"), http.StatusInternalServerError, dto.MsgInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/students/S1", nil)

			HandleAPIError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tc.message, body["message"])
			assert.Len(t, body, 2)
		})
	}
}

func TestRoutingFallbacks(t *testing.T) {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(MethodNotAllowed())
	r.NoRoute(NotFound())
	r.Use(Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/boom", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"method not allowed"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"internal server error"}`, w.Body.String())
}
