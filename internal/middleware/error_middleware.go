package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentms/internal/app/models/dto"
	"github.com/yigit/studentms/internal/pkg/apperrors"
	"github.com/yigit/studentms/internal/pkg/logger"
)

// HandleAPIError maps err onto a status code and the failure envelope.
// Unrecognized errors are logged and answered with a generic 500.
func HandleAPIError(c *gin.Context, err error) {
	status, message := classifyError(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error while serving request")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message))
}

func classifyError(err error) (int, string) {
	switch {
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		return http.StatusBadRequest, apperrors.UserMessage(err, "validation failed")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, apperrors.UserMessage(err, "invalid credentials")
	case apperrors.Is(err, apperrors.ErrTokenExpired, apperrors.ErrTokenInvalid, apperrors.ErrTokenRevoked):
		return http.StatusUnauthorized, dto.MsgInvalidToken
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, dto.MsgAuthRequired
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, apperrors.UserMessage(err, dto.MsgPermissionDenied)
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, apperrors.UserMessage(err, "resource not found")
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, apperrors.UserMessage(err, "resource already exists")
	case errors.Is(err, apperrors.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, dto.MsgMethodNotAllowed
	default:
		return http.StatusInternalServerError, dto.MsgInternalServerError
	}
}

// MethodNotAllowed answers a known path requested with an unsupported method.
// OPTIONS without an Origin header still gets 200, like a preflight.
func MethodNotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		HandleAPIError(c, apperrors.ErrMethodNotAllowed)
	}
}

// NotFound answers unknown routes with the failure envelope
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponse(dto.MsgRouteNotFound))
	}
}

// Recovery turns a panic into the generic 500 envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().
			Interface("panic", recovered).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.MsgInternalServerError))
	})
}
