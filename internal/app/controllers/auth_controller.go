package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentms/internal/app/models/dto"
	"github.com/yigit/studentms/internal/app/services"
	"github.com/yigit/studentms/internal/middleware"
	"github.com/yigit/studentms/internal/pkg/auth"
)

// AuthController handles login, logout and self-service registration
type AuthController struct {
	authService    *services.AuthService
	studentService services.StudentService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, studentService services.StudentService) *AuthController {
	return &AuthController{
		authService:    authService,
		studentService: studentService,
	}
}

func tokenFields(t *auth.IssuedToken) dto.TokenFields {
	return dto.TokenFields{
		Token:     t.Token,
		TokenType: "Bearer",
		ExpiresIn: int64(t.ExpiresIn),
	}
}

// AdminLogin authenticates an admin
// @Summary Admin login
// @Description Authenticates an admin with username and password and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Admin credentials"
// @Success 200 {object} dto.AdminLoginResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Missing username or password"
// @Failure 401 {object} dto.ErrorResponse "Invalid username or password"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/admin/login [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var req dto.AdminLoginRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	admin, token, err := c.authService.AdminLogin(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AdminLoginResponse{
		Envelope:    dto.NewSuccess(dto.MsgLoginSucceeded),
		Admin:       dto.NewAdminData(admin),
		TokenFields: tokenFields(token),
	})
}

// StudentLogin authenticates a student
// @Summary Student login
// @Description Authenticates a student with student ID and password and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.StudentLoginRequest true "Student credentials"
// @Success 200 {object} dto.StudentLoginResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Missing student ID or password"
// @Failure 401 {object} dto.ErrorResponse "Invalid student ID or password"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/student/login [post]
func (c *AuthController) StudentLogin(ctx *gin.Context) {
	var req dto.StudentLoginRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	student, token, err := c.authService.StudentLogin(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.StudentLoginResponse{
		Envelope:    dto.NewSuccess(dto.MsgLoginSucceeded),
		Student:     student,
		TokenFields: tokenFields(token),
	})
}

// RegisterStudent handles self-service student registration
// @Summary Register a student
// @Description Creates a student account; every field is required
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.CreateStudentRequest true "Registration data"
// @Success 201 {object} dto.StudentResponse "Registration successful"
// @Failure 400 {object} dto.ErrorResponse "Missing, out-of-range or malformed field"
// @Failure 409 {object} dto.ErrorResponse "Student ID already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/student/register [post]
func (c *AuthController) RegisterStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	student, err := c.studentService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStudentResponse(dto.MsgRegisterSucceeded, student))
}

// Logout revokes the caller's access token
// @Summary Logout
// @Description Revokes the presented access token until it expires
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Envelope "Logout successful"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	claims, err := middleware.GetClaims(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.authService.Logout(ctx.Request.Context(), claims); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(dto.MsgLogoutSucceeded))
}
