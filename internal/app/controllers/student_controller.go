package controllers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/studentms/internal/app/auth"
	"github.com/yigit/studentms/internal/app/models/dto"
	"github.com/yigit/studentms/internal/app/services"
	"github.com/yigit/studentms/internal/middleware"
)

// StudentController handles the student collection
type StudentController struct {
	studentService services.StudentService
	exportService  *services.ExportService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, exportService *services.ExportService) *StudentController {
	return &StudentController{
		studentService: studentService,
		exportService:  exportService,
	}
}

// authorizeStudent resolves the path id and checks the caller may act on it
func authorizeStudent(ctx *gin.Context) (string, appauth.Principal, bool) {
	studentID := ctx.Param("id")

	principal, err := middleware.GetPrincipal(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return "", principal, false
	}
	if err := appauth.CanAccessStudent(principal, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return "", principal, false
	}
	return studentID, principal, true
}

// ListStudents lists students with optional filters
// @Summary List students
// @Description Lists students ordered by student ID. search matches name, ID or class; class and major match their columns. All matches are case-insensitive substrings.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param search query string false "Substring of name, student ID or class"
// @Param class query string false "Substring of class"
// @Param major query string false "Substring of major"
// @Success 200 {object} dto.StudentListResponse "Students fetched successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin only"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	var query dto.StudentListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	students, err := c.studentService.List(ctx.Request.Context(), query.ToFilter())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStudentListResponse(dto.MsgStudentsFetched, students))
}

// CreateStudent adds a student on behalf of an admin
// @Summary Add a student
// @Description Creates a student; only studentId, name and password are required
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student data"
// @Success 201 {object} dto.StudentResponse "Student added successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin only"
// @Failure 409 {object} dto.ErrorResponse "Student ID already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	student, err := c.studentService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewStudentResponse(dto.MsgStudentCreated, student))
}

// GetStudent retrieves a student by ID
// @Summary Get a student
// @Description Returns a single student. Students may only read their own record.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.StudentResponse "Student fetched successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Not your record"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	studentID, _, ok := authorizeStudent(ctx)
	if !ok {
		return
	}

	student, err := c.studentService.GetByID(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStudentResponse(dto.MsgStudentFetched, student))
}

// UpdateStudent applies a partial update
// @Summary Update a student
// @Description Updates only the supplied fields. A field sent as null is cleared. Unknown fields are rejected. Only admins may set password here.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to update"
// @Success 200 {object} dto.StudentResponse "Student updated successfully"
// @Failure 400 {object} dto.ErrorResponse "No fields to update or invalid field"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Not your record"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	studentID, principal, ok := authorizeStudent(ctx)
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if req.Password.Set {
		if err := appauth.CanUpdatePassword(principal); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}

	student, err := c.studentService.Update(ctx.Request.Context(), studentID, req.ToUpdate())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStudentResponse(dto.MsgStudentUpdated, student))
}

// ChangePassword changes a student's password
// @Summary Change password
// @Description Students must supply their current password; admins may omit it
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} dto.Envelope "Password changed successfully"
// @Failure 400 {object} dto.ErrorResponse "New password missing"
// @Failure 401 {object} dto.ErrorResponse "Current password is incorrect"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Not your record"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/password [put]
func (c *StudentController) ChangePassword(ctx *gin.Context) {
	studentID, principal, ok := authorizeStudent(ctx)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.studentService.ChangePassword(ctx.Request.Context(), studentID, &req, principal.Role); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(dto.MsgPasswordChanged))
}

// ExportStudent downloads a student's record as CSV
// @Summary Export a student as CSV
// @Description Returns a UTF-8 CSV file with a header row and the student's data
// @Tags students
// @Produce text/csv
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {file} file "CSV file"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Not your record"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/export [get]
func (c *StudentController) ExportStudent(ctx *gin.Context) {
	studentID, _, ok := authorizeStudent(ctx)
	if !ok {
		return
	}

	file, err := c.exportService.ExportStudentCSV(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`,
		file.FileName, url.PathEscape(file.FileName)))
	ctx.Data(http.StatusOK, file.ContentType, file.Data)
}

// DeleteStudent removes a student
// @Summary Delete a student
// @Description Physically deletes a student record
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.Envelope "Student deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Admin only"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	if err := c.studentService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccess(dto.MsgStudentDeleted))
}
