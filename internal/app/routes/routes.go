package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yigit/studentms/internal/app/controllers"
	"github.com/yigit/studentms/internal/middleware"
)

// Controllers groups the handlers the router needs
type Controllers struct {
	Auth    *controllers.AuthController
	Student *controllers.StudentController
	Health  *controllers.HealthController
}

// SetupRouter configures all application routes. The API is served at the root
// and again under apiPrefix, which is where the web client calls it.
func SetupRouter(
	router *gin.Engine,
	ctrls Controllers,
	authMiddleware *middleware.AuthMiddleware,
	apiPrefix string,
) {
	router.HandleMethodNotAllowed = true
	router.NoMethod(middleware.MethodNotAllowed())
	router.NoRoute(middleware.NotFound())

	router.GET("/health", ctrls.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	registerAPI(router.Group(""), ctrls, authMiddleware)
	if apiPrefix != "" && apiPrefix != "/" {
		registerAPI(router.Group(apiPrefix), ctrls, authMiddleware)
	}
}

func registerAPI(api *gin.RouterGroup, ctrls Controllers, authMiddleware *middleware.AuthMiddleware) {
	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/admin/login", ctrls.Auth.AdminLogin)
		auth.POST("/student/login", ctrls.Auth.StudentLogin)
		auth.POST("/student/register", ctrls.Auth.RegisterStudent)
		auth.POST("/logout", authMiddleware.JWTAuth(), ctrls.Auth.Logout)
	}

	// --- Authenticated Student routes ---
	students := api.Group("/students")
	students.Use(authMiddleware.JWTAuth())
	{
		// ownership is checked per handler: admins or the student themself
		students.GET("/:id", ctrls.Student.GetStudent)
		students.PUT("/:id", ctrls.Student.UpdateStudent)
		students.PUT("/:id/password", ctrls.Student.ChangePassword)
		students.GET("/:id/export", ctrls.Student.ExportStudent)

		adminOnly := students.Group("")
		adminOnly.Use(authMiddleware.AdminRequired())
		{
			adminOnly.GET("", ctrls.Student.ListStudents)
			adminOnly.POST("", ctrls.Student.CreateStudent)
			adminOnly.DELETE("/:id", ctrls.Student.DeleteStudent)
		}
	}
}
