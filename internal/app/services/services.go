package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/studentms/internal/app/repositories"
	"github.com/yigit/studentms/internal/pkg/auth"
	"github.com/yigit/studentms/internal/pkg/tokenstore"
	"github.com/yigit/studentms/internal/pkg/validation"
)

// Services defined in this package:
// - StudentService: registration, admin CRUD, partial updates and password changes
// - AuthService: admin/student login, logout and access token checks
// - ExportService: CSV export of a single student record
type Services struct {
	StudentService StudentService
	AuthService    *AuthService
	ExportService  *ExportService
}

// NewServices wires every service on top of the repositories
func NewServices(
	repos *repositories.Repositories,
	jwtService *auth.JWTService,
	hasher *auth.PasswordHasher,
	revoked tokenstore.Store,
	logger zerolog.Logger,
) *Services {
	v := validation.New()
	return &Services{
		StudentService: NewStudentService(repos.StudentRepository, v, hasher, logger),
		AuthService:    NewAuthService(repos.AdminRepository, repos.StudentRepository, jwtService, hasher, revoked, v, logger),
		ExportService:  NewExportService(repos.StudentRepository),
	}
}
