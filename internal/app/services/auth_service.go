package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/yigit/studentms/internal/app/models"
	"github.com/yigit/studentms/internal/app/models/dto"
	"github.com/yigit/studentms/internal/app/repositories"
	"github.com/yigit/studentms/internal/metrics"
	"github.com/yigit/studentms/internal/pkg/apperrors"
	"github.com/yigit/studentms/internal/pkg/auth"
	"github.com/yigit/studentms/internal/pkg/tokenstore"
	"github.com/yigit/studentms/internal/pkg/validation"
)

// Login failure messages. Unknown account and wrong password share one message.
const (
	MsgInvalidStudentLogin = "invalid student ID or password"
	MsgInvalidAdminLogin   = "invalid username or password"
)

// AuthService handles login, logout and access token checks
type AuthService struct {
	adminRepo   repositories.IAdminRepository
	studentRepo repositories.IStudentRepository
	jwtService  *auth.JWTService
	hasher      *auth.PasswordHasher
	revoked     tokenstore.Store
	validator   *validation.Validator
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	adminRepo repositories.IAdminRepository,
	studentRepo repositories.IStudentRepository,
	jwtService *auth.JWTService,
	hasher *auth.PasswordHasher,
	revoked tokenstore.Store,
	validator *validation.Validator,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		adminRepo:   adminRepo,
		studentRepo: studentRepo,
		jwtService:  jwtService,
		hasher:      hasher,
		revoked:     revoked,
		validator:   validator,
		logger:      logger,
	}
}

// AdminLogin authenticates an admin and issues an access token
func (s *AuthService) AdminLogin(ctx context.Context, req *dto.AdminLoginRequest) (*models.Admin, *auth.IssuedToken, error) {
	if err := s.validator.Required(req.Username, "username", validation.MsgAdminLoginIncomplete); err != nil {
		return nil, nil, err
	}
	if err := s.validator.Required(req.Password, "password", validation.MsgAdminLoginIncomplete); err != nil {
		return nil, nil, err
	}

	creds, err := s.adminRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrAdminNotFound) {
			s.hasher.CheckMissing(req.Password)
			s.recordLogin(auth.RoleAdmin, "failure")
			return nil, nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, MsgInvalidAdminLogin)
		}
		return nil, nil, fmt.Errorf("error finding admin: %w", err)
	}

	if !s.hasher.Check(creds.PasswordHash, req.Password) {
		s.recordLogin(auth.RoleAdmin, "failure")
		return nil, nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, MsgInvalidAdminLogin)
	}

	token, err := s.jwtService.GenerateToken(strconv.FormatInt(creds.Admin.ID, 10), auth.RoleAdmin)
	if err != nil {
		return nil, nil, fmt.Errorf("token generation error: %w", err)
	}

	s.recordLogin(auth.RoleAdmin, "success")
	s.logger.Info().Str("username", creds.Admin.Username).Msg("Admin logged in")
	return creds.Admin, token, nil
}

// StudentLogin authenticates a student and issues an access token
func (s *AuthService) StudentLogin(ctx context.Context, req *dto.StudentLoginRequest) (*models.Student, *auth.IssuedToken, error) {
	if err := s.validator.Required(req.StudentID, "studentId", validation.MsgLoginIncomplete); err != nil {
		return nil, nil, err
	}
	if err := s.validator.Required(req.Password, "password", validation.MsgLoginIncomplete); err != nil {
		return nil, nil, err
	}

	creds, err := s.studentRepo.FindCredentials(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			s.hasher.CheckMissing(req.Password)
			s.recordLogin(auth.RoleStudent, "failure")
			return nil, nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, MsgInvalidStudentLogin)
		}
		return nil, nil, fmt.Errorf("error finding student: %w", err)
	}

	if !s.hasher.Check(creds.PasswordHash, req.Password) {
		s.recordLogin(auth.RoleStudent, "failure")
		return nil, nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, MsgInvalidStudentLogin)
	}

	token, err := s.jwtService.GenerateToken(creds.Student.StudentID, auth.RoleStudent)
	if err != nil {
		return nil, nil, fmt.Errorf("token generation error: %w", err)
	}

	s.recordLogin(auth.RoleStudent, "success")
	return creds.Student, token, nil
}

// Logout revokes the presented token until it would have expired anyway
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return apperrors.ErrTokenInvalid
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.logger.Debug().Str("subject", claims.Subject).Str("jti", claims.ID).Msg("Token revoked")
	return nil
}

// Authenticate verifies an access token and checks that it has not been revoked
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("error checking token revocation: %w", err)
	}
	if revoked {
		return nil, apperrors.ErrTokenRevoked
	}

	return claims, nil
}

func (s *AuthService) recordLogin(role auth.Role, outcome string) {
	metrics.LoginAttemptsTotal.WithLabelValues(string(role), outcome).Inc()
}
