package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/studentms/internal/app/models"
	"github.com/yigit/studentms/internal/app/models/dto"
	"github.com/yigit/studentms/internal/app/repositories"
	"github.com/yigit/studentms/internal/metrics"
	"github.com/yigit/studentms/internal/pkg/apperrors"
	"github.com/yigit/studentms/internal/pkg/auth"
	"github.com/yigit/studentms/internal/pkg/validation"
)

// MsgWrongCurrentPassword is returned when a student's current password does not match
const MsgWrongCurrentPassword = "current password is incorrect"

// StudentService defines the operations on the student collection
type StudentService interface {
	Register(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error)
	Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error)
	GetByID(ctx context.Context, studentID string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error)
	Update(ctx context.Context, studentID string, update models.StudentUpdate) (*models.Student, error)
	ChangePassword(ctx context.Context, studentID string, req *dto.ChangePasswordRequest, role auth.Role) error
	Delete(ctx context.Context, studentID string) error
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	studentRepo repositories.IStudentRepository
	validator   *validation.Validator
	hasher      *auth.PasswordHasher
	logger      zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(
	studentRepo repositories.IStudentRepository,
	validator *validation.Validator,
	hasher *auth.PasswordHasher,
	logger zerolog.Logger,
) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		validator:   validator,
		hasher:      hasher,
		logger:      logger,
	}
}

// Register creates a student from the self-service form, where every field is mandatory
func (s *studentServiceImpl) Register(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.ValidateRegistration(req.Fields()); err != nil {
		return nil, err
	}
	return s.insert(ctx, req, "register")
}

// Create adds a student on behalf of an admin; only id, name and password are mandatory
func (s *studentServiceImpl) Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.ValidateAdminCreate(req.Fields()); err != nil {
		return nil, err
	}
	return s.insert(ctx, req, "create")
}

func (s *studentServiceImpl) insert(ctx context.Context, req *dto.CreateStudentRequest, operation string) (*models.Student, error) {
	exists, err := s.studentRepo.Exists(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("error checking if student ID exists: %w", err)
	}
	if exists {
		return nil, apperrors.ErrStudentIDAlreadyExists
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	student, err := s.studentRepo.Insert(ctx, &models.NewStudent{
		StudentID:    req.StudentID,
		Name:         req.Name,
		Gender:       nullIfEmpty(req.Gender),
		Age:          req.Age,
		ClassName:    nullIfEmpty(req.ClassName),
		Major:        nullIfEmpty(req.Major),
		Phone:        nullIfEmpty(req.Phone),
		Email:        nullIfEmpty(req.Email),
		PasswordHash: hash,
	})
	if err != nil {
		// a concurrent insert of the same id surfaces here as the same conflict
		if errors.Is(err, apperrors.ErrStudentIDAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("student creation error: %w", err)
	}

	metrics.StudentMutationsTotal.WithLabelValues(operation).Inc()
	s.logger.Info().Str("studentID", student.StudentID).Str("operation", operation).Msg("Student created")
	return student, nil
}

// GetByID returns a single student
func (s *studentServiceImpl) GetByID(ctx context.Context, studentID string) (*models.Student, error) {
	if err := s.validator.Required(studentID, "studentId", validation.MsgStudentIDRequired); err != nil {
		return nil, err
	}
	return s.studentRepo.FindByID(ctx, studentID)
}

// List returns students matching filter ordered by student id
func (s *studentServiceImpl) List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error) {
	return s.studentRepo.FindAll(ctx, filter)
}

// Update applies a partial update. Existence is checked first, so an unknown id
// reports not found even when the body is empty.
func (s *studentServiceImpl) Update(ctx context.Context, studentID string, update models.StudentUpdate) (*models.Student, error) {
	if err := s.validator.Required(studentID, "studentId", validation.MsgStudentIDRequired); err != nil {
		return nil, err
	}

	exists, err := s.studentRepo.Exists(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error checking student existence: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrStudentNotFound
	}

	if update.IsEmpty() {
		return nil, apperrors.ErrNoFieldsToUpdate
	}

	if err := s.validateUpdate(update); err != nil {
		return nil, err
	}

	// PasswordHash holds the plain text until here
	if update.PasswordHash.Set {
		hash, err := s.hashPassword(update.PasswordHash.Value)
		if err != nil {
			return nil, err
		}
		update.PasswordHash = models.Some(hash)
	}

	student, err := s.studentRepo.ApplyPartialUpdate(ctx, studentID, update)
	if err != nil {
		return nil, err
	}

	metrics.StudentMutationsTotal.WithLabelValues("update").Inc()
	return student, nil
}

// validateUpdate applies the range and format rules to supplied values.
// name and password are NOT NULL columns, so null or empty is refused for them.
func (s *studentServiceImpl) validateUpdate(update models.StudentUpdate) error {
	if update.Name.Set && (update.Name.Null || strings.TrimSpace(update.Name.Value) == "") {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, validation.MsgNameRequired).WithField("name")
	}
	if update.Age.HasValue() {
		if err := s.validator.CheckAge(update.Age.Value); err != nil {
			return err
		}
	}
	if update.Email.HasValue() && update.Email.Value != "" {
		if err := s.validator.CheckEmail(update.Email.Value); err != nil {
			return err
		}
	}
	if update.PasswordHash.Set {
		if update.PasswordHash.Null || update.PasswordHash.Value == "" {
			return apperrors.NewCustomError(apperrors.ErrValidationFailed, validation.MsgPasswordRequired).WithField("password")
		}
		if err := s.validator.CheckPassword(update.PasswordHash.Value); err != nil {
			return err
		}
	}
	return nil
}

// ChangePassword replaces a student's password. Students must prove the current
// password; admins may reset it without one.
func (s *studentServiceImpl) ChangePassword(ctx context.Context, studentID string, req *dto.ChangePasswordRequest, role auth.Role) error {
	if err := s.validator.Required(req.NewPassword, "newPassword", validation.MsgNewPasswordRequired); err != nil {
		return err
	}
	if err := s.validator.CheckPassword(req.NewPassword); err != nil {
		return err
	}

	if role == auth.RoleAdmin {
		exists, err := s.studentRepo.Exists(ctx, studentID)
		if err != nil {
			return fmt.Errorf("error checking student existence: %w", err)
		}
		if !exists {
			return apperrors.ErrStudentNotFound
		}
	} else {
		creds, err := s.studentRepo.FindCredentials(ctx, studentID)
		if err != nil {
			return err
		}
		if !s.hasher.Check(creds.PasswordHash, req.CurrentPassword) {
			return apperrors.NewCustomError(apperrors.ErrInvalidCredentials, MsgWrongCurrentPassword).WithField("currentPassword")
		}
	}

	hash, err := s.hashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if _, err := s.studentRepo.ApplyPartialUpdate(ctx, studentID, models.StudentUpdate{
		PasswordHash: models.Some(hash),
	}); err != nil {
		return err
	}

	metrics.StudentMutationsTotal.WithLabelValues("password").Inc()
	s.logger.Info().Str("studentID", studentID).Str("by", string(role)).Msg("Student password changed")
	return nil
}

// Delete physically removes a student
func (s *studentServiceImpl) Delete(ctx context.Context, studentID string) error {
	if err := s.validator.Required(studentID, "studentId", validation.MsgStudentIDRequired); err != nil {
		return err
	}
	if err := s.studentRepo.Delete(ctx, studentID); err != nil {
		return err
	}

	metrics.StudentMutationsTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Str("studentID", studentID).Msg("Student deleted")
	return nil
}

func (s *studentServiceImpl) hashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if auth.IsHashTooLong(err) {
			return "", apperrors.NewCustomError(apperrors.ErrValidationFailed, validation.MsgPasswordTooLong).WithField("password")
		}
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return hash, nil
}

func nullIfEmpty(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
