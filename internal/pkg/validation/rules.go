package validation

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/studentms/internal/pkg/apperrors"
)

// Validation rule patterns and bounds
var (
	// EmailPattern is a local@domain.tld shape check
	EmailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`

	MinAge = 15
	MaxAge = 50

	// PasswordMaxBytes is bcrypt's input limit
	PasswordMaxBytes = 72
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// User-facing messages, one per rule
const (
	MsgRegistrationIncomplete = "please fill in all registration fields"
	MsgAdminCreateIncomplete  = "student ID, name and password are required"
	MsgAgeOutOfRange          = "age must be between 15 and 50"
	MsgInvalidEmail           = "please enter a valid email address"
	MsgPasswordTooLong        = "password must be at most 72 bytes"
	MsgNameRequired           = "name cannot be empty"
	MsgLoginIncomplete        = "student ID and password are required"
	MsgAdminLoginIncomplete   = "username and password are required"
	MsgNewPasswordRequired    = "new password is required"
	MsgPasswordRequired       = "password cannot be empty"
	MsgStudentIDRequired      = "student ID cannot be empty"
)

const emailTag = "student_email"

// StudentFields is the flattened input of a student creation request
type StudentFields struct {
	StudentID string
	Name      string
	Gender    string
	Age       *int
	ClassName string
	Major     string
	Phone     string
	Email     string
	Password  string
}

type registrationPresence struct {
	StudentID string `validate:"required"`
	Name      string `validate:"required"`
	Gender    string `validate:"required"`
	Age       *int   `validate:"required"`
	ClassName string `validate:"required"`
	Major     string `validate:"required"`
	Phone     string `validate:"required"`
	Email     string `validate:"required"`
	Password  string `validate:"required"`
}

type adminCreatePresence struct {
	StudentID string `validate:"required"`
	Name      string `validate:"required"`
	Password  string `validate:"required"`
}

// Validator applies the student rules in order: presence, range, format.
// Uniqueness needs the store and is checked by the service afterwards.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the custom email tag registered
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation(emailTag, func(fl validator.FieldLevel) bool {
		return CompiledPatterns.Email.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// ValidateRegistration checks a self-service registration, where every field is mandatory.
func (val *Validator) ValidateRegistration(f StudentFields) error {
	presence := registrationPresence{
		StudentID: f.StudentID,
		Name:      f.Name,
		Gender:    f.Gender,
		Age:       f.Age,
		ClassName: f.ClassName,
		Major:     f.Major,
		Phone:     f.Phone,
		Email:     f.Email,
		Password:  f.Password,
	}
	if err := val.v.Struct(presence); err != nil {
		return presenceError(err, MsgRegistrationIncomplete)
	}
	return val.checkOptional(f)
}

// ValidateAdminCreate checks an admin-add request; only id, name and password are mandatory.
func (val *Validator) ValidateAdminCreate(f StudentFields) error {
	presence := adminCreatePresence{
		StudentID: f.StudentID,
		Name:      f.Name,
		Password:  f.Password,
	}
	if err := val.v.Struct(presence); err != nil {
		return presenceError(err, MsgAdminCreateIncomplete)
	}
	return val.checkOptional(f)
}

func (val *Validator) checkOptional(f StudentFields) error {
	if f.Age != nil {
		if err := val.CheckAge(*f.Age); err != nil {
			return err
		}
	}
	if f.Email != "" {
		if err := val.CheckEmail(f.Email); err != nil {
			return err
		}
	}
	return val.CheckPassword(f.Password)
}

// CheckAge enforces the [MinAge, MaxAge] range
func (val *Validator) CheckAge(age int) error {
	if err := val.v.Var(age, "min=15,max=50"); err != nil {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, MsgAgeOutOfRange).WithField("age")
	}
	return nil
}

// CheckEmail enforces the basic email shape
func (val *Validator) CheckEmail(email string) error {
	if err := val.v.Var(email, emailTag); err != nil {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, MsgInvalidEmail).WithField("email")
	}
	return nil
}

// CheckPassword rejects passwords bcrypt would refuse to hash
func (val *Validator) CheckPassword(password string) error {
	if len(password) > PasswordMaxBytes {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, MsgPasswordTooLong).WithField("password")
	}
	return nil
}

// Required fails with message when value is empty
func (val *Validator) Required(value, field, message string) error {
	if err := val.v.Var(value, "required"); err != nil {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, message).WithField(field)
	}
	return nil
}

func presenceError(err error, message string) error {
	ce := apperrors.NewCustomError(apperrors.ErrValidationFailed, message)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		ce.WithField(fieldErrs[0].Field())
	}
	return ce
}
