package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studentms/internal/app/models/dto"
	"github.com/yigit/studentms/internal/app/repositories/repotest"
	"github.com/yigit/studentms/internal/pkg/apperrors"
	"github.com/yigit/studentms/internal/pkg/auth"
	"github.com/yigit/studentms/internal/pkg/tokenstore"
	"github.com/yigit/studentms/internal/pkg/validation"
)

type authFixture struct {
	svc      *AuthService
	students StudentService
	admins   *repotest.AdminRepo
	jwt      *auth.JWTService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	studentRepo := repotest.NewStudentRepo()
	adminRepo := repotest.NewAdminRepo()
	hasher := auth.NewPasswordHasher(4)
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "studentms-test",
	})
	v := validation.New()

	hash, err := hasher.Hash("admin123")
	require.NoError(t, err)
	_, err = adminRepo.Create(context.Background(), "admin", hash)
	require.NoError(t, err)

	students := NewStudentService(studentRepo, v, hasher, zerolog.Nop())
	_, err = students.Register(context.Background(), registration())
	require.NoError(t, err)

	return &authFixture{
		svc:      NewAuthService(adminRepo, studentRepo, jwtService, hasher, tokenstore.NewMemoryStore(), v, zerolog.Nop()),
		students: students,
		admins:   adminRepo,
		jwt:      jwtService,
	}
}

func TestAuthService_AdminLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	admin, token, err := f.svc.AdminLogin(ctx, &dto.AdminLoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), admin.ID)
	assert.Equal(t, "admin", admin.Username)

	claims, err := f.jwt.ValidateToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.Subject)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestAuthService_LoginFailuresShareMessage(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, _, wrongPassword := f.svc.StudentLogin(ctx, &dto.StudentLoginRequest{StudentID: "S1", Password: "wrong"})
	_, _, unknownID := f.svc.StudentLogin(ctx, &dto.StudentLoginRequest{StudentID: "S404", Password: "p1"})

	assert.ErrorIs(t, wrongPassword, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownID, apperrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownID.Error())

	_, _, adminWrong := f.svc.AdminLogin(ctx, &dto.AdminLoginRequest{Username: "admin", Password: "nope"})
	_, _, adminUnknown := f.svc.AdminLogin(ctx, &dto.AdminLoginRequest{Username: "root", Password: "admin123"})
	assert.ErrorIs(t, adminWrong, apperrors.ErrInvalidCredentials)
	assert.Equal(t, adminWrong.Error(), adminUnknown.Error())
}

func TestAuthService_LoginMissingFields(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.StudentLogin(ctx, &dto.StudentLoginRequest{StudentID: "S1"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, validation.MsgLoginIncomplete, apperrors.UserMessage(err, ""))

	_, _, err = f.svc.AdminLogin(ctx, &dto.AdminLoginRequest{Password: "x"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, validation.MsgAdminLoginIncomplete, apperrors.UserMessage(err, ""))
}

func TestAuthService_StudentLoginAndLogout(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	student, token, err := f.svc.StudentLogin(ctx, &dto.StudentLoginRequest{StudentID: "S1", Password: "p1"})
	require.NoError(t, err)
	assert.Equal(t, "S1", student.StudentID)

	claims, err := f.svc.Authenticate(ctx, token.Token)
	require.NoError(t, err)
	assert.Equal(t, "S1", claims.Subject)
	assert.Equal(t, auth.RoleStudent, claims.Role)

	require.NoError(t, f.svc.Logout(ctx, claims))

	_, err = f.svc.Authenticate(ctx, token.Token)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestAuthService_AuthenticateRejectsGarbage(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Authenticate(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	other := auth.NewJWTService(auth.JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "studentms-test"})
	forged, err := other.GenerateToken("1", auth.RoleAdmin)
	require.NoError(t, err)
	_, err = f.svc.Authenticate(context.Background(), forged.Token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}
