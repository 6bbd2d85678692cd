package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/studentms/internal/app/repositories"
	"github.com/yigit/studentms/internal/pkg/apperrors"
	"github.com/yigit/studentms/internal/pkg/auth"
)

// DefaultAdminPassword is used when no seed password is configured
const DefaultAdminPassword = "admin123"

// EnsureDefaultAdmin creates the admin account if no admin with username exists.
// An existing account is left untouched, including its password.
func EnsureDefaultAdmin(
	ctx context.Context,
	adminRepo repositories.IAdminRepository,
	hasher *auth.PasswordHasher,
	username, password string,
	lgr zerolog.Logger,
) error {
	if username == "" {
		lgr.Debug().Msg("No seed admin username configured, skipping")
		return nil
	}

	_, err := adminRepo.FindByUsername(ctx, username)
	if err == nil {
		lgr.Debug().Str("username", username).Msg("Default admin already exists")
		return nil
	}
	if !errors.Is(err, apperrors.ErrAdminNotFound) {
		return fmt.Errorf("error checking default admin: %w", err)
	}

	if password == "" {
		password = DefaultAdminPassword
		lgr.Warn().Str("username", username).Msg("Seeding admin with the built-in default password, change it")
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("error hashing default admin password: %w", err)
	}

	id, err := adminRepo.Create(ctx, username, hash)
	if err != nil {
		// another instance seeded it first
		if errors.Is(err, apperrors.ErrAdminAlreadyExists) {
			return nil
		}
		return fmt.Errorf("error creating default admin: %w", err)
	}

	lgr.Info().Int64("id", id).Str("username", username).Msg("Default admin created")
	return nil
}
