package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/studentms/internal/app/models"
	"github.com/yigit/studentms/internal/pkg/apperrors"
	"github.com/yigit/studentms/internal/pkg/dberrors"
	"github.com/yigit/studentms/internal/pkg/logger"
)

const adminsUsernameKey = "admins_username_key"

// IAdminRepository defines admin account lookups
type IAdminRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.AdminCredentials, error)
	Create(ctx context.Context, username, passwordHash string) (int64, error)
}

// AdminRepository handles admin database operations
type AdminRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db DBTX) *AdminRepository {
	return &AdminRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

// FindByUsername retrieves an admin and the stored password hash
func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*models.AdminCredentials, error) {
	sql, args, err := r.sb.Select("id", "username", "password").
		From("admins").
		Where(squirrel.Eq{"username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get admin by username SQL")
		return nil, fmt.Errorf("failed to build get admin query: %w", err)
	}

	admin := &models.Admin{}
	var hash string
	err = r.db.QueryRow(ctx, sql, args...).Scan(&admin.ID, &admin.Username, &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdminNotFound
		}
		logger.Error().Err(err).Msg("Error scanning admin row")
		return nil, fmt.Errorf("error getting admin by username: %w", err)
	}

	return &models.AdminCredentials{Admin: admin, PasswordHash: hash}, nil
}

// Create inserts an admin account; used by the startup seed
func (r *AdminRepository) Create(ctx context.Context, username, passwordHash string) (int64, error) {
	sql, args, err := r.sb.Insert("admins").
		Columns("username", "password").
		Values(username, passwordHash).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create admin SQL")
		return 0, fmt.Errorf("failed to build create admin query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, adminsUsernameKey) {
			return 0, apperrors.ErrAdminAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create admin query")
		return 0, fmt.Errorf("error creating admin: %w", err)
	}

	return id, nil
}
