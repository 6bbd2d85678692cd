package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/studentms/internal/app/models"
	"github.com/yigit/studentms/internal/pkg/apperrors"
	"github.com/yigit/studentms/internal/pkg/dberrors"
	"github.com/yigit/studentms/internal/pkg/logger"
)

// studentsPrimaryKey is the constraint Postgres reports on a duplicate student_id
const studentsPrimaryKey = "students_pkey"

// studentColumns is the password-free projection returned by every read
var studentColumns = []string{
	"student_id", "name", "gender", "age", "class_name", "major", "phone", "email", "created_at", "updated_at",
}

// IStudentRepository defines the student record store
type IStudentRepository interface {
	FindByID(ctx context.Context, studentID string) (*models.Student, error)
	FindCredentials(ctx context.Context, studentID string) (*models.StudentCredentials, error)
	FindAll(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error)
	Exists(ctx context.Context, studentID string) (bool, error)
	Insert(ctx context.Context, student *models.NewStudent) (*models.Student, error)
	ApplyPartialUpdate(ctx context.Context, studentID string, update models.StudentUpdate) (*models.Student, error)
	Delete(ctx context.Context, studentID string) error
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db DBTX) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

func scanStudent(row pgx.Row, extra ...any) (*models.Student, error) {
	s := &models.Student{}
	dest := []any{
		&s.StudentID, &s.Name, &s.Gender, &s.Age, &s.ClassName,
		&s.Major, &s.Phone, &s.Email, &s.CreatedAt, &s.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return s, nil
}

// FindByID retrieves a student by primary key
func (r *StudentRepository) FindByID(ctx context.Context, studentID string) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"student_id": studentID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student by ID SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}

	return student, nil
}

// FindCredentials retrieves a student together with the stored password hash
func (r *StudentRepository) FindCredentials(ctx context.Context, studentID string) (*models.StudentCredentials, error) {
	sql, args, err := r.sb.Select(append(append([]string{}, studentColumns...), "password")...).
		From("students").
		Where(squirrel.Eq{"student_id": studentID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student credentials SQL")
		return nil, fmt.Errorf("failed to build student credentials query: %w", err)
	}

	var hash string
	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...), &hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error scanning student credentials")
		return nil, fmt.Errorf("error getting student credentials: %w", err)
	}

	return &models.StudentCredentials{Student: student, PasswordHash: hash}, nil
}

// FindAll lists students matching filter, ordered by student_id.
// It returns an empty slice when nothing matches.
func (r *StudentRepository) FindAll(ctx context.Context, filter models.StudentFilter) ([]*models.Student, error) {
	q := r.sb.Select(studentColumns...).From("students")

	if search := strings.TrimSpace(filter.Search); search != "" {
		p := containsPattern(search)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": p},
			squirrel.ILike{"student_id": p},
			squirrel.ILike{"class_name": p},
		})
	}
	if class := strings.TrimSpace(filter.Class); class != "" {
		q = q.Where(squirrel.ILike{"class_name": containsPattern(class)})
	}
	if major := strings.TrimSpace(filter.Major); major != "" {
		q = q.Where(squirrel.ILike{"major": containsPattern(major)})
	}

	sql, args, err := q.OrderBy("student_id ASC").ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row during list")
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating student rows")
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// Exists reports whether a student with this id is stored
func (r *StudentRepository) Exists(ctx context.Context, studentID string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("students").
		Where(squirrel.Eq{"student_id": studentID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building student exists SQL")
		return false, fmt.Errorf("failed to build student existence query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error checking student existence")
		return false, fmt.Errorf("error checking student existence: %w", err)
	}

	return exists, nil
}

// Insert stores a new student. A duplicate primary key, including one created by a
// concurrent request after the caller's Exists check, yields ErrStudentIDAlreadyExists.
func (r *StudentRepository) Insert(ctx context.Context, student *models.NewStudent) (*models.Student, error) {
	sql, args, err := r.sb.Insert("students").
		Columns("student_id", "name", "gender", "age", "class_name", "major", "phone", "email", "password").
		Values(student.StudentID, student.Name, student.Gender, student.Age, student.ClassName,
			student.Major, student.Phone, student.Email, student.PasswordHash).
		Suffix("RETURNING " + strings.Join(studentColumns, ", ")).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return nil, fmt.Errorf("failed to build create student query: %w", err)
	}

	created, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, studentsPrimaryKey) {
			return nil, apperrors.ErrStudentIDAlreadyExists
		}
		if dberrors.IsValueTooLong(err) {
			return nil, apperrors.ErrStudentValueTooLong
		}
		logger.Error().Err(err).Str("studentID", student.StudentID).Msg("Error executing create student query")
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	return created, nil
}

// ApplyPartialUpdate writes only the supplied fields and returns the updated row
func (r *StudentRepository) ApplyPartialUpdate(ctx context.Context, studentID string, update models.StudentUpdate) (*models.Student, error) {
	sql, args, err := BuildStudentUpdate(r.sb, studentID, update)
	if err != nil {
		return nil, err
	}

	updated, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		if dberrors.IsValueTooLong(err) {
			return nil, apperrors.ErrStudentValueTooLong
		}
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error executing update student query")
		return nil, fmt.Errorf("error updating student: %w", err)
	}

	return updated, nil
}

// Delete physically removes a student
func (r *StudentRepository) Delete(ctx context.Context, studentID string) error {
	sql, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete student SQL")
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}
