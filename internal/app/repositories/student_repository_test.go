package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/studentms/internal/app/models"
	"github.com/yigit/studentms/internal/pkg/apperrors"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *StudentRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewStudentRepository(mock)
}

func TestStudentRepository_Exists(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS ( SELECT 1 FROM students WHERE student_id = $1")).
		WithArgs("S1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "S1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_DeleteTwice(t *testing.T) {
	mock, repo := newMockRepo(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE student_id = $1")).
		WithArgs("S1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE student_id = $1")).
		WithArgs("S1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(ctx, "S1"))
	err := repo.Delete(ctx, "S1")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_FindByIDNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE student_id = $1 LIMIT 1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_InsertDuplicateMapsToConflict(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO students (student_id,name,gender,age,class_name,major,phone,email,password)")).
		WithArgs("S1", "Li", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "hash").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "students_pkey"})

	_, err := repo.Insert(context.Background(), &models.NewStudent{StudentID: "S1", Name: "Li", PasswordHash: "hash"})
	assert.ErrorIs(t, err, apperrors.ErrStudentIDAlreadyExists)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_ValueTooLongIsValidationError(t *testing.T) {
	mock, repo := newMockRepo(t)
	tooLong := &pgconn.PgError{Code: "22001"}

	mock.ExpectQuery("INSERT INTO students").WillReturnError(tooLong)
	mock.ExpectQuery("UPDATE students").WillReturnError(tooLong)

	_, err := repo.Insert(context.Background(), &models.NewStudent{StudentID: "S1", Name: "Li", PasswordHash: "hash"})
	assert.ErrorIs(t, err, apperrors.ErrStudentValueTooLong)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = repo.ApplyPartialUpdate(context.Background(), "S1", models.StudentUpdate{Phone: models.Some("1")})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_InsertOtherErrorIsWrapped(t *testing.T) {
	mock, repo := newMockRepo(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery("INSERT INTO students").WillReturnError(boom)

	_, err := repo.Insert(context.Background(), &models.NewStudent{StudentID: "S1", Name: "Li", PasswordHash: "hash"})
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, apperrors.ErrConflict))
}

func TestStudentRepository_ApplyPartialUpdate(t *testing.T) {
	t.Run("empty update issues no statement", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		_, err := repo.ApplyPartialUpdate(context.Background(), "S1", models.StudentUpdate{})
		assert.ErrorIs(t, err, apperrors.ErrNoFieldsToUpdate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		mock, repo := newMockRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE students SET phone = $1, updated_at = CURRENT_TIMESTAMP WHERE student_id = $2")).
			WithArgs("999", "S404").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.ApplyPartialUpdate(context.Background(), "S404", models.StudentUpdate{Phone: models.Some("999")})
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStudentRepository_FindAllFilters(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE (name ILIKE $1 OR student_id ILIKE $2 OR class_name ILIKE $3) AND class_name ILIKE $4 AND major ILIKE $5 ORDER BY student_id ASC")).
		WithArgs("%Li%", "%Li%", "%Li%", "%C1%", "%CS%").
		WillReturnRows(pgxmock.NewRows(studentColumns))

	students, err := repo.FindAll(context.Background(), models.StudentFilter{Search: "Li", Class: "C1", Major: "CS"})
	require.NoError(t, err)
	assert.NotNil(t, students)
	assert.Empty(t, students)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepository_FindAllNoFilter(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM students ORDER BY student_id ASC")).
		WillReturnRows(pgxmock.NewRows(studentColumns))

	students, err := repo.FindAll(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Empty(t, students)
	assert.NoError(t, mock.ExpectationsWereMet())
}
