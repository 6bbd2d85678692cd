package repositories

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/studentms/internal/app/models"
	"github.com/yigit/studentms/internal/pkg/apperrors"
)

// updatableColumn maps one request field to its fixed column identifier.
// Column names never come from the request, only values do.
type updatableColumn struct {
	field  string
	column string
	pick   func(u models.StudentUpdate) (supplied bool, value interface{})
}

var studentUpdatableColumns = []updatableColumn{
	{"name", "name", func(u models.StudentUpdate) (bool, interface{}) { return u.Name.Set, u.Name.SQLValue() }},
	{"gender", "gender", func(u models.StudentUpdate) (bool, interface{}) { return u.Gender.Set, u.Gender.SQLValue() }},
	{"age", "age", func(u models.StudentUpdate) (bool, interface{}) { return u.Age.Set, u.Age.SQLValue() }},
	{"className", "class_name", func(u models.StudentUpdate) (bool, interface{}) { return u.ClassName.Set, u.ClassName.SQLValue() }},
	{"major", "major", func(u models.StudentUpdate) (bool, interface{}) { return u.Major.Set, u.Major.SQLValue() }},
	{"phone", "phone", func(u models.StudentUpdate) (bool, interface{}) { return u.Phone.Set, u.Phone.SQLValue() }},
	{"email", "email", func(u models.StudentUpdate) (bool, interface{}) { return u.Email.Set, u.Email.SQLValue() }},
	{"password", "password", func(u models.StudentUpdate) (bool, interface{}) {
		return u.PasswordHash.Set, u.PasswordHash.SQLValue()
	}},
}

// UpdatableStudentFields lists the request field names accepted by a partial update
func UpdatableStudentFields() []string {
	fields := make([]string, len(studentUpdatableColumns))
	for i, c := range studentUpdatableColumns {
		fields[i] = c.field
	}
	return fields
}

// BuildStudentUpdate renders the UPDATE for the supplied fields of u, always stamping
// updated_at and returning the post-update projection. It fails with
// ErrNoFieldsToUpdate when nothing was supplied.
func BuildStudentUpdate(sb squirrel.StatementBuilderType, studentID string, u models.StudentUpdate) (string, []interface{}, error) {
	q := sb.Update("students")

	supplied := 0
	for _, c := range studentUpdatableColumns {
		if ok, v := c.pick(u); ok {
			q = q.Set(c.column, v)
			supplied++
		}
	}
	if supplied == 0 {
		return "", nil, apperrors.ErrNoFieldsToUpdate
	}

	sql, args, err := q.
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"student_id": studentID}).
		Suffix("RETURNING " + strings.Join(studentColumns, ", ")).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build student update query: %w", err)
	}
	return sql, args, nil
}
