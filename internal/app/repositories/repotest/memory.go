// Package repotest provides in-memory repositories for tests above the SQL layer.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yigit/studentms/internal/app/models"
	"github.com/yigit/studentms/internal/app/repositories"
	"github.com/yigit/studentms/internal/pkg/apperrors"
)

type storedStudent struct {
	student models.Student
	hash    string
}

// StudentRepo is an in-memory IStudentRepository. Timestamps advance one
// minute per write so updated_at ordering is observable.
type StudentRepo struct {
	mu      sync.Mutex
	rows    map[string]*storedStudent
	now     time.Time
	updates int
}

// PasswordHash returns the stored hash for id
func (r *StudentRepo) PasswordHash(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[id]; ok {
		return row.hash
	}
	return ""
}

// Len returns the number of stored students
func (r *StudentRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// Updates returns how many partial updates were applied
func (r *StudentRepo) Updates() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updates
}

// NewStudentRepo creates an empty store
func NewStudentRepo() *StudentRepo {
	return &StudentRepo{
		rows: make(map[string]*storedStudent),
		now:  time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (r *StudentRepo) tick() time.Time {
	r.now = r.now.Add(time.Minute)
	return r.now
}

func (r *StudentRepo) FindByID(_ context.Context, id string) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	s := row.student
	return &s, nil
}

func (r *StudentRepo) FindCredentials(_ context.Context, id string) (*models.StudentCredentials, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	s := row.student
	return &models.StudentCredentials{Student: &s, PasswordHash: row.hash}, nil
}

func (r *StudentRepo) FindAll(_ context.Context, f models.StudentFilter) ([]*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	contains := func(v *string, sub string) bool {
		return v != nil && strings.Contains(strings.ToLower(*v), strings.ToLower(sub))
	}
	out := []*models.Student{}
	for _, row := range r.rows {
		s := row.student
		if f.Search != "" && !contains(&s.Name, f.Search) && !contains(&s.StudentID, f.Search) && !contains(s.ClassName, f.Search) {
			continue
		}
		if f.Class != "" && !contains(s.ClassName, f.Class) {
			continue
		}
		if f.Major != "" && !contains(s.Major, f.Major) {
			continue
		}
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, nil
}

func (r *StudentRepo) Exists(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[id]
	return ok, nil
}

func (r *StudentRepo) Insert(_ context.Context, n *models.NewStudent) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[n.StudentID]; ok {
		return nil, apperrors.ErrStudentIDAlreadyExists
	}
	ts := r.tick()
	s := models.Student{
		StudentID: n.StudentID, Name: n.Name, Gender: n.Gender, Age: n.Age, ClassName: n.ClassName,
		Major: n.Major, Phone: n.Phone, Email: n.Email, CreatedAt: ts, UpdatedAt: ts,
	}
	r.rows[n.StudentID] = &storedStudent{student: s, hash: n.PasswordHash}
	return &s, nil
}

func (r *StudentRepo) ApplyPartialUpdate(_ context.Context, id string, u models.StudentUpdate) (*models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.IsEmpty() {
		return nil, apperrors.ErrNoFieldsToUpdate
	}
	row, ok := r.rows[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	s := &row.student
	if u.Name.Set {
		s.Name = u.Name.Value
	}
	if u.Gender.Set {
		s.Gender = u.Gender.Ptr()
	}
	if u.Age.Set {
		s.Age = u.Age.Ptr()
	}
	if u.ClassName.Set {
		s.ClassName = u.ClassName.Ptr()
	}
	if u.Major.Set {
		s.Major = u.Major.Ptr()
	}
	if u.Phone.Set {
		s.Phone = u.Phone.Ptr()
	}
	if u.Email.Set {
		s.Email = u.Email.Ptr()
	}
	if u.PasswordHash.Set {
		row.hash = u.PasswordHash.Value
	}
	s.UpdatedAt = r.tick()
	r.updates++
	out := *s
	return &out, nil
}

func (r *StudentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	delete(r.rows, id)
	return nil
}

// AdminRepo is an in-memory IAdminRepository
type AdminRepo struct {
	mu     sync.Mutex
	admins map[string]*models.AdminCredentials
	nextID int64
}

// NewAdminRepo creates an empty store
func NewAdminRepo() *AdminRepo {
	return &AdminRepo{admins: make(map[string]*models.AdminCredentials)}
}

func (r *AdminRepo) FindByUsername(_ context.Context, username string) (*models.AdminCredentials, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.admins[username]
	if !ok {
		return nil, apperrors.ErrAdminNotFound
	}
	return c, nil
}

func (r *AdminRepo) Create(_ context.Context, username, hash string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.admins[username]; ok {
		return 0, apperrors.ErrAdminAlreadyExists
	}
	r.nextID++
	r.admins[username] = &models.AdminCredentials{
		Admin:        &models.Admin{ID: r.nextID, Username: username},
		PasswordHash: hash,
	}
	return r.nextID, nil
}

var (
	_ repositories.IStudentRepository = (*StudentRepo)(nil)
	_ repositories.IAdminRepository   = (*AdminRepo)(nil)
)
