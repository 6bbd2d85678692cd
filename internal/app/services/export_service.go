package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yigit/studentms/internal/app/models"
	"github.com/yigit/studentms/internal/app/repositories"
)

// utf8BOM lets spreadsheet applications detect the encoding
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var exportHeader = []string{
	"Student ID", "Name", "Gender", "Age", "Class", "Major", "Phone", "Email", "Registered At", "Last Updated",
}

// ExportedFile is a rendered download
type ExportedFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ExportService renders a student's record as a downloadable CSV file
type ExportService struct {
	studentRepo repositories.IStudentRepository
}

// NewExportService creates a new ExportService
func NewExportService(studentRepo repositories.IStudentRepository) *ExportService {
	return &ExportService{studentRepo: studentRepo}
}

// ExportStudentCSV loads a student and renders the CSV export
func (s *ExportService) ExportStudentCSV(ctx context.Context, studentID string) (*ExportedFile, error) {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	data, err := RenderStudentCSV(student)
	if err != nil {
		return nil, fmt.Errorf("error rendering student CSV: %w", err)
	}

	return &ExportedFile{
		FileName:    ExportFileName(student),
		ContentType: "text/csv; charset=utf-8",
		Data:        data,
	}, nil
}

// ExportFileName returns student_<name>_<id>.csv with path and quote characters removed
func ExportFileName(student *models.Student) string {
	clean := strings.NewReplacer(`"`, "", "/", "_", `\`, "_", "\r", "", "\n", "").Replace
	return fmt.Sprintf("student_%s_%s.csv", clean(student.Name), clean(student.StudentID))
}

// RenderStudentCSV writes the BOM, a header row and one data row with CRLF
// line endings. Absent values are written as empty fields.
func RenderStudentCSV(student *models.Student) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	if err := w.Write([]string{
		student.StudentID,
		student.Name,
		deref(student.Gender),
		formatAge(student.Age),
		deref(student.ClassName),
		deref(student.Major),
		deref(student.Phone),
		deref(student.Email),
		formatTime(student.CreatedAt),
		formatTime(student.UpdatedAt),
	}); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func formatAge(age *int) string {
	if age == nil {
		return ""
	}
	return strconv.Itoa(*age)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
