package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/google/uuid"
)

// ExamStore persists exams with their questions embedded as a JSON document.
type ExamStore struct {
	db *sql.DB
}

// NewExamStore creates a new ExamStore.
func NewExamStore(db *sql.DB) *ExamStore {
	return &ExamStore{db: db}
}

const examColumns = `id, title, faculty_id, questions, created_at`

// Create inserts a new exam in one statement. e.ID must be set by the caller.
func (s *ExamStore) Create(ctx context.Context, e *model.Exam) error {
	questions, err := json.Marshal(e.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	now := clock()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO exams (id, title, faculty_id, questions, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID.String(), e.Title, e.FacultyID.String(), string(questions), toUnix(now),
	); err != nil {
		return err
	}
	e.CreatedAt = now
	return nil
}

// GetByID retrieves an exam by its UUID.
func (s *ExamStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+examColumns+` FROM exams WHERE id = ?`, id.String())
	e, err := scanExam(row)
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

// ListByFaculty returns the exams owned by a faculty, most recent first.
func (s *ExamStore) ListByFaculty(ctx context.Context, facultyID uuid.UUID) ([]model.Exam, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+examColumns+` FROM exams WHERE faculty_id = ?
		 ORDER BY created_at DESC, rowid DESC`, facultyID.String())
	if err != nil {
		return nil, err
	}
	return collectExams(rows)
}

// ListAll returns every exam, most recent first.
func (s *ExamStore) ListAll(ctx context.Context) ([]model.Exam, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+examColumns+` FROM exams ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	return collectExams(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExam(row scanner) (*model.Exam, error) {
	var (
		e             model.Exam
		id, facultyID string
		questions     string
		created       int64
	)
	if err := row.Scan(&id, &e.Title, &facultyID, &questions, &created); err != nil {
		return nil, err
	}

	var err error
	if e.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse exam id: %w", err)
	}
	if e.FacultyID, err = uuid.Parse(facultyID); err != nil {
		return nil, fmt.Errorf("parse faculty id: %w", err)
	}
	if err := json.Unmarshal([]byte(questions), &e.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	e.CreatedAt = fromUnix(created)
	return &e, nil
}

func collectExams(rows *sql.Rows) ([]model.Exam, error) {
	defer rows.Close()

	exams := []model.Exam{}
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, *e)
	}
	return exams, rows.Err()
}
