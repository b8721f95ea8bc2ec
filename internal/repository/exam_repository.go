package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExamRepository handles exam data access. Questions are embedded in the exam
// row as JSONB, so an exam is written by a single INSERT and is never visible
// half-written.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

const examColumns = `id, title, faculty_id, questions, created_at`

// Create inserts a new exam. e.ID must be set by the caller.
func (r *ExamRepository) Create(ctx context.Context, e *model.Exam) error {
	questions, err := json.Marshal(e.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO exams (id, title, faculty_id, questions)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		e.ID, e.Title, e.FacultyID, questions,
	).Scan(&e.CreatedAt)
}

// GetByID retrieves an exam by its UUID.
func (r *ExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Exam, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+examColumns+` FROM exams WHERE id = $1`, id)
	e, err := scanExam(row)
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

// ListByFaculty returns the exams owned by a faculty, most recent first.
func (r *ExamRepository) ListByFaculty(ctx context.Context, facultyID uuid.UUID) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+examColumns+` FROM exams
		 WHERE faculty_id = $1
		 ORDER BY created_at DESC, seq DESC`, facultyID)
	if err != nil {
		return nil, err
	}
	return collectExams(rows)
}

// ListAll returns every exam, most recent first.
func (r *ExamRepository) ListAll(ctx context.Context) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+examColumns+` FROM exams
		 ORDER BY created_at DESC, seq DESC`)
	if err != nil {
		return nil, err
	}
	return collectExams(rows)
}

func scanExam(row pgx.Row) (*model.Exam, error) {
	var (
		e         model.Exam
		questions []byte
	)
	if err := row.Scan(&e.ID, &e.Title, &e.FacultyID, &questions, &e.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questions, &e.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	return &e, nil
}

func collectExams(rows pgx.Rows) ([]model.Exam, error) {
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
