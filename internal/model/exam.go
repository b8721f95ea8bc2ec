package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Question count bounds for exam creation.
const (
	MinQuestions = 1
	MaxQuestions = 50
)

// Exam is an exam definition with its questions embedded. Question order is
// the numbering shown to students and never changes after creation.
type Exam struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	FacultyID uuid.UUID      `json:"facultyId"`
	Questions []QuestionItem `json:"questions"`
	CreatedAt time.Time      `json:"createdAt"`
}

// CreateExamRequest is the payload for creating a new exam.
type CreateExamRequest struct {
	Title        string `json:"title" binding:"required,notblank,max=255"`
	Subject      string `json:"subject" binding:"required,notblank,max=100"`
	Difficulty   string `json:"difficulty" binding:"omitempty,max=50"`
	NumQuestions int    `json:"numQuestions" binding:"required,min=1,max=50"`
}

// ExamForStudent is the student-facing view of an exam (no correct answers).
type ExamForStudent struct {
	ID            uuid.UUID            `json:"id"`
	Title         string               `json:"title"`
	FacultyID     uuid.UUID            `json:"facultyId"`
	QuestionCount int                  `json:"questionCount"`
	Questions     []QuestionForStudent `json:"questions"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// ForStudent strips answers from the exam, keeping question order.
func (e *Exam) ForStudent() ExamForStudent {
	questions := make([]QuestionForStudent, len(e.Questions))
	for i, q := range e.Questions {
		questions[i] = QuestionForStudent{
			Index:      i,
			Question:   q.Question,
			Options:    slices.Clone(q.Options),
			Subject:    q.Subject,
			Difficulty: q.Difficulty,
		}
	}
	return ExamForStudent{
		ID:            e.ID,
		Title:         e.Title,
		FacultyID:     e.FacultyID,
		QuestionCount: len(questions),
		Questions:     questions,
		CreatedAt:     e.CreatedAt,
	}
}
