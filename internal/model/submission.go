package model

import (
	"time"

	"github.com/google/uuid"
)

// Answers maps a zero-based question index to the selected option. Missing
// indices are unanswered questions.
type Answers map[int]string

// SubmitExamRequest is the payload a student posts when finishing an exam.
type SubmitExamRequest struct {
	Answers Answers `json:"answers"`
}

// Submission is an acknowledged exam attempt. Submissions are logged, not
// stored or scored.
type Submission struct {
	ExamID     uuid.UUID `json:"examId"`
	StudentID  uuid.UUID `json:"studentId"`
	Answers    Answers   `json:"answers"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// Result is a graded attempt as listed to a student. Grading is not performed
// yet, so result listings are always empty.
type Result struct {
	ExamID   uuid.UUID `json:"examId"`
	Title    string    `json:"title"`
	Score    int       `json:"score"`
	MaxScore int       `json:"maxScore"`
	GradedAt time.Time `json:"gradedAt"`
}
