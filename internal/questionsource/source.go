// Package questionsource fetches generated multiple-choice questions for a
// subject and difficulty. The question generator is a separately owned
// service; this package holds the client for it plus two in-process
// generators used by cmd/question-service.
package questionsource

import (
	"context"
	"errors"

	"github.com/alphagrade/alphagrade-backend/internal/model"
)

// ErrEmptyResponse is returned when a generator answers with no questions.
var ErrEmptyResponse = errors.New("question source returned no questions")

// Request is the generation request, also the wire body of POST /ai/generate-questions.
type Request struct {
	Subject      string `json:"subject" binding:"required,notblank,max=100"`
	Difficulty   string `json:"difficulty" binding:"omitempty,max=50"`
	NumQuestions int    `json:"numQuestions" binding:"required,min=1,max=50"`
}

// Response is the wire body returned by the question generator.
type Response struct {
	Questions []model.QuestionItem `json:"questions"`
}

// Source produces questions for a request. Implementations make a single
// attempt and do not retry.
type Source interface {
	Generate(ctx context.Context, req Request) ([]model.QuestionItem, error)
}
