package questionsource

import (
	"context"
	"fmt"

	"github.com/alphagrade/alphagrade-backend/internal/model"
)

var templateOptions = []string{"Option A", "Option B", "Option C", "Option D"}

// TemplateSource generates placeholder questions locally. It backs the
// question service when no LLM is configured.
type TemplateSource struct{}

// NewTemplateSource creates a TemplateSource.
func NewTemplateSource() *TemplateSource {
	return &TemplateSource{}
}

// Generate returns exactly req.NumQuestions questions, the first option being
// the answer.
func (TemplateSource) Generate(_ context.Context, req Request) ([]model.QuestionItem, error) {
	questions := make([]model.QuestionItem, 0, max(req.NumQuestions, 0))
	for i := range req.NumQuestions {
		options := make([]string, len(templateOptions))
		copy(options, templateOptions)
		questions = append(questions, model.QuestionItem{
			Question:   fmt.Sprintf("What is %d in %s?", i+1, req.Subject),
			Options:    options,
			Answer:     options[0],
			Subject:    req.Subject,
			Difficulty: req.Difficulty,
		})
	}
	return questions, nil
}
