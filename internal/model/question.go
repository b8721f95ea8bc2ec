package model

import (
	"errors"
	"slices"
	"strings"
)

// Difficulty tags accepted by the question generator.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

var (
	ErrEmptyPrompt     = errors.New("question prompt is empty")
	ErrNoOptions       = errors.New("question has no options")
	ErrAnswerNotOption = errors.New("answer is not one of the options")
)

// QuestionItem is one generated multiple-choice question. Options order is the
// order shown to the student and defines the answer space.
type QuestionItem struct {
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Answer     string   `json:"answer"`
	Subject    string   `json:"subject"`
	Difficulty string   `json:"difficulty"`
}

// Validate checks the item invariants: a prompt, at least one option and an
// answer equal to one of the options.
func (q QuestionItem) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return ErrEmptyPrompt
	}
	if len(q.Options) == 0 {
		return ErrNoOptions
	}
	if !slices.Contains(q.Options, q.Answer) {
		return ErrAnswerNotOption
	}
	return nil
}

// QuestionForStudent is a question without the correct answer.
type QuestionForStudent struct {
	Index      int      `json:"index"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Subject    string   `json:"subject"`
	Difficulty string   `json:"difficulty"`
}
