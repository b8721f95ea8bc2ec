package questionsource

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAISource asks an OpenAI-compatible chat completion API for questions.
type OpenAISource struct {
	api   *openai.Client
	model string
	log   zerolog.Logger
}

// NewOpenAISource creates an OpenAISource. baseURL may be empty for the
// public OpenAI endpoint.
func NewOpenAISource(baseURL, apiKey, modelName string, log zerolog.Logger) *OpenAISource {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAISource{
		api:   openai.NewClientWithConfig(cfg),
		model: modelName,
		log:   log.With().Str("component", "openai_question_source").Logger(),
	}
}

// Generate requests a JSON object of the same shape the HTTP generator returns.
func (s *OpenAISource) Generate(ctx context.Context, req Request) ([]model.QuestionItem, error) {
	resp, err := s.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(req)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("LLM returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	s.log.Debug().Str("raw", raw).Msg("LLM response")

	return parseCompletion(raw, req)
}

func parseCompletion(raw string, req Request) ([]model.QuestionItem, error) {
	var out Response
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("parse LLM response: %w", err)
	}
	if len(out.Questions) == 0 {
		return nil, ErrEmptyResponse
	}

	// The model tends to omit the echo fields.
	for i := range out.Questions {
		if out.Questions[i].Subject == "" {
			out.Questions[i].Subject = req.Subject
		}
		if out.Questions[i].Difficulty == "" {
			out.Questions[i].Difficulty = req.Difficulty
		}
	}
	return out.Questions, nil
}

func buildSystemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You write multiple-choice exam questions.\n\n")
	sb.WriteString("INSTRUCTIONS:\n")
	sb.WriteString("- Every question has exactly four options.\n")
	sb.WriteString("- The answer field must be copied verbatim from one of the options.\n")
	sb.WriteString("- Questions must match the requested subject and difficulty.\n")
	sb.WriteString("\nRespond ONLY with a JSON object:\n")
	sb.WriteString(`{"questions": [{"question": "<text>", "options": ["<a>", "<b>", "<c>", "<d>"], "answer": "<one of options>", "subject": "<subject>", "difficulty": "<difficulty>"}]}`)
	sb.WriteString("\n")
	return sb.String()
}

func buildUserPrompt(req Request) string {
	return fmt.Sprintf("SUBJECT: %s\nDIFFICULTY: %s\nNUMBER OF QUESTIONS: %d\n", req.Subject, req.Difficulty, req.NumQuestions)
}
