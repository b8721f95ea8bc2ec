package questionsource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/alphagrade/alphagrade-backend/internal/model"
)

// DefaultURL is where the question generator listens in a local deployment.
const DefaultURL = "http://localhost:8000/ai/generate-questions"

// HTTPSource calls a remote question generator over JSON/HTTP.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates an HTTPSource posting to url. A nil client uses a
// client without a timeout; cancellation comes from the request context.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if url == "" {
		url = DefaultURL
	}
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPSource{url: url, client: client}
}

// Generate posts the request and decodes the questions array.
func (s *HTTPSource) Generate(ctx context.Context, req Request) ([]model.QuestionItem, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call question source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("question source status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode question source response: %w", err)
	}
	if len(out.Questions) == 0 {
		return nil, ErrEmptyResponse
	}
	return out.Questions, nil
}
