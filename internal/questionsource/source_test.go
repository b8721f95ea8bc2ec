package questionsource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateSource_Generate(t *testing.T) {
	items, err := NewTemplateSource().Generate(context.Background(), Request{Subject: "Math", Difficulty: "easy", NumQuestions: 3})
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "What is 1 in Math?", items[0].Question)
	assert.Equal(t, "What is 3 in Math?", items[2].Question)
	for _, it := range items {
		assert.Equal(t, []string{"Option A", "Option B", "Option C", "Option D"}, it.Options)
		assert.Equal(t, "Option A", it.Answer)
		assert.Equal(t, "easy", it.Difficulty)
		assert.NoError(t, it.Validate())
	}

	// Options slices are independent per question.
	items[0].Options[0] = "changed"
	assert.Equal(t, "Option A", items[1].Options[0])
}

func TestHTTPSource_Generate(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ai/generate-questions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		items, _ := NewTemplateSource().Generate(r.Context(), got)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Response{Questions: items})
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/ai/generate-questions", srv.Client())
	items, err := src.Generate(context.Background(), Request{Subject: "Physics", Difficulty: "hard", NumQuestions: 2})
	require.NoError(t, err)

	assert.Equal(t, Request{Subject: "Physics", Difficulty: "hard", NumQuestions: 2}, got)
	require.Len(t, items, 2)
	assert.Equal(t, "What is 2 in Physics?", items[1].Question)
}

func TestHTTPSource_WireFieldNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Contains(t, body, "numQuestions")
		assert.Contains(t, body, "subject")
		assert.Contains(t, body, "difficulty")
		_, _ = w.Write([]byte(`{"questions":[{"question":"q","options":["x","y"],"answer":"y","subject":"s","difficulty":"d"}]}`))
	}))
	defer srv.Close()

	items, err := NewHTTPSource(srv.URL, nil).Generate(context.Background(), Request{Subject: "s", Difficulty: "d", NumQuestions: 1})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "y", items[0].Answer)
}

func TestHTTPSource_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `boom`},
		{name: "malformed json", status: http.StatusOK, body: `{"questions":`},
		{name: "empty questions", status: http.StatusOK, body: `{"questions":[]}`, wantErr: ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPSource(srv.URL, nil).Generate(context.Background(), Request{Subject: "s", NumQuestions: 1})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestHTTPSource_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPSource(url, nil).Generate(context.Background(), Request{Subject: "s", NumQuestions: 1})
	assert.Error(t, err)
}

func TestHTTPSource_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPSource(srv.URL, nil).Generate(ctx, Request{Subject: "s", NumQuestions: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseCompletion_FillsEchoFields(t *testing.T) {
	raw := `{"questions":[{"question":"What is a goroutine?","options":["thread","process"],"answer":"thread"}]}`
	items, err := parseCompletion(raw, Request{Subject: "Go", Difficulty: "medium"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Go", items[0].Subject)
	assert.Equal(t, "medium", items[0].Difficulty)

	_, err = parseCompletion(`{"questions":[]}`, Request{})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = parseCompletion(`not json`, Request{})
	assert.Error(t, err)
}

func TestBuildUserPrompt(t *testing.T) {
	prompt := buildUserPrompt(Request{Subject: "History", Difficulty: "hard", NumQuestions: 7})
	assert.Contains(t, prompt, "History")
	assert.Contains(t, prompt, "hard")
	assert.Contains(t, prompt, "7")
}

func TestOpenAISource_Generate(t *testing.T) {
	content := `{"questions":[{"question":"2+2?","options":["3","4"],"answer":"4"}]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	defer srv.Close()

	src := NewOpenAISource(srv.URL+"/v1", "test-key", "test-model", zerolog.Nop())
	items, err := src.Generate(context.Background(), Request{Subject: "Math", Difficulty: "easy", NumQuestions: 1})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "4", items[0].Answer)
	assert.Equal(t, "Math", items[0].Subject)
}
