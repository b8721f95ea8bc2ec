// Package examclient is the student-side client: a thin wrapper over the HTTP
// API and the timed exam Session that drives an attempt.
package examclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrNotStudent is returned when a session is requested with a non-student token.
var ErrNotStudent = errors.New("exam sessions require a student account")

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s: %s", e.Status, e.Code, e.Message)
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client calls the AlphaGrade API on behalf of one logged-in account.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	role    model.Role
}

// NewClient creates a Client for baseURL (e.g. http://localhost:5000).
// A nil httpClient uses a client without a timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Login authenticates against the role's login endpoint and keeps the token.
func (c *Client) Login(ctx context.Context, role model.Role, email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	body := model.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/"+string(role)+"/login", body, &out); err != nil {
		return err
	}
	return c.SetToken(out.Token)
}

// SetToken installs a token and decodes its role. The signature is not
// checked here; the server verifies it on every call.
func (c *Client) SetToken(token string) error {
	var claims struct {
		jwt.RegisteredClaims
		Role model.Role `json:"role"`
	}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return fmt.Errorf("decode token: %w", err)
	}
	c.token = token
	c.role = claims.Role
	return nil
}

// Role is the role carried by the current token.
func (c *Client) Role() model.Role { return c.role }

// ListExams returns every exam visible to the caller.
func (c *Client) ListExams(ctx context.Context) ([]model.ExamForStudent, error) {
	var exams []model.ExamForStudent
	if err := c.do(ctx, http.MethodGet, "/api/student/exams", nil, &exams); err != nil {
		return nil, err
	}
	return exams, nil
}

// GetExam fetches one exam without answers.
func (c *Client) GetExam(ctx context.Context, examID uuid.UUID) (*model.ExamForStudent, error) {
	var exam model.ExamForStudent
	if err := c.do(ctx, http.MethodGet, "/api/student/exam/"+examID.String(), nil, &exam); err != nil {
		return nil, err
	}
	return &exam, nil
}

// SubmitExam posts the answer map.
func (c *Client) SubmitExam(ctx context.Context, examID uuid.UUID, answers model.Answers) error {
	return c.do(ctx, http.MethodPost, "/api/student/submit-exam/"+examID.String(),
		model.SubmitExamRequest{Answers: answers}, nil)
}

// ListResults returns the caller's graded results.
func (c *Client) ListResults(ctx context.Context) ([]model.Result, error) {
	var results []model.Result
	if err := c.do(ctx, http.MethodGet, "/api/student/results", nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// NewSession starts a timed session for examID. Only students may take exams.
func (c *Client) NewSession(examID uuid.UUID, opts ...Option) (*Session, error) {
	if c.role != model.RoleStudent {
		return nil, ErrNotStudent
	}
	return NewSession(c, examID, opts...), nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr == nil && env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
