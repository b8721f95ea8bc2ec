package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alphagrade/alphagrade-backend/internal/config"
	"github.com/alphagrade/alphagrade-backend/internal/database"
	"github.com/alphagrade/alphagrade-backend/internal/handler"
	"github.com/alphagrade/alphagrade-backend/internal/middleware"
	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/alphagrade/alphagrade-backend/internal/questionsource"
	"github.com/alphagrade/alphagrade-backend/internal/repository/sqlite"
	"github.com/alphagrade/alphagrade-backend/internal/response"
	"github.com/alphagrade/alphagrade-backend/internal/service"
	"github.com/alphagrade/alphagrade-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Data  json.RawMessage     `json:"data"`
	Error *response.ErrorBody `json:"error"`
}

type app struct {
	t       *testing.T
	handler http.Handler
	source  *countingSource
}

type countingSource struct {
	calls int
	inner questionsource.Source
}

func (s *countingSource) Generate(ctx context.Context, req questionsource.Request) ([]model.QuestionItem, error) {
	s.calls++
	return s.inner.Generate(ctx, req)
}

func newApp(t *testing.T) *app {
	t.Helper()
	validator.Setup()
	ctx := context.Background()
	log := zerolog.Nop()

	db, err := database.NewSQLiteDB(ctx, ":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(ctx, db))

	cfg := &config.Config{
		GinMode:                gin.TestMode,
		JWTSecret:              "router-test-secret",
		JWTExpiry:              time.Hour,
		BcryptCost:             4,
		AuthRateLimitPerMinute: 1000,
	}
	metrics := service.NewMetricsService()
	src := &countingSource{inner: questionsource.NewTemplateSource()}

	authSvc := service.NewAuthService(sqlite.NewAccountStore(db), cfg, metrics, log)
	examSvc := service.NewExamService(sqlite.NewExamStore(db), src, metrics, log)

	r := SetupRouter(cfg, Deps{
		Auth:        authSvc,
		AuthLimiter: middleware.NewRateLimiter(cfg.AuthRateLimitPerMinute, time.Minute),
		Metrics:     metrics,
		Log:         log,
	}, &Handlers{
		Auth:    handler.NewAuthHandler(authSvc, log),
		Faculty: handler.NewFacultyHandler(examSvc, log),
		Student: handler.NewStudentHandler(examSvc, log),
		System:  handler.NewSystemHandler(log, handler.HealthCheck{Name: "database", Check: db.PingContext}),
	})
	return &app{t: t, handler: r, source: src}
}

func (a *app) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w.Code, env
}

func (a *app) login(role, email, password string) string {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/"+role+"/login", "", gin.H{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, code)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &data))
	return data.Token
}

func TestExamLifecycle(t *testing.T) {
	a := newApp(t)

	code, _ := a.do(http.MethodPost, "/api/faculty/register", "",
		gin.H{"name": "Dr. Rao", "email": "f@x.io", "password": "secret1", "department": "Math"})
	require.Equal(t, http.StatusCreated, code)
	facultyToken := a.login("faculty", "f@x.io", "secret1")

	code, env := a.do(http.MethodPost, "/api/faculty/create-exam", facultyToken,
		gin.H{"title": "Algebra", "subject": "Math", "difficulty": "easy", "numQuestions": 3})
	require.Equal(t, http.StatusCreated, code)
	var created struct {
		ExamID uuid.UUID `json:"examId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	code, env = a.do(http.MethodGet, "/api/faculty/exams", facultyToken, nil)
	require.Equal(t, http.StatusOK, code)
	var own []model.Exam
	require.NoError(t, json.Unmarshal(env.Data, &own))
	require.Len(t, own, 1)
	require.Len(t, own[0].Questions, 3)
	assert.Equal(t, "What is 1 in Math?", own[0].Questions[0].Question)

	code, _ = a.do(http.MethodPost, "/api/student/register", "",
		gin.H{"name": "Asha", "rollNumber": "R1", "email": "s@x.io", "password": "secret1", "class": "10A"})
	require.Equal(t, http.StatusCreated, code)
	studentToken := a.login("student", "s@x.io", "secret1")

	code, env = a.do(http.MethodGet, "/api/student/exams", studentToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(env.Data), `"answer"`)
	var listed []model.ExamForStudent
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ExamID, listed[0].ID)

	code, env = a.do(http.MethodGet, "/api/student/exam/"+created.ExamID.String(), studentToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(env.Data), `"answer"`)

	code, _ = a.do(http.MethodPost, "/api/student/submit-exam/"+created.ExamID.String(), studentToken,
		gin.H{"answers": gin.H{"0": "Option A"}})
	assert.Equal(t, http.StatusOK, code)

	code, env = a.do(http.MethodGet, "/api/student/results", studentToken, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestAccessControl(t *testing.T) {
	a := newApp(t)

	code, _ := a.do(http.MethodPost, "/api/student/register", "",
		gin.H{"name": "Asha", "email": "s@x.io", "password": "secret1"})
	require.Equal(t, http.StatusCreated, code)
	studentToken := a.login("student", "s@x.io", "secret1")

	code, env := a.do(http.MethodPost, "/api/faculty/create-exam", studentToken,
		gin.H{"title": "T", "subject": "S", "numQuestions": 1})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, response.ErrFacultyAccessOnly, env.Error.Code)
	assert.Zero(t, a.source.calls)

	code, _ = a.do(http.MethodGet, "/api/faculty/exams", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	// A malformed token counts as missing; a well-formed one with a bad
	// signature is rejected as invalid.
	code, _ = a.do(http.MethodGet, "/api/student/exams", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = a.do(http.MethodGet, "/api/student/exams", studentToken[:len(studentToken)-4]+"AAAA", nil)
	assert.Equal(t, http.StatusForbidden, code)

	// Student credentials do not work on the faculty login.
	code, env = a.do(http.MethodPost, "/api/faculty/login", "", gin.H{"email": "s@x.io", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, response.ErrInvalidCredentials, env.Error.Code)
}

func TestCreateExamBoundsNeverReachSource(t *testing.T) {
	a := newApp(t)
	code, _ := a.do(http.MethodPost, "/api/faculty/register", "",
		gin.H{"name": "F", "email": "f@x.io", "password": "secret1"})
	require.Equal(t, http.StatusCreated, code)
	token := a.login("faculty", "f@x.io", "secret1")

	for _, n := range []int{0, 51} {
		code, _ := a.do(http.MethodPost, "/api/faculty/create-exam", token,
			gin.H{"title": "T", "subject": "S", "numQuestions": n})
		assert.Equal(t, http.StatusBadRequest, code)
	}
	assert.Zero(t, a.source.calls)

	for _, n := range []int{1, 50} {
		code, _ := a.do(http.MethodPost, "/api/faculty/create-exam", token,
			gin.H{"title": "T", "subject": "S", "numQuestions": n})
		assert.Equal(t, http.StatusCreated, code)
	}
	assert.Equal(t, 2, a.source.calls)
}

func TestDuplicateRegistration(t *testing.T) {
	a := newApp(t)
	body := gin.H{"name": "F", "email": "dup@x.io", "password": "secret1"}

	code, _ := a.do(http.MethodPost, "/api/faculty/register", "", body)
	require.Equal(t, http.StatusCreated, code)

	code, env := a.do(http.MethodPost, "/api/faculty/register", "", body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, response.ErrDuplicateAccount, env.Error.Code)
}

func TestRegistrationPasswordTooLong(t *testing.T) {
	a := newApp(t)

	for i, password := range []string{strings.Repeat("a", 80), strings.Repeat("é", 40)} {
		code, env := a.do(http.MethodPost, "/api/faculty/register", "",
			gin.H{"name": "F", "email": fmt.Sprintf("long%d@x.io", i), "password": password})
		assert.Equal(t, http.StatusBadRequest, code)
		require.NotNil(t, env.Error)
		assert.Equal(t, response.ErrValidation, env.Error.Code)
		assert.Equal(t, "password must be at most 72 bytes", env.Error.Fields["password"])
	}

	code, _ := a.do(http.MethodPost, "/api/student/register", "",
		gin.H{"name": "S", "email": "edge@x.io", "password": strings.Repeat("a", 72)})
	assert.Equal(t, http.StatusCreated, code)
}

func TestSubmitAcceptsMissingBodyAndStrayIndices(t *testing.T) {
	a := newApp(t)

	code, _ := a.do(http.MethodPost, "/api/faculty/register", "",
		gin.H{"name": "F", "email": "f@x.io", "password": "secret1"})
	require.Equal(t, http.StatusCreated, code)
	facultyToken := a.login("faculty", "f@x.io", "secret1")

	code, env := a.do(http.MethodPost, "/api/faculty/create-exam", facultyToken,
		gin.H{"title": "Algebra", "subject": "Math", "numQuestions": 2})
	require.Equal(t, http.StatusCreated, code)
	var created struct {
		ExamID uuid.UUID `json:"examId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	code, _ = a.do(http.MethodPost, "/api/student/register", "",
		gin.H{"name": "S", "email": "s@x.io", "password": "secret1"})
	require.Equal(t, http.StatusCreated, code)
	studentToken := a.login("student", "s@x.io", "secret1")
	path := "/api/student/submit-exam/" + created.ExamID.String()

	code, env = a.do(http.MethodPost, path, studentToken, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, env.Error)

	code, _ = a.do(http.MethodPost, path, studentToken, gin.H{"answers": gin.H{"-3": "x", "99": "y", "1": "Option A"}})
	assert.Equal(t, http.StatusOK, code)

	code, env = a.do(http.MethodPost, path, studentToken, gin.H{"answers": "nope"})
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.ErrValidation, env.Error.Code)
}

func TestSystemRoutes(t *testing.T) {
	a := newApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	assert.Equal(t, handler.Banner, w.Body.String())

	code, _ := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w = httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestAuthRateLimit(t *testing.T) {
	a := newApp(t)
	cfg := &config.Config{GinMode: gin.TestMode, JWTSecret: "x", JWTExpiry: time.Hour, BcryptCost: 4}
	log := zerolog.Nop()
	authSvc := service.NewAuthService(nil, cfg, nil, log)

	r := SetupRouter(cfg, Deps{
		Auth:        authSvc,
		AuthLimiter: middleware.NewRateLimiter(1, time.Minute),
		Log:         log,
	}, &Handlers{
		Auth:    handler.NewAuthHandler(authSvc, log),
		Faculty: handler.NewFacultyHandler(nil, log),
		Student: handler.NewStudentHandler(nil, log),
		System:  handler.NewSystemHandler(log),
	})
	a.handler = r

	// Invalid payloads are rejected before touching the store, and still count.
	code, _ := a.do(http.MethodPost, "/api/faculty/login", "", gin.H{})
	assert.Equal(t, http.StatusBadRequest, code)
	code, env := a.do(http.MethodPost, "/api/faculty/login", "", gin.H{})
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, response.ErrRateLimitExceeded, env.Error.Code)
}
