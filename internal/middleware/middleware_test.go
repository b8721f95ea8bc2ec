package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alphagrade/alphagrade-backend/internal/config"
	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/alphagrade/alphagrade-backend/internal/response"
	"github.com/alphagrade/alphagrade-backend/internal/service"
	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func newAuth() *service.AuthService {
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour, BcryptCost: 4}
	return service.NewAuthService(nil, cfg, nil, zerolog.Nop())
}

func decodeError(t *testing.T, body io.Reader) response.ErrCode {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func protectedRouter(auth Authenticator, role model.Role) *gin.Engine {
	r := gin.New()
	r.GET("/any", RequireAuth(auth), func(c *gin.Context) {
		c.String(http.StatusOK, string(GetIdentity(c).Role))
	})
	r.GET("/role", RequireAuth(auth), RequireRole(auth, role), func(c *gin.Context) {
		c.String(http.StatusOK, GetIdentity(c).AccountID.String())
	})
	return r
}

func doGet(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	auth := newAuth()
	r := protectedRouter(auth, model.RoleFaculty)
	studentToken, err := auth.GenerateToken(uuid.New(), model.RoleStudent)
	require.NoError(t, err)

	w := doGet(r, "/any", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.ErrTokenRequired, decodeError(t, w.Body))

	w = doGet(r, "/any", studentToken+"x")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, response.ErrTokenInvalid, decodeError(t, w.Body))

	w = doGet(r, "/any", studentToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "student", w.Body.String())
}

func TestRequireAuthIgnoresNonBearerScheme(t *testing.T) {
	r := protectedRouter(newAuth(), model.RoleFaculty)

	req := httptest.NewRequest(http.MethodGet, "/any", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	auth := newAuth()
	r := protectedRouter(auth, model.RoleFaculty)
	facultyID := uuid.New()

	facultyToken, err := auth.GenerateToken(facultyID, model.RoleFaculty)
	require.NoError(t, err)
	studentToken, err := auth.GenerateToken(uuid.New(), model.RoleStudent)
	require.NoError(t, err)

	w := doGet(r, "/role", facultyToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, facultyID.String(), w.Body.String())

	w = doGet(r, "/role", studentToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, response.ErrFacultyAccessOnly, decodeError(t, w.Body))
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	r := gin.New()
	r.GET("/", RequireRole(newAuth(), model.RoleStudent), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doGet(r, "/", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := rl.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := rl.Allow(ctx, "1.2.3.4")
	assert.False(t, ok)

	// Other keys have their own bucket.
	ok, _ = rl.Allow(ctx, "5.6.7.8")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	ok, _ = rl.Allow(ctx, "1.2.3.4")
	assert.True(t, ok)
}

func TestRateLimiterSweepsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	_, _ = rl.Allow(context.Background(), "a")
	now = now.Add(10 * time.Minute)
	_, _ = rl.Allow(context.Background(), "b")

	assert.NotContains(t, rl.visitors, "a")
	assert.Contains(t, rl.visitors, "b")
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(NewRateLimiter(1, time.Minute), zerolog.Nop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		return w.Code
	}
	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestRateLimitFailsOpenWhenRedisIsDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	limiter := NewRedisRateLimiter(rdb, 1, time.Minute)
	_, err := limiter.Allow(context.Background(), "1.2.3.4")
	require.Error(t, err)

	r := gin.New()
	r.POST("/login", RateLimit(limiter, zerolog.Nop()), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBrotli(t *testing.T) {
	large := strings.Repeat("alphagrade ", 500)
	r := gin.New()
	r.Use(Brotli())
	r.GET("/large", func(c *gin.Context) { c.String(http.StatusOK, large) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/large", nil)
	req.Header.Set("Accept-Encoding", "gzip, br;q=0.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "br", w.Header().Get("Content-Encoding"))
	body, err := io.ReadAll(brotli.NewReader(w.Body))
	require.NoError(t, err)
	assert.Equal(t, large, string(body))

	req = httptest.NewRequest(http.MethodGet, "/small", nil)
	req.Header.Set("Accept-Encoding", "br")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "ok", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/large", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, large, w.Body.String())
}

func TestNoStore(t *testing.T) {
	r := gin.New()
	r.Use(NoStore())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := doGet(r, "/", "")
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestMetricsMiddleware(t *testing.T) {
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	doGet(r, "/health", "")
	doGet(r, "/missing", "")

	w := doGet(r, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/health",status="200"} 1`)
	assert.Contains(t, w.Body.String(), `path="unmatched"`)
}
