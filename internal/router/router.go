package router

import (
	"time"

	"github.com/alphagrade/alphagrade-backend/internal/config"
	"github.com/alphagrade/alphagrade-backend/internal/handler"
	"github.com/alphagrade/alphagrade-backend/internal/logger"
	"github.com/alphagrade/alphagrade-backend/internal/middleware"
	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/alphagrade/alphagrade-backend/internal/response"
	"github.com/alphagrade/alphagrade-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Faculty *handler.FacultyHandler
	Student *handler.StudentHandler
	System  *handler.SystemHandler
}

// Deps carries the cross-cutting collaborators the routes need.
type Deps struct {
	Auth        middleware.Authenticator
	AuthLimiter middleware.Limiter
	Metrics     *service.MetricsService
	Log         zerolog.Logger
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(cfg *config.Config, deps Deps, handlers *Handlers) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(logger.AccessLog(deps.Log))
	router.Use(middleware.Metrics(deps.Metrics))
	router.Use(middleware.Brotli())

	router.GET("/", handlers.System.Root)
	router.GET("/health", handlers.System.Health)
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	api := router.Group("/api", middleware.NoStore())

	// ─── Public auth (rate limited per IP) ─────────────────────────────
	public := api.Group("")
	if deps.AuthLimiter != nil {
		public.Use(middleware.RateLimit(deps.AuthLimiter, deps.Log))
	}
	{
		public.POST("/faculty/register", handlers.Auth.FacultyRegister)
		public.POST("/faculty/login", handlers.Auth.FacultyLogin)
		public.POST("/student/register", handlers.Auth.StudentRegister)
		public.POST("/student/login", handlers.Auth.StudentLogin)
	}

	// ─── Faculty ───────────────────────────────────────────────────────
	faculty := api.Group("/faculty",
		middleware.RequireAuth(deps.Auth),
		middleware.RequireRole(deps.Auth, model.RoleFaculty),
	)
	{
		faculty.POST("/create-exam", handlers.Faculty.CreateExam)
		faculty.GET("/exams", handlers.Faculty.ListExams)
	}

	// ─── Student-facing exam routes ────────────────────────────────────
	// Any authenticated role may read exams and submit.
	student := api.Group("/student", middleware.RequireAuth(deps.Auth))
	{
		student.GET("/exams", handlers.Student.ListExams)
		student.GET("/exam/:examId", handlers.Student.GetExam)
		student.POST("/submit-exam/:examId", handlers.Student.SubmitExam)
		student.GET("/results", handlers.Student.ListResults)
	}

	return router
}
