package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alphagrade/alphagrade-backend/internal/config"
	"github.com/alphagrade/alphagrade-backend/internal/database"
	"github.com/alphagrade/alphagrade-backend/internal/handler"
	"github.com/alphagrade/alphagrade-backend/internal/logger"
	"github.com/alphagrade/alphagrade-backend/internal/middleware"
	"github.com/alphagrade/alphagrade-backend/internal/questionsource"
	"github.com/alphagrade/alphagrade-backend/internal/router"
	"github.com/alphagrade/alphagrade-backend/internal/service"
	"github.com/alphagrade/alphagrade-backend/internal/storage"
	"github.com/alphagrade/alphagrade-backend/internal/validator"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("database", cfg.DatabaseDriver).
		Str("question_source", cfg.QuestionSource).
		Msg("Starting AlphaGrade Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Open Storage ──────────────────────────────────────────────────
	stores, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer stores.Close()

	checks := []handler.HealthCheck{{Name: "database", Check: stores.Ping}}

	// ─── Auth Rate Limiter ─────────────────────────────────────────────
	// Redis shares the counters across replicas; without it each process
	// limits on its own.
	var authLimiter middleware.Limiter = middleware.NewRateLimiter(cfg.AuthRateLimitPerMinute, time.Minute)
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	if rdb != nil {
		defer rdb.Close()
		authLimiter = middleware.NewRedisRateLimiter(rdb, cfg.AuthRateLimitPerMinute, time.Minute)
		checks = append(checks, handler.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}

	// ─── Initialize Services ──────────────────────────────────────────
	metrics := service.NewMetricsService()
	source := newQuestionSource(cfg, log)

	authService := service.NewAuthService(stores.Accounts, cfg, metrics, log)
	examService := service.NewExamService(stores.Exams, source, metrics, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:    handler.NewAuthHandler(authService, log),
		Faculty: handler.NewFacultyHandler(examService, log),
		Student: handler.NewStudentHandler(examService, log),
		System:  handler.NewSystemHandler(log, checks...),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(cfg, router.Deps{
		Auth:        authService,
		AuthLimiter: authLimiter,
		Metrics:     metrics,
		Log:         log,
	}, handlers)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

func newQuestionSource(cfg *config.Config, log zerolog.Logger) questionsource.Source {
	switch cfg.QuestionSource {
	case config.QuestionSourceOpenAI:
		if cfg.LLMAPIKey == "" {
			log.Fatal().Msg("QUESTION_SOURCE=openai requires LLM_API_KEY")
		}
		log.Info().Str("model", cfg.LLMModel).Msg("Generating questions with the LLM backend")
		return questionsource.NewOpenAISource(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, log)
	case config.QuestionSourceHTTP:
		log.Info().Str("url", cfg.QuestionSourceURL).Msg("Using remote question service")
		return questionsource.NewHTTPSource(cfg.QuestionSourceURL, nil)
	}
	log.Fatal().Str("question_source", cfg.QuestionSource).Msg("Unknown QUESTION_SOURCE")
	return nil
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
