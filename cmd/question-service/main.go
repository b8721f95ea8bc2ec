package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alphagrade/alphagrade-backend/internal/config"
	"github.com/alphagrade/alphagrade-backend/internal/handler"
	"github.com/alphagrade/alphagrade-backend/internal/logger"
	"github.com/alphagrade/alphagrade-backend/internal/questionsource"
	"github.com/alphagrade/alphagrade-backend/internal/response"
	"github.com/alphagrade/alphagrade-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// The question service is the generator the backend calls when
// QUESTION_SOURCE=http. It produces template questions unless an LLM key is
// configured.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat).With().Str("app", "question-service").Logger()
	validator.Setup()

	var source questionsource.Source = questionsource.NewTemplateSource()
	backend := "template"
	if cfg.LLMAPIKey != "" {
		source = questionsource.NewOpenAISource(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, log)
		backend = "llm"
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(response.RequestIDMiddleware())
	r.Use(logger.AccessLog(log))

	r.GET("/health", handler.NewSystemHandler(log).Health)
	r.POST("/ai/generate-questions", handler.NewGeneratorHandler(source, log).Generate)

	srv := &http.Server{
		Addr:              ":" + cfg.QuestionServicePort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("backend", backend).Msg("Question service listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
	log.Info().Msg("Shutdown complete")
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
