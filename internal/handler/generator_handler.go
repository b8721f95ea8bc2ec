package handler

import (
	"net/http"
	"time"

	"github.com/alphagrade/alphagrade-backend/internal/questionsource"
	"github.com/alphagrade/alphagrade-backend/internal/response"
	"github.com/alphagrade/alphagrade-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// GeneratorHandler serves the question generator protocol on top of a local
// Source. It answers with the bare {questions} body, not the API envelope,
// because HTTPSource reads that shape.
type GeneratorHandler struct {
	source questionsource.Source
	log    zerolog.Logger
}

// NewGeneratorHandler creates a GeneratorHandler.
func NewGeneratorHandler(source questionsource.Source, log zerolog.Logger) *GeneratorHandler {
	return &GeneratorHandler{
		source: source,
		log:    log.With().Str("component", "generator_handler").Logger(),
	}
}

// Generate godoc
// POST /ai/generate-questions
func (h *GeneratorHandler) Generate(c *gin.Context) {
	var req questionsource.Request
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = "easy"
	}

	start := time.Now()
	questions, err := h.source.Generate(c.Request.Context(), req)
	if err != nil {
		h.log.Error().Err(err).Str("subject", req.Subject).Msg("Question generation failed")
		response.Fail(c, http.StatusBadGateway, response.ErrQuestionSourceUnavailable)
		return
	}

	h.log.Info().
		Str("subject", req.Subject).
		Str("difficulty", req.Difficulty).
		Int("requested", req.NumQuestions).
		Int("generated", len(questions)).
		Dur("took", time.Since(start)).
		Msg("Questions generated")
	c.JSON(http.StatusOK, questionsource.Response{Questions: questions})
}
