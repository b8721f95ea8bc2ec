package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/alphagrade/alphagrade-backend/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Banner is the plain-text body of GET /.
const Banner = "AlphaGrade Server is running"

// HealthCheck is one dependency probed by GET /health.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// SystemHandler serves the banner and health endpoints.
type SystemHandler struct {
	checks    []HealthCheck
	startTime time.Time
	log       zerolog.Logger
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(log zerolog.Logger, checks ...HealthCheck) *SystemHandler {
	return &SystemHandler{
		checks:    checks,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

// Root godoc
// GET /
func (h *SystemHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, Banner)
}

// Health godoc
// GET /health
// Reports 503 when any dependency check fails.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for _, hc := range h.checks {
		if err := hc.Check(ctx); err != nil {
			h.log.Warn().Err(err).Str("check", hc.Name).Msg("Health check failed")
			results[hc.Name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		results[hc.Name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	response.Success(c, status, gin.H{
		"status": overall,
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
		"checks": results,
	})
}
