package handler

import (
	"errors"
	"net/http"

	"github.com/alphagrade/alphagrade-backend/internal/response"
	"github.com/alphagrade/alphagrade-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// failWithServiceError maps a domain error onto the response envelope.
// Unknown errors are logged and reported as 500.
func failWithServiceError(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateAccount):
		response.Fail(c, http.StatusBadRequest, response.ErrDuplicateAccount)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrInvalidExamRequest):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{"detail": err.Error()})
	case errors.Is(err, service.ErrPasswordTooLong):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{"password": err.Error()})
	case errors.Is(err, service.ErrUnauthenticated):
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
	case errors.Is(err, service.ErrInvalidToken):
		response.Fail(c, http.StatusForbidden, response.ErrTokenInvalid)
	case errors.Is(err, service.ErrForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrExamNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
	case errors.Is(err, service.ErrQuestionSourceUnavailable):
		log.Error().Err(err).Str("request_id", response.RequestID(c)).Msg("Question source unavailable")
		response.Fail(c, http.StatusInternalServerError, response.ErrQuestionSourceUnavailable)
	default:
		log.Error().Err(err).Str("request_id", response.RequestID(c)).Msg("Unhandled error")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
