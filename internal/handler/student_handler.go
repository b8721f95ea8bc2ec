package handler

import (
	"context"
	"net/http"

	"github.com/alphagrade/alphagrade-backend/internal/middleware"
	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/alphagrade/alphagrade-backend/internal/response"
	"github.com/alphagrade/alphagrade-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StudentExamService is the part of service.ExamService student endpoints use.
type StudentExamService interface {
	ListExamsForStudent(ctx context.Context) ([]model.ExamForStudent, error)
	GetExam(ctx context.Context, examID uuid.UUID) (*model.Exam, error)
	SubmitExam(ctx context.Context, examID, studentID uuid.UUID, answers model.Answers) (*model.Submission, error)
	ListResults(ctx context.Context, studentID uuid.UUID) ([]model.Result, error)
}

// StudentHandler handles exam taking endpoints. Every exam is visible to any
// authenticated caller; answers are never included.
type StudentHandler struct {
	exams StudentExamService
	log   zerolog.Logger
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(exams StudentExamService, log zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		exams: exams,
		log:   log.With().Str("component", "student_handler").Logger(),
	}
}

// ListExams godoc
// GET /api/student/exams
func (h *StudentHandler) ListExams(c *gin.Context) {
	exams, err := h.exams.ListExamsForStudent(c.Request.Context())
	if err != nil {
		failWithServiceError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, exams)
}

// GetExam godoc
// GET /api/student/exam/:examId
func (h *StudentHandler) GetExam(c *gin.Context) {
	examID, ok := parseExamID(c)
	if !ok {
		return
	}

	exam, err := h.exams.GetExam(c.Request.Context(), examID)
	if err != nil {
		failWithServiceError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, exam.ForStudent())
}

// SubmitExam godoc
// POST /api/student/submit-exam/:examId
// Acknowledges the answers. Nothing is scored or stored.
func (h *StudentHandler) SubmitExam(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	examID, ok := parseExamID(c)
	if !ok {
		return
	}

	// A missing body is an attempt with nothing answered.
	var req model.SubmitExamRequest
	if fields := validator.BindOptional(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if _, err := h.exams.SubmitExam(c.Request.Context(), examID, identity.AccountID, req.Answers); err != nil {
		failWithServiceError(c, h.log, err)
		return
	}
	response.Message(c, http.StatusOK, "Exam submitted successfully", nil)
}

// ListResults godoc
// GET /api/student/results
func (h *StudentHandler) ListResults(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	results, err := h.exams.ListResults(c.Request.Context(), identity.AccountID)
	if err != nil {
		failWithServiceError(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, results)
}

// parseExamID reads :examId. A malformed id cannot name an exam, so it is
// reported as not found.
func parseExamID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("examId"))
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
		return uuid.Nil, false
	}
	return id, true
}
