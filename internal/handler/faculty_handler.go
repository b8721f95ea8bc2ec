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

// FacultyExamService is the part of service.ExamService faculty endpoints use.
type FacultyExamService interface {
	CreateExam(ctx context.Context, facultyID uuid.UUID, req model.CreateExamRequest) (*model.Exam, error)
	ListExamsForFaculty(ctx context.Context, facultyID uuid.UUID) ([]model.Exam, error)
}

// FacultyHandler handles exam authoring endpoints.
type FacultyHandler struct {
	exams FacultyExamService
	log   zerolog.Logger
}

// NewFacultyHandler creates a new FacultyHandler.
func NewFacultyHandler(exams FacultyExamService, log zerolog.Logger) *FacultyHandler {
	return &FacultyHandler{
		exams: exams,
		log:   log.With().Str("component", "faculty_handler").Logger(),
	}
}

// CreateExam godoc
// POST /api/faculty/create-exam
// Generates questions through the question source and stores the exam.
func (h *FacultyHandler) CreateExam(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, err := h.exams.CreateExam(c.Request.Context(), identity.AccountID, req)
	if err != nil {
		failWithServiceError(c, h.log, err)
		return
	}

	response.Message(c, http.StatusCreated, "Exam created successfully", gin.H{"examId": exam.ID})
}

// ListExams godoc
// GET /api/faculty/exams
// Returns the caller's exams including answers, newest first.
func (h *FacultyHandler) ListExams(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	exams, err := h.exams.ListExamsForFaculty(c.Request.Context(), identity.AccountID)
	if err != nil {
		failWithServiceError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, exams)
}
