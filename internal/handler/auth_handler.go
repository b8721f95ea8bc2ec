package handler

import (
	"context"
	"net/http"

	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/alphagrade/alphagrade-backend/internal/response"
	"github.com/alphagrade/alphagrade-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AccountService is the part of service.AuthService the auth endpoints use.
type AccountService interface {
	Register(ctx context.Context, role model.Role, profile model.Profile, password string) (*model.Account, error)
	Login(ctx context.Context, role model.Role, email, password string) (string, error)
}

// AuthHandler handles registration and login for both roles.
type AuthHandler struct {
	auth AccountService
	log  zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth AccountService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth: auth,
		log:  log.With().Str("component", "auth_handler").Logger(),
	}
}

// FacultyRegister godoc
// POST /api/faculty/register
func (h *AuthHandler) FacultyRegister(c *gin.Context) {
	var req model.FacultyRegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	h.register(c, model.RoleFaculty, req.Profile(), req.Password, "Faculty registered successfully")
}

// StudentRegister godoc
// POST /api/student/register
func (h *AuthHandler) StudentRegister(c *gin.Context) {
	var req model.StudentRegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	h.register(c, model.RoleStudent, req.Profile(), req.Password, "Student registered successfully")
}

func (h *AuthHandler) register(c *gin.Context, role model.Role, profile model.Profile, password, message string) {
	if _, err := h.auth.Register(c.Request.Context(), role, profile, password); err != nil {
		failWithServiceError(c, h.log, err)
		return
	}
	response.Message(c, http.StatusCreated, message, nil)
}

// FacultyLogin godoc
// POST /api/faculty/login
func (h *AuthHandler) FacultyLogin(c *gin.Context) {
	h.login(c, model.RoleFaculty)
}

// StudentLogin godoc
// POST /api/student/login
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	h.login(c, model.RoleStudent)
}

func (h *AuthHandler) login(c *gin.Context, role model.Role) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, err := h.auth.Login(c.Request.Context(), role, req.Email, req.Password)
	if err != nil {
		failWithServiceError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"token": token})
}
