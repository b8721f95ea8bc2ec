package middleware

import (
	"errors"
	"net/http"

	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/alphagrade/alphagrade-backend/internal/response"
	"github.com/alphagrade/alphagrade-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through only when the authenticated caller
// holds role. It must run after RequireAuth.
func RequireRole(auth Authenticator, role model.Role) gin.HandlerFunc {
	denied := response.ErrForbidden
	switch role {
	case model.RoleFaculty:
		denied = response.ErrFacultyAccessOnly
	case model.RoleStudent:
		denied = response.ErrStudentAccessOnly
	}

	return func(c *gin.Context) {
		err := auth.RequireRole(GetIdentity(c), role)
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, service.ErrUnauthenticated):
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		default:
			response.AbortFail(c, http.StatusForbidden, denied)
		}
	}
}
