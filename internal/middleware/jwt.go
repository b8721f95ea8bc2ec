package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/alphagrade/alphagrade-backend/internal/response"
	"github.com/alphagrade/alphagrade-backend/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	// ContextKeyIdentity is the Gin context key for the authenticated caller.
	ContextKeyIdentity = "identity"
)

// Authenticator validates tokens and role requirements. *service.AuthService
// implements it.
type Authenticator interface {
	Authenticate(token string) (*service.Identity, error)
	RequireRole(identity *service.Identity, role model.Role) error
}

// RequireAuth validates the bearer token and stores the caller identity.
// A missing token is 401, a token that fails verification is 403.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := auth.Authenticate(bearerToken(c))
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
				return
			}
			response.AbortFail(c, http.StatusForbidden, response.ErrTokenInvalid)
			return
		}

		c.Set(ContextKeyIdentity, identity)
		c.Next()
	}
}

// GetIdentity retrieves the caller identity from the Gin context.
func GetIdentity(c *gin.Context) *service.Identity {
	val, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return nil
	}
	identity, ok := val.(*service.Identity)
	if !ok {
		return nil
	}
	return identity
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
