package middleware

import (
	"errors"
	"strings"

	"clientback/internal/models"
	"clientback/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PrincipalKey is the gin context key holding the authenticated models.Principal.
const PrincipalKey = "principal"

// TokenValidator checks a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*utils.Claims, error)
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondUnauthorized(c, "Authorization header required", "")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			utils.RespondUnauthorized(c, "Invalid authorization header format", "Use Bearer <token>")
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				utils.RespondUnauthorized(c, "Token expired", "")
			} else {
				utils.RespondUnauthorized(c, "Invalid token", "")
			}
			return
		}

		principal := models.NewPrincipal(claims.Email())
		if principal.IsZero() {
			utils.RespondUnauthorized(c, "Invalid token", "missing subject")
			return
		}

		// Set the principal in the context for downstream handlers
		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

// PrincipalFromContext returns the principal stored by AuthMiddleware.
func PrincipalFromContext(c *gin.Context) (models.Principal, bool) {
	v, exists := c.Get(PrincipalKey)
	if !exists {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	if !ok || p.IsZero() {
		return models.Principal{}, false
	}
	return p, true
}
