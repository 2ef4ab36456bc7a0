package handlers

import (
	"errors"
	"net/http"

	"clientback/internal/middleware"
	"clientback/internal/models"
	"clientback/internal/services"
	"clientback/pkg/utils"

	"github.com/gin-gonic/gin"
)

// requirePrincipal returns the authenticated principal or writes a 401.
func requirePrincipal(c *gin.Context) (models.Principal, bool) {
	p, ok := middleware.PrincipalFromContext(c)
	if !ok {
		utils.RespondUnauthorized(c, "Authentication required", "")
		return models.Principal{}, false
	}
	return p, true
}

// respondCommonError handles the errors every authenticated endpoint can produce.
// It reports false when err was left for the caller to map.
func respondCommonError(c *gin.Context, err error, op string) bool {
	switch {
	case errors.Is(err, services.ErrAuthenticationRequired):
		utils.RespondUnauthorized(c, "Authentication required", "")
	case errors.Is(err, services.ErrPrincipalNotFound):
		utils.LogError(err, op+": principal has no user record", map[string]interface{}{"request_id": c.GetString(utils.RequestIDKey)})
		utils.RespondInternalError(c, "Authenticated user could not be resolved.")
	default:
		return false
	}
	return true
}

func bindFailed(c *gin.Context, op string, err error) {
	utils.LogDebug(op+": Failed to bind JSON", map[string]interface{}{"error": err.Error()})
	utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error()))
}
