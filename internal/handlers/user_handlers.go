package handlers

import (
	"errors"
	"net/http"
	"strings"

	"clientback/internal/metrics"
	"clientback/internal/services"
	"clientback/pkg/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler holds the account service.
type UserHandler struct {
	accountService services.AccountService
	metrics        *metrics.Metrics
}

// NewUserHandler creates a new UserHandler. m may be nil.
func NewUserHandler(as services.AccountService, m *metrics.Metrics) *UserHandler {
	return &UserHandler{accountService: as, metrics: m}
}

// RegisterUser handles user registration.
func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req services.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, "RegisterUser", err)
		return
	}

	user, err := h.accountService.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrUserAlreadyExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email already registered.", err.Error()))
		} else if errors.Is(err, services.ErrMobilePhoneExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Mobile phone already registered.", err.Error()))
		} else if errors.Is(err, services.ErrInvalidPassword) {
			utils.RespondValidationFailed(c, err.Error())
		} else {
			utils.LogError(err, "RegisterUser: Error from accountService.Register")
			utils.RespondInternalError(c, "Failed to register user.")
		}
		return
	}
	c.JSON(http.StatusCreated, user)
}

// LoginUser exchanges the email and password query parameters for a token,
// written as plain text.
func (h *UserHandler) LoginUser(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	password := c.Query("password")
	if email == "" || password == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Missing credentials.", "email and password query parameters are required"))
		return
	}

	token, err := h.accountService.Login(c.Request.Context(), email, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.metrics.RecordLogin(metrics.LoginFailure)
			c.String(http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.metrics.RecordLogin(metrics.LoginError)
		utils.LogError(err, "LoginUser: Error from accountService.Login")
		utils.RespondInternalError(c, "Failed to log in.")
		return
	}
	h.metrics.RecordLogin(metrics.LoginSuccess)
	c.String(http.StatusOK, token)
}

// UpdateUser replaces the profile of the user in the path, which must be the caller.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	idStr := c.Param("userId")
	userID, err := utils.ParsePositiveID(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid user ID format.", err.Error()))
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, "UpdateUser", err)
		return
	}

	user, err := h.accountService.Update(c.Request.Context(), principal, userID, req)
	if err != nil {
		if respondCommonError(c, err, "UpdateUser") {
			return
		}
		if errors.Is(err, services.ErrUserNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found.", err.Error()))
		} else if errors.Is(err, services.ErrForbidden) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You can only update your own account.", err.Error()))
		} else if errors.Is(err, services.ErrInvalidPassword) {
			utils.RespondValidationFailed(c, err.Error())
		} else if errors.Is(err, services.ErrUserAlreadyExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Email already registered.", err.Error()))
		} else if errors.Is(err, services.ErrMobilePhoneExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Mobile phone already registered.", err.Error()))
		} else {
			utils.LogError(err, "UpdateUser: Error from accountService.Update for ID "+idStr)
			utils.RespondInternalError(c, "Failed to update user.")
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetCurrentUser returns the caller's own account.
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	user, err := h.accountService.Profile(c.Request.Context(), principal)
	if err != nil {
		if respondCommonError(c, err, "GetCurrentUser") {
			return
		}
		utils.LogError(err, "GetCurrentUser: Error from accountService.Profile")
		utils.RespondInternalError(c, "Failed to fetch user profile.")
		return
	}
	c.JSON(http.StatusOK, user)
}
