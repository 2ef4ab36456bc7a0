package handlers

import (
	"errors"
	"net/http"

	"clientback/internal/services"
	"clientback/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService services.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: cs}
}

// GetAllClients lists the caller's clients.
func (h *ClientHandler) GetAllClients(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	clients, err := h.clientService.ListAll(c.Request.Context(), principal)
	if err != nil {
		if respondCommonError(c, err, "GetAllClients") {
			return
		}
		utils.LogError(err, "GetAllClients: Error from clientService.ListAll")
		utils.RespondInternalError(c, "Failed to fetch clients.")
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetClientByIdentification fetches one of the caller's clients by document type and number.
func (h *ClientHandler) GetClientByIdentification(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	idType, idNumber := c.Param("idType"), c.Param("idNumber")

	client, err := h.clientService.GetByIdentification(c.Request.Context(), principal, idType, idNumber)
	if err != nil {
		if respondCommonError(c, err, "GetClientByIdentification") {
			return
		}
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", ""))
		} else {
			utils.LogError(err, "GetClientByIdentification: Error from clientService.GetByIdentification")
			utils.RespondInternalError(c, "Failed to fetch client.")
		}
		return
	}
	c.JSON(http.StatusOK, client)
}

// CreateClient handles the creation of a new client owned by the caller.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req services.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, "CreateClient", err)
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), principal, req)
	if err != nil {
		if respondCommonError(c, err, "CreateClient") {
			return
		}
		if errors.Is(err, services.ErrClientAlreadyExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Client with this identification already exists.", err.Error()))
		} else if errors.Is(err, services.ErrInvalidClient) {
			utils.RespondValidationFailed(c, err.Error())
		} else {
			utils.LogError(err, "CreateClient: Error from clientService.Create")
			utils.RespondInternalError(c, "Failed to create client.")
		}
		return
	}
	c.JSON(http.StatusCreated, client)
}

// UpdateClient handles updating one of the caller's clients.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	idStr := c.Param("clientId")
	clientID, err := utils.ParsePositiveID(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid client ID format.", err.Error()))
		return
	}

	var req services.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, "UpdateClient", err)
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), principal, clientID, req)
	if err != nil {
		if respondCommonError(c, err, "UpdateClient") {
			return
		}
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found to update.", ""))
		} else if errors.Is(err, services.ErrClientAlreadyExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Client with this identification already exists.", err.Error()))
		} else if errors.Is(err, services.ErrInvalidClient) {
			utils.RespondValidationFailed(c, err.Error())
		} else {
			utils.LogError(err, "UpdateClient: Error from clientService.Update for ID "+idStr)
			utils.RespondInternalError(c, "Failed to update client.")
		}
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient handles deleting one of the caller's clients.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	idStr := c.Param("clientId")
	clientID, err := utils.ParsePositiveID(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid client ID format.", err.Error()))
		return
	}

	deleted, err := h.clientService.Delete(c.Request.Context(), principal, clientID)
	if err != nil {
		if respondCommonError(c, err, "DeleteClient") {
			return
		}
		utils.LogError(err, "DeleteClient: Error from clientService.Delete for ID "+idStr)
		utils.RespondInternalError(c, "Failed to delete client.")
		return
	}
	if !deleted {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found to delete.", ""))
		return
	}
	c.Status(http.StatusNoContent)
}
