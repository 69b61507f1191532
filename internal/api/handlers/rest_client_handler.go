package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ihsaan797/InvoiceME/internal/models"
	"github.com/ihsaan797/InvoiceME/internal/services"
)

// RestClientHandler exposes the client address book.
type RestClientHandler struct {
	clients services.IClientService
}

// NewRestClientHandler creates a new RestClientHandler.
func NewRestClientHandler(clients services.IClientService) *RestClientHandler {
	return &RestClientHandler{clients: clients}
}

// ListClients handles GET /v1/clients.
func (h *RestClientHandler) ListClients(c *gin.Context) {
	clients, err := h.clients.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// CreateClient handles POST /v1/clients.
func (h *RestClientHandler) CreateClient(c *gin.Context) {
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	created, err := h.clients.Create(c.Request.Context(), client)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// CreateClients handles POST /v1/clients/bulk, inserting a batch in one
// write. The whole batch is rejected if any entry is invalid.
func (h *RestClientHandler) CreateClients(c *gin.Context) {
	var batch []models.Client
	if err := c.ShouldBindJSON(&batch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	created, err := h.clients.CreateMany(c.Request.Context(), batch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateClient handles PUT /v1/clients/:id.
func (h *RestClientHandler) UpdateClient(c *gin.Context) {
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	updated, err := h.clients.Update(c.Request.Context(), c.Param("id"), client)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteClient handles DELETE /v1/clients/:id.
func (h *RestClientHandler) DeleteClient(c *gin.Context) {
	if err := h.clients.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
