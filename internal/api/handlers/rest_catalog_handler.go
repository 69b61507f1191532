package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ihsaan797/InvoiceME/internal/models"
	"github.com/ihsaan797/InvoiceME/internal/services"
)

// RestCatalogHandler exposes reusable priced line items.
type RestCatalogHandler struct {
	catalog services.ICatalogService
}

// NewRestCatalogHandler creates a new RestCatalogHandler.
func NewRestCatalogHandler(catalog services.ICatalogService) *RestCatalogHandler {
	return &RestCatalogHandler{catalog: catalog}
}

// ListItems handles GET /v1/catalog.
func (h *RestCatalogHandler) ListItems(c *gin.Context) {
	items, err := h.catalog.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateItem handles POST /v1/catalog.
func (h *RestCatalogHandler) CreateItem(c *gin.Context) {
	var item models.CatalogItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	created, err := h.catalog.Create(c.Request.Context(), item)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateItem handles PUT /v1/catalog/:id.
func (h *RestCatalogHandler) UpdateItem(c *gin.Context) {
	var item models.CatalogItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	updated, err := h.catalog.Update(c.Request.Context(), c.Param("id"), item)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteItem handles DELETE /v1/catalog/:id.
func (h *RestCatalogHandler) DeleteItem(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
