package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ihsaan797/InvoiceME/internal/suggest"
)

// RestSuggestHandler exposes the optional AI content suggestions.
type RestSuggestHandler struct {
	suggest suggest.ISuggestService
}

// NewRestSuggestHandler creates a new RestSuggestHandler. The service may be
// nil when no GCP project is configured.
func NewRestSuggestHandler(s suggest.ISuggestService) *RestSuggestHandler {
	return &RestSuggestHandler{suggest: s}
}

func (h *RestSuggestHandler) unavailable(c *gin.Context) bool {
	if h.suggest == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Suggestions are not configured"})
		return true
	}
	return false
}

// SuggestItems handles POST /v1/suggest/items.
func (h *RestSuggestHandler) SuggestItems(c *gin.Context) {
	if h.unavailable(c) {
		return
	}
	var req struct {
		Business string `json:"business" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A 'business' description is required"})
		return
	}
	items, err := h.suggest.SuggestLineItems(c.Request.Context(), req.Business)
	if err != nil {
		if errors.Is(err, suggest.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Suggestions are not configured"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Suggestion request failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// SuggestTerms handles POST /v1/suggest/terms.
func (h *RestSuggestHandler) SuggestTerms(c *gin.Context) {
	if h.unavailable(c) {
		return
	}
	var req struct {
		BusinessName string `json:"businessName" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A 'businessName' is required"})
		return
	}
	terms, err := h.suggest.SuggestTerms(c.Request.Context(), req.BusinessName)
	if err != nil {
		if errors.Is(err, suggest.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Suggestions are not configured"})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Suggestion request failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"terms": terms})
}
