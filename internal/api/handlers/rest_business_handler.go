package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ihsaan797/InvoiceME/internal/models"
	"github.com/ihsaan797/InvoiceME/internal/services"
	"github.com/ihsaan797/InvoiceME/internal/storage"
)

// RestBusinessHandler exposes the business profile and its logo.
type RestBusinessHandler struct {
	business services.IBusinessService
	storage  storage.IS3Storage
}

// NewRestBusinessHandler creates a new RestBusinessHandler. storage may be
// nil when no S3 bucket is configured; the logo routes then return 503.
func NewRestBusinessHandler(business services.IBusinessService, s3 storage.IS3Storage) *RestBusinessHandler {
	return &RestBusinessHandler{business: business, storage: s3}
}

// GetProfile handles GET /v1/business.
func (h *RestBusinessHandler) GetProfile(c *gin.Context) {
	profile, err := h.business.Get(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PUT /v1/business.
func (h *RestBusinessHandler) UpdateProfile(c *gin.Context) {
	var profile models.BusinessProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	updated, err := h.business.Update(c.Request.Context(), profile)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// UploadLogo handles POST /v1/business/logo as a multipart form with a
// "logo" file field. The previous logo object is removed best-effort once
// the new key is recorded.
func (h *RestBusinessHandler) UploadLogo(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Logo storage is not configured"})
		return
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A 'logo' file field is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	ctx := c.Request.Context()
	profile, err := h.business.Get(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	oldKey := profile.LogoKey

	// Upload failures here are almost always bad input (oversized or not an
	// image), so the message goes back to the caller.
	key, err := h.storage.UploadLogo(ctx, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.business.SetLogoKey(ctx, key); err != nil {
		respondServiceError(c, err)
		return
	}
	if oldKey != "" && oldKey != key {
		_ = h.storage.DeleteObject(ctx, oldKey)
	}

	c.JSON(http.StatusOK, gin.H{"logoKey": key})
}

// GetLogo handles GET /v1/business/logo, serving the stored PNG.
func (h *RestBusinessHandler) GetLogo(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Logo storage is not configured"})
		return
	}

	ctx := c.Request.Context()
	profile, err := h.business.Get(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if profile.LogoKey == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No logo uploaded"})
		return
	}
	data, err := h.storage.FetchLogo(ctx, profile.LogoKey)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logo"})
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// DeleteLogo handles DELETE /v1/business/logo.
func (h *RestBusinessHandler) DeleteLogo(c *gin.Context) {
	ctx := c.Request.Context()
	profile, err := h.business.Get(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := h.business.SetLogoKey(ctx, ""); err != nil {
		respondServiceError(c, err)
		return
	}
	if profile.LogoKey != "" && h.storage != nil {
		_ = h.storage.DeleteObject(ctx, profile.LogoKey)
	}
	c.Status(http.StatusNoContent)
}
