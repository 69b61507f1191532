package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ihsaan797/InvoiceME/internal/billing"
	"github.com/ihsaan797/InvoiceME/internal/models"
	"github.com/ihsaan797/InvoiceME/internal/render"
	"github.com/ihsaan797/InvoiceME/internal/services"
	"github.com/ihsaan797/InvoiceME/internal/storage"
	"github.com/ihsaan797/InvoiceME/internal/tasks"
)

// RestDocumentHandler exposes quotations and invoices: CRUD, the status
// machine, the rendered PDF and queued email delivery.
type RestDocumentHandler struct {
	documents  services.IDocumentService
	business   services.IBusinessService
	storage    storage.IS3Storage
	taskClient tasks.Enqueuer
}

// NewRestDocumentHandler creates a new RestDocumentHandler. storage and
// taskClient may be nil when the deployment has no S3 bucket or Redis; the
// dependent routes degrade rather than the whole API.
func NewRestDocumentHandler(
	documents services.IDocumentService,
	business services.IBusinessService,
	s3 storage.IS3Storage,
	taskClient tasks.Enqueuer,
) *RestDocumentHandler {
	return &RestDocumentHandler{documents: documents, business: business, storage: s3, taskClient: taskClient}
}

// CreateDocument handles POST /v1/documents.
func (h *RestDocumentHandler) CreateDocument(c *gin.Context) {
	var doc models.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	created, err := h.documents.Create(c.Request.Context(), doc)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListDocuments handles GET /v1/documents. An optional ?type=INVOICE or
// ?type=QUOTATION narrows the listing.
func (h *RestDocumentHandler) ListDocuments(c *gin.Context) {
	var kind *models.DocumentKind
	if raw := c.Query("type"); raw != "" {
		k := models.DocumentKind(raw)
		if !k.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown document type %q", raw)})
			return
		}
		kind = &k
	}
	docs, err := h.documents.List(c.Request.Context(), kind)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

// GetDocument handles GET /v1/documents/:id. Totals are computed fresh from
// the items and the profile's current tax rate; they are never stored.
func (h *RestDocumentHandler) GetDocument(c *gin.Context) {
	doc, err := h.documents.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	profile, err := h.business.Get(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"document": doc,
		"totals":   billing.ComputeTotals(doc.Items, profile.TaxPercentage),
	})
}

// UpdateDocument handles PUT /v1/documents/:id.
func (h *RestDocumentHandler) UpdateDocument(c *gin.Context) {
	var doc models.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	updated, err := h.documents.Update(c.Request.Context(), c.Param("id"), doc)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteDocument handles DELETE /v1/documents/:id.
func (h *RestDocumentHandler) DeleteDocument(c *gin.Context) {
	if err := h.documents.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetStatus handles POST /v1/documents/:id/status. When marking an invoice
// paid triggers a ledger posting, the new transaction rides along in the
// response.
func (h *RestDocumentHandler) SetStatus(c *gin.Context) {
	var req struct {
		Status models.DocumentStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	doc, tx, err := h.documents.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := gin.H{"document": doc}
	if tx != nil {
		resp["transaction"] = tx
	}

	// Sending a document also queues the email when a recipient is known.
	// Delivery is best-effort; the transition itself has already committed.
	if req.Status == models.StatusSent && h.taskClient != nil && doc.ClientEmail != "" {
		if err := tasks.EnqueueDocumentEmail(c.Request.Context(), h.taskClient, doc.ID, doc.ClientEmail); err != nil {
			log.Printf("Failed to queue email for document %s: %v", doc.ID, err)
		} else {
			resp["emailQueued"] = true
		}
	}

	c.JSON(http.StatusOK, resp)
}

// GetPDF handles GET /v1/documents/:id/pdf. The default response downloads
// the file; ?view=1 serves it inline for in-browser preview.
func (h *RestDocumentHandler) GetPDF(c *gin.Context) {
	ctx := c.Request.Context()

	doc, err := h.documents.FindByID(ctx, c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	profile, err := h.business.Get(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// A missing or unreadable logo degrades to rendering without one.
	var logo *render.Logo
	if profile.LogoKey != "" && h.storage != nil {
		if data, fetchErr := h.storage.FetchLogo(ctx, profile.LogoKey); fetchErr == nil {
			logo, _ = render.DecodeLogo(data)
		}
	}

	pdf, err := render.RenderPDF(render.LayoutPages(*doc, *profile, logo))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render PDF"})
		return
	}

	disposition := "attachment"
	if c.Query("view") == "1" {
		disposition = "inline"
	}
	filename := fmt.Sprintf("%s_%s.pdf", doc.Kind, doc.Number)
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// EmailDocument handles POST /v1/documents/:id/email. The recipient defaults
// to the document's client email; delivery happens on the task queue.
func (h *RestDocumentHandler) EmailDocument(c *gin.Context) {
	if h.taskClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Email delivery is not configured"})
		return
	}

	var req struct {
		To string `json:"to"`
	}
	// Body is optional; an empty body means "use the client's email".
	_ = c.ShouldBindJSON(&req)

	doc, err := h.documents.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	to := req.To
	if to == "" {
		to = doc.ClientEmail
	}
	if to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No recipient: document has no client email and none was provided"})
		return
	}

	if err := tasks.EnqueueDocumentEmail(c.Request.Context(), h.taskClient, doc.ID, to); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue email"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"queued": true, "to": to})
}
