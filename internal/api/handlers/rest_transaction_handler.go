package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ihsaan797/InvoiceME/internal/models"
	"github.com/ihsaan797/InvoiceME/internal/services"
)

// RestTransactionHandler exposes the ledger and the dashboard summary.
type RestTransactionHandler struct {
	transactions services.ITransactionService
}

// NewRestTransactionHandler creates a new RestTransactionHandler.
func NewRestTransactionHandler(transactions services.ITransactionService) *RestTransactionHandler {
	return &RestTransactionHandler{transactions: transactions}
}

// ListTransactions handles GET /v1/transactions. An optional ?type=SALE or
// ?type=EXPENSE narrows the listing.
func (h *RestTransactionHandler) ListTransactions(c *gin.Context) {
	var kind *models.TransactionKind
	if raw := c.Query("type"); raw != "" {
		k := models.TransactionKind(raw)
		if !k.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown transaction type %q", raw)})
			return
		}
		kind = &k
	}
	txs, err := h.transactions.List(c.Request.Context(), kind)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// CreateTransaction handles POST /v1/transactions for manual ledger entries.
func (h *RestTransactionHandler) CreateTransaction(c *gin.Context) {
	var tx models.Transaction
	if err := c.ShouldBindJSON(&tx); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	created, err := h.transactions.Create(c.Request.Context(), tx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// DeleteTransaction handles DELETE /v1/transactions/:id.
func (h *RestTransactionHandler) DeleteTransaction(c *gin.Context) {
	if err := h.transactions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSummary handles GET /v1/dashboard/summary.
func (h *RestTransactionHandler) GetSummary(c *gin.Context) {
	summary, err := h.transactions.Summary(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
