package billing

import (
	"math"

	"github.com/ihsaan797/InvoiceME/internal/models"
)

// Totals is the computed financial summary of a document. It is derived on
// every read from the item sequence and the business profile's tax rate in
// effect at that moment, and is never persisted alongside the document.
type Totals struct {
	Subtotal  float64 `json:"subtotal"`
	TaxAmount float64 `json:"taxAmount"`
	Total     float64 `json:"total"`
}

// ComputeTotals sums the line items in order and applies the tax percentage.
// It never fails: NaN/Inf and negative quantities or prices are coerced to 0
// so a half-filled form can be totalled live without blowing up.
func ComputeTotals(items []models.LineItem, taxPercentage float64) Totals {
	subtotal := 0.0
	for _, item := range items {
		subtotal += sanitize(item.Quantity) * sanitize(item.UnitPrice)
	}
	taxAmount := subtotal * sanitize(taxPercentage) / 100
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal + taxAmount,
	}
}

// LineTotal returns quantity × unit price for a single row, with the same
// coercion rules as ComputeTotals.
func LineTotal(item models.LineItem) float64 {
	return sanitize(item.Quantity) * sanitize(item.UnitPrice)
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
