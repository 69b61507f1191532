package models

// DocumentKind distinguishes the two sellable document types. Both share the
// same shape and status set; only invoices feed the ledger when paid.
type DocumentKind string

const (
	KindQuotation DocumentKind = "QUOTATION"
	KindInvoice   DocumentKind = "INVOICE"
)

func (k DocumentKind) Valid() bool {
	return k == KindQuotation || k == KindInvoice
}

// DocumentStatus is the closed set of lifecycle states. Status is only ever
// assigned through the document service's SetStatus so that invalid strings
// are unrepresentable in the store.
type DocumentStatus string

const (
	StatusDraft   DocumentStatus = "Draft"
	StatusSent    DocumentStatus = "Sent"
	StatusPaid    DocumentStatus = "Paid"
	StatusExpired DocumentStatus = "Expired"
)

func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusExpired:
		return true
	}
	return false
}

// LineItem is one priced row of a document. Quantity and UnitPrice are kept
// as entered; the totals calculator clamps malformed values at read time.
type LineItem struct {
	ID          string  `bson:"id" json:"id"`
	Description string  `bson:"description" json:"description"`
	Quantity    float64 `bson:"quantity" json:"quantity"`
	UnitPrice   float64 `bson:"unit_price" json:"unitPrice"`
}

// Document is a quotation or invoice. Dates are stored as ISO "YYYY-MM-DD"
// strings and re-ordered to day-first only at render time. Item order is
// significant: rows print in sequence. Subtotal/tax/total are deliberately
// not stored; they are recomputed from the items and the business profile's
// current tax rate on every read.
type Document struct {
	Base        `bson:",inline"`
	Kind        DocumentKind   `bson:"kind" json:"type"`
	Number      string         `bson:"number" json:"number"`
	Date        string         `bson:"date" json:"date"`
	DueDate     string         `bson:"due_date" json:"dueDate"`
	ClientName  string         `bson:"client_name" json:"clientName"`
	ClientEmail string         `bson:"client_email,omitempty" json:"clientEmail,omitempty"`
	Items       []LineItem     `bson:"items" json:"items"`
	Status      DocumentStatus `bson:"status" json:"status"`
	Notes       string         `bson:"notes,omitempty" json:"notes,omitempty"`
}
