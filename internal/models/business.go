package models

// BusinessProfile is the issuing business's identity, tax rate, numbering
// prefixes and branding. A single profile exists per deployment, stored
// under a fixed _id, and is passed explicitly to the calculator, lifecycle
// and layout code rather than read as ambient state.
type BusinessProfile struct {
	ID              string  `bson:"_id" json:"id"`
	Name            string  `bson:"name" json:"name"`
	Email           string  `bson:"email" json:"email"`
	Phone           string  `bson:"phone" json:"phone"`
	Address         string  `bson:"address" json:"address"`
	TinNumber       string  `bson:"tin_number" json:"tinNumber"`
	Currency        string  `bson:"currency" json:"currency"`
	TaxPercentage   float64 `bson:"tax_percentage" json:"taxPercentage"`
	InvoicePrefix   string  `bson:"invoice_prefix" json:"invoicePrefix"`
	QuotationPrefix string  `bson:"quotation_prefix" json:"quotationPrefix"`
	LogoKey         string  `bson:"logo_key,omitempty" json:"logoKey,omitempty"`
	DefaultTerms    string  `bson:"default_terms,omitempty" json:"defaultTerms,omitempty"`
	PaymentDetails  string  `bson:"payment_details,omitempty" json:"paymentDetails,omitempty"`
	PoweredByText   string  `bson:"powered_by_text,omitempty" json:"poweredByText,omitempty"`
}

// NumberPrefix returns the document numbering prefix for the given kind.
func (b *BusinessProfile) NumberPrefix(kind DocumentKind) string {
	if kind == KindQuotation {
		return b.QuotationPrefix
	}
	return b.InvoicePrefix
}
