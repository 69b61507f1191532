package models

// CatalogItem is a reusable sellable line, copied into documents by the form
// layer. Quantity is chosen per document; only the description and unit price
// live in the catalog.
type CatalogItem struct {
	Base        `bson:",inline"`
	Description string  `bson:"description" json:"description"`
	UnitPrice   float64 `bson:"unit_price" json:"unitPrice"`
}
