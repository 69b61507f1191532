package models

// TransactionKind is the cash-flow direction of a ledger entry.
type TransactionKind string

const (
	TransactionSale    TransactionKind = "SALE"
	TransactionExpense TransactionKind = "EXPENSE"
)

func (k TransactionKind) Valid() bool {
	return k == TransactionSale || k == TransactionExpense
}

// Transaction is one recorded cash-flow event. Reference optionally carries
// the number of the document that produced it. It is a weak back-reference
// for display, not a foreign key; deleting the document leaves the
// transaction untouched.
type Transaction struct {
	Base        `bson:",inline"`
	Kind        TransactionKind `bson:"kind" json:"type"`
	Date        string          `bson:"date" json:"date"`
	Category    string          `bson:"category" json:"category"`
	Amount      float64         `bson:"amount" json:"amount"`
	Description string          `bson:"description" json:"description"`
	Reference   string          `bson:"reference,omitempty" json:"reference,omitempty"`
}
