package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ihsaan797/InvoiceME/internal/db"
	"github.com/ihsaan797/InvoiceME/internal/models"
)

// ITransactionService owns the ledger. Entries are created either directly
// (manual sale/expense records) or by the document service when an invoice is
// marked paid.
type ITransactionService interface {
	Create(ctx context.Context, tx models.Transaction) (*models.Transaction, error)
	List(ctx context.Context, kind *models.TransactionKind) ([]models.Transaction, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (*LedgerSummary, error)
}

// LedgerSummary is the dashboard roll-up of the whole ledger.
type LedgerSummary struct {
	TotalSales    float64 `json:"totalSales"`
	TotalExpenses float64 `json:"totalExpenses"`
	Profit        float64 `json:"profit"`
}

const transactionsCollection = "transactions"

type transactionService struct {
	db *mongo.Database
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(database *mongo.Database) ITransactionService {
	return &transactionService{db: database}
}

func (s *transactionService) Create(ctx context.Context, tx models.Transaction) (*models.Transaction, error) {
	if !tx.Kind.Valid() {
		return nil, &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown transaction type %q", tx.Kind)}
	}
	if tx.Date == "" {
		return nil, &ValidationError{Field: "date", Reason: "must not be empty"}
	}
	if tx.Amount < 0 {
		return nil, &ValidationError{Field: "amount", Reason: "must not be negative"}
	}

	collection := s.db.Collection(transactionsCollection)
	if _, err := db.InsertOne(ctx, collection, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// List returns the ledger newest first, optionally filtered by kind.
func (s *transactionService) List(ctx context.Context, kind *models.TransactionKind) ([]models.Transaction, error) {
	filter := bson.M{}
	if kind != nil {
		filter["kind"] = *kind
	}
	collection := s.db.Collection(transactionsCollection)
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Transaction
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}
	return results, nil
}

func (s *transactionService) Delete(ctx context.Context, id string) error {
	collection := s.db.Collection(transactionsCollection)
	result, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Summary aggregates the ledger by kind on the server side.
func (s *transactionService) Summary(ctx context.Context) (*LedgerSummary, error) {
	collection := s.db.Collection(transactionsCollection)
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$kind",
			"total": bson.M{"$sum": "$amount"},
		}}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Kind  models.TransactionKind `bson:"_id"`
		Total float64                `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode transaction summary: %w", err)
	}

	summary := &LedgerSummary{}
	for _, row := range rows {
		switch row.Kind {
		case models.TransactionSale:
			summary.TotalSales = row.Total
		case models.TransactionExpense:
			summary.TotalExpenses = row.Total
		}
	}
	summary.Profit = summary.TotalSales - summary.TotalExpenses
	return summary, nil
}
