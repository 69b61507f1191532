package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ihsaan797/InvoiceME/internal/billing"
	"github.com/ihsaan797/InvoiceME/internal/db"
	"github.com/ihsaan797/InvoiceME/internal/models"
)

// IDocumentService owns quotations and invoices: creation with number
// assignment, edits, and the status machine. Marking an invoice paid is the
// one transition with a side effect; it posts a single sale to the ledger.
type IDocumentService interface {
	Create(ctx context.Context, doc models.Document) (*models.Document, error)
	FindByID(ctx context.Context, id string) (*models.Document, error)
	List(ctx context.Context, kind *models.DocumentKind) ([]models.Document, error)
	Update(ctx context.Context, id string, doc models.Document) (*models.Document, error)
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status models.DocumentStatus) (*models.Document, *models.Transaction, error)
	ExpireOverdueQuotations(ctx context.Context, asOf time.Time) (int64, error)
}

const documentsCollection = "documents"

type documentService struct {
	db           *mongo.Database
	business     IBusinessService
	transactions ITransactionService
	now          func() time.Time
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(database *mongo.Database, business IBusinessService, transactions ITransactionService) IDocumentService {
	return &documentService{
		db:           database,
		business:     business,
		transactions: transactions,
		now:          time.Now,
	}
}

// Create validates and commits a new document in Draft status. The number is
// assigned here, exactly once; a unique index on the number field turns the
// random suffix's collision risk into a retried re-draw.
func (s *documentService) Create(ctx context.Context, doc models.Document) (*models.Document, error) {
	if !doc.Kind.Valid() {
		return nil, &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown document type %q", doc.Kind)}
	}
	if doc.ClientName == "" {
		return nil, &ValidationError{Field: "clientName", Reason: "must not be empty"}
	}
	if doc.Date == "" {
		return nil, &ValidationError{Field: "date", Reason: "must not be empty"}
	}
	clampItems(doc.Items)
	if err := checkItemIDs(doc.Items); err != nil {
		return nil, err
	}
	if doc.Items == nil {
		doc.Items = []models.LineItem{}
	}
	doc.Status = models.StatusDraft
	doc.GenIDIfEmpty()

	profile, err := s.business.Get(ctx)
	if err != nil {
		return nil, err
	}

	collection := s.db.Collection(documentsCollection)
	operation := func() error {
		doc.Number = assignNumber(doc.Kind, profile)
		_, insertErr := collection.InsertOne(ctx, doc)
		return insertErr
	}
	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to insert document %s after multiple number draws: %w", doc.ID, err)
	}
	return &doc, nil
}

func (s *documentService) FindByID(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	err := s.db.Collection(documentsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding document %s: %w", id, err)
	}
	return &doc, nil
}

// List returns documents newest first, optionally filtered by kind.
func (s *documentService) List(ctx context.Context, kind *models.DocumentKind) ([]models.Document, error) {
	filter := bson.M{}
	if kind != nil {
		filter["kind"] = *kind
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := s.db.Collection(documentsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Document
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	return results, nil
}

// Update replaces the editable fields: client, dates, items, notes. The
// number never changes after creation and status only moves via SetStatus.
func (s *documentService) Update(ctx context.Context, id string, doc models.Document) (*models.Document, error) {
	if doc.ClientName == "" {
		return nil, &ValidationError{Field: "clientName", Reason: "must not be empty"}
	}
	clampItems(doc.Items)
	if err := checkItemIDs(doc.Items); err != nil {
		return nil, err
	}
	if doc.Items == nil {
		doc.Items = []models.LineItem{}
	}

	update := bson.M{"$set": bson.M{
		"date":         doc.Date,
		"due_date":     doc.DueDate,
		"client_name":  doc.ClientName,
		"client_email": doc.ClientEmail,
		"items":        doc.Items,
		"notes":        doc.Notes,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Document
	err := s.db.Collection(documentsCollection).FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update document %s: %w", id, err)
	}
	return &updated, nil
}

func (s *documentService) Delete(ctx context.Context, id string) error {
	result, err := s.db.Collection(documentsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus moves a document to the requested state. Any valid state is
// reachable from any other; the machine never coerces a request to a nearby
// state. When an invoice that is not already paid is marked Paid, exactly one
// sale is posted to the ledger for the total in effect at that instant. The
// guard is the stored old status, so repeating the call is a no-op on the
// ledger, and the conditional update keeps it single-shot under races.
func (s *documentService) SetStatus(ctx context.Context, id string, status models.DocumentStatus) (*models.Document, *models.Transaction, error) {
	if !status.Valid() {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	doc, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	collection := s.db.Collection(documentsCollection)
	emitsSale := doc.Kind == models.KindInvoice && status == models.StatusPaid && doc.Status != models.StatusPaid
	if !emitsSale {
		result, err := collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to set status of document %s: %w", id, err)
		}
		if result.MatchedCount == 0 {
			return nil, nil, ErrNotFound
		}
		doc.Status = status
		return doc, nil, nil
	}

	// The filter re-checks "not already Paid" so a concurrent caller cannot
	// post a second sale for the same transition.
	filter := bson.M{"_id": id, "status": bson.M{"$ne": models.StatusPaid}}
	result, err := collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"status": models.StatusPaid}})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to mark document %s paid: %w", id, err)
	}
	doc.Status = models.StatusPaid
	if result.MatchedCount == 0 {
		// Lost the race: the document is already Paid and the winner posted
		// the sale.
		return doc, nil, nil
	}

	profile, err := s.business.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	tx, err := s.transactions.Create(ctx, saleTransaction(*doc, *profile, s.now()))
	if err != nil {
		return nil, nil, fmt.Errorf("document %s marked paid but ledger posting failed: %w", id, err)
	}
	return doc, tx, nil
}

// ExpireOverdueQuotations flips every Sent quotation whose due date has
// passed to Expired and reports how many changed. Called by the background
// sweep; Expired is not sticky, a later edit and re-send reactivates.
func (s *documentService) ExpireOverdueQuotations(ctx context.Context, asOf time.Time) (int64, error) {
	filter := bson.M{
		"kind":     models.KindQuotation,
		"status":   models.StatusSent,
		"due_date": bson.M{"$lt": asOf.Format("2006-01-02"), "$ne": ""},
	}
	result, err := s.db.Collection(documentsCollection).UpdateMany(ctx, filter, bson.M{"$set": bson.M{"status": models.StatusExpired}})
	if err != nil {
		return 0, fmt.Errorf("failed to expire overdue quotations: %w", err)
	}
	return result.ModifiedCount, nil
}

// assignNumber draws "<prefix>-<NNNN>" with a uniform 4-digit suffix. The
// caller is responsible for collision handling; the unique index makes a
// clash an insert error, answered by drawing again.
func assignNumber(kind models.DocumentKind, profile *models.BusinessProfile) string {
	return fmt.Sprintf("%s-%d", profile.NumberPrefix(kind), 1000+rand.IntN(9000))
}

// saleTransaction builds the ledger posting for a paid invoice. The amount
// is the total computed from the document's items and the tax rate in effect
// at transition time.
func saleTransaction(doc models.Document, profile models.BusinessProfile, now time.Time) models.Transaction {
	totals := billing.ComputeTotals(doc.Items, profile.TaxPercentage)
	return models.Transaction{
		Kind:        models.TransactionSale,
		Date:        now.Format("2006-01-02"),
		Category:    "Product Sales",
		Amount:      totals.Total,
		Description: "Payment for Invoice " + doc.Number,
		Reference:   doc.Number,
	}
}

// clampItems floors negative quantities and prices to zero in place.
func clampItems(items []models.LineItem) {
	for i := range items {
		if items[i].Quantity < 0 {
			items[i].Quantity = 0
		}
		if items[i].UnitPrice < 0 {
			items[i].UnitPrice = 0
		}
	}
}

func checkItemIDs(items []models.LineItem) error {
	seen := make(map[string]struct{}, len(items))
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = models.NewBase().ID
		}
		if _, dup := seen[items[i].ID]; dup {
			return &ValidationError{Field: "items", Reason: fmt.Sprintf("duplicate line item id %q", items[i].ID)}
		}
		seen[items[i].ID] = struct{}{}
	}
	return nil
}
