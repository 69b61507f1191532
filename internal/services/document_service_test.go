package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ihsaan797/InvoiceME/internal/db"
	"github.com/ihsaan797/InvoiceME/internal/models"
	"github.com/ihsaan797/InvoiceME/internal/testutil"
)

func setupTestDBDocuments(t *testing.T, dbName string) *mongo.Database {
	database := testutil.SetupTestDB(t, dbName, documentsCollection, transactionsCollection, businessCollection)
	require.NoError(t, db.EnsureIndexes(context.Background(), database))
	return database
}

func newDocumentServices(database *mongo.Database) (IDocumentService, ITransactionService, IBusinessService) {
	business := NewBusinessService(database)
	transactions := NewTransactionService(database)
	documents := NewDocumentService(database, business, transactions)
	return documents, transactions, business
}

func draftInvoice() models.Document {
	return models.Document{
		Kind:       models.KindInvoice,
		Date:       "2026-08-01",
		DueDate:    "2026-08-08",
		ClientName: "Island Resorts Pvt Ltd",
		Items: []models.LineItem{
			{ID: "a", Description: "Drone session", Quantity: 2, UnitPrice: 50},
			{ID: "b", Description: "Photo album", Quantity: 1, UnitPrice: 25.50},
		},
	}
}

func TestAssignNumber(t *testing.T) {
	profile := defaultProfile()
	pattern := regexp.MustCompile(`^INV-(\d{4})$`)
	for i := 0; i < 100; i++ {
		number := assignNumber(models.KindInvoice, &profile)
		m := pattern.FindStringSubmatch(number)
		require.NotNil(t, m, "unexpected number %q", number)
		suffix, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, suffix, 1000)
		assert.LessOrEqual(t, suffix, 9999)
	}
	assert.True(t, strings.HasPrefix(assignNumber(models.KindQuotation, &profile), "QT-"))
}

func TestSaleTransaction(t *testing.T) {
	doc := draftInvoice()
	doc.Number = "INV-4821"
	profile := defaultProfile()
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	tx := saleTransaction(doc, profile, now)
	assert.Equal(t, models.TransactionSale, tx.Kind)
	assert.Equal(t, "2026-08-29", tx.Date)
	assert.Equal(t, "Product Sales", tx.Category)
	assert.InDelta(t, 135.54, tx.Amount, 1e-9)
	assert.Equal(t, "Payment for Invoice INV-4821", tx.Description)
	assert.Equal(t, "INV-4821", tx.Reference)
}

func TestClampItems(t *testing.T) {
	items := []models.LineItem{{ID: "a", Quantity: -3, UnitPrice: -1.50}, {ID: "b", Quantity: 2, UnitPrice: 5}}
	clampItems(items)
	assert.Zero(t, items[0].Quantity)
	assert.Zero(t, items[0].UnitPrice)
	assert.Equal(t, 2.0, items[1].Quantity)
}

func TestCheckItemIDs(t *testing.T) {
	items := []models.LineItem{{ID: "a"}, {ID: ""}, {ID: "b"}}
	require.NoError(t, checkItemIDs(items))
	assert.NotEmpty(t, items[1].ID)

	var vErr *ValidationError
	err := checkItemIDs([]models.LineItem{{ID: "a"}, {ID: "a"}})
	require.Error(t, err)
	assert.ErrorAs(t, err, &vErr)
}

func TestDocumentService_CreateValidation(t *testing.T) {
	database := setupTestDBDocuments(t, "testdb_document_create_validation")
	documents, _, _ := newDocumentServices(database)
	ctx := context.Background()

	var vErr *ValidationError

	doc := draftInvoice()
	doc.Kind = "RECEIPT"
	_, err := documents.Create(ctx, doc)
	assert.ErrorAs(t, err, &vErr)

	doc = draftInvoice()
	doc.ClientName = ""
	_, err = documents.Create(ctx, doc)
	assert.ErrorAs(t, err, &vErr)

	doc = draftInvoice()
	doc.Date = ""
	_, err = documents.Create(ctx, doc)
	assert.ErrorAs(t, err, &vErr)
}

func TestDocumentService_CRUD(t *testing.T) {
	database := setupTestDBDocuments(t, "testdb_document_service_crud")
	documents, _, _ := newDocumentServices(database)
	ctx := context.Background()

	created, err := documents.Create(ctx, draftInvoice())
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, created.Status)
	assert.Regexp(t, `^INV-\d{4}$`, created.Number)
	assert.NotEmpty(t, created.ID)

	fetched, err := documents.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Number, fetched.Number)

	// Update replaces editable fields but never the number.
	edit := *fetched
	edit.ClientName = "New Client"
	edit.Items = []models.LineItem{{ID: "x", Description: "Single line", Quantity: 1, UnitPrice: 99}}
	updated, err := documents.Update(ctx, created.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "New Client", updated.ClientName)
	assert.Len(t, updated.Items, 1)
	assert.Equal(t, created.Number, updated.Number)

	quotation := draftInvoice()
	quotation.Kind = models.KindQuotation
	_, err = documents.Create(ctx, quotation)
	require.NoError(t, err)

	all, err := documents.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	kind := models.KindQuotation
	quotes, err := documents.List(ctx, &kind)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, models.KindQuotation, quotes[0].Kind)

	require.NoError(t, documents.Delete(ctx, created.ID))
	_, err = documents.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, documents.Delete(ctx, created.ID), ErrNotFound)
}

func TestDocumentService_PaidEmitsOneSale(t *testing.T) {
	database := setupTestDBDocuments(t, "testdb_document_service_paid")
	documents, transactions, _ := newDocumentServices(database)
	ctx := context.Background()

	created, err := documents.Create(ctx, draftInvoice())
	require.NoError(t, err)

	updated, tx, err := documents.SetStatus(ctx, created.ID, models.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, updated.Status)
	require.NotNil(t, tx)
	assert.InDelta(t, 135.54, tx.Amount, 1e-9)
	assert.Equal(t, created.Number, tx.Reference)

	// Marking an already-paid invoice paid again posts nothing.
	_, tx, err = documents.SetStatus(ctx, created.ID, models.StatusPaid)
	require.NoError(t, err)
	assert.Nil(t, tx)

	ledger, err := transactions.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, ledger, 1)

	// Leaving Paid and coming back posts a second sale: the guard is the old
	// status, not payment history.
	_, _, err = documents.SetStatus(ctx, created.ID, models.StatusSent)
	require.NoError(t, err)
	_, tx, err = documents.SetStatus(ctx, created.ID, models.StatusPaid)
	require.NoError(t, err)
	assert.NotNil(t, tx)
}

func TestDocumentService_QuotationPaidPostsNothing(t *testing.T) {
	database := setupTestDBDocuments(t, "testdb_document_service_quote_paid")
	documents, transactions, _ := newDocumentServices(database)
	ctx := context.Background()

	quotation := draftInvoice()
	quotation.Kind = models.KindQuotation
	created, err := documents.Create(ctx, quotation)
	require.NoError(t, err)

	updated, tx, err := documents.SetStatus(ctx, created.ID, models.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, updated.Status)
	assert.Nil(t, tx)

	ledger, err := transactions.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, ledger)
}

func TestDocumentService_SetStatusErrors(t *testing.T) {
	database := setupTestDBDocuments(t, "testdb_document_service_status_errors")
	documents, _, _ := newDocumentServices(database)
	ctx := context.Background()

	_, _, err := documents.SetStatus(ctx, "missing", models.StatusSent)
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := documents.Create(ctx, draftInvoice())
	require.NoError(t, err)

	_, _, err = documents.SetStatus(ctx, created.ID, "Archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// A rejected status never partially applies.
	fetched, err := documents.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, fetched.Status)
}

func TestDocumentService_ExpireOverdueQuotations(t *testing.T) {
	database := setupTestDBDocuments(t, "testdb_document_service_expire")
	documents, _, _ := newDocumentServices(database)
	ctx := context.Background()

	mk := func(kind models.DocumentKind, due string, status models.DocumentStatus) string {
		doc := draftInvoice()
		doc.Kind = kind
		doc.DueDate = due
		created, err := documents.Create(ctx, doc)
		require.NoError(t, err)
		if status != models.StatusDraft {
			_, _, err = documents.SetStatus(ctx, created.ID, status)
			require.NoError(t, err)
		}
		return created.ID
	}

	overdue := mk(models.KindQuotation, "2026-08-01", models.StatusSent)
	current := mk(models.KindQuotation, "2026-09-15", models.StatusSent)
	draft := mk(models.KindQuotation, "2026-08-01", models.StatusDraft)
	invoice := mk(models.KindInvoice, "2026-08-01", models.StatusSent)

	asOf := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	n, err := documents.ExpireOverdueQuotations(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	status := func(id string) models.DocumentStatus {
		doc, err := documents.FindByID(ctx, id)
		require.NoError(t, err)
		return doc.Status
	}
	assert.Equal(t, models.StatusExpired, status(overdue))
	assert.Equal(t, models.StatusSent, status(current))
	assert.Equal(t, models.StatusDraft, status(draft))
	assert.Equal(t, models.StatusSent, status(invoice))
}
