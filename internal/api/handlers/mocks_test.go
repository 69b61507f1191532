package handlers_test

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"

	"github.com/ihsaan797/InvoiceME/internal/models"
	"github.com/ihsaan797/InvoiceME/internal/services"
	"github.com/ihsaan797/InvoiceME/internal/suggest"
)

// --- Service Mocks ---

// MockDocumentService implements services.IDocumentService
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Create(ctx context.Context, doc models.Document) (*models.Document, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentService) FindByID(ctx context.Context, id string) (*models.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, kind *models.DocumentKind) ([]models.Document, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Document), args.Error(1)
}

func (m *MockDocumentService) Update(ctx context.Context, id string, doc models.Document) (*models.Document, error) {
	args := m.Called(ctx, id, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentService) SetStatus(ctx context.Context, id string, status models.DocumentStatus) (*models.Document, *models.Transaction, error) {
	args := m.Called(ctx, id, status)
	var doc *models.Document
	var tx *models.Transaction
	if args.Get(0) != nil {
		doc = args.Get(0).(*models.Document)
	}
	if args.Get(1) != nil {
		tx = args.Get(1).(*models.Transaction)
	}
	return doc, tx, args.Error(2)
}

func (m *MockDocumentService) ExpireOverdueQuotations(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

// MockBusinessService implements services.IBusinessService
type MockBusinessService struct {
	mock.Mock
}

func (m *MockBusinessService) Get(ctx context.Context) (*models.BusinessProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BusinessProfile), args.Error(1)
}

func (m *MockBusinessService) Update(ctx context.Context, profile models.BusinessProfile) (*models.BusinessProfile, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BusinessProfile), args.Error(1)
}

func (m *MockBusinessService) SetLogoKey(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockTransactionService implements services.ITransactionService
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) Create(ctx context.Context, tx models.Transaction) (*models.Transaction, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockTransactionService) List(ctx context.Context, kind *models.TransactionKind) ([]models.Transaction, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockTransactionService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTransactionService) Summary(ctx context.Context) (*services.LedgerSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.LedgerSummary), args.Error(1)
}

// MockUserService implements services.IUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Create(ctx context.Context, email, name, password string, isAdmin bool) (*models.User, error) {
	args := m.Called(ctx, email, name, password, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockS3Storage implements storage.IS3Storage
type MockS3Storage struct {
	mock.Mock
}

func (m *MockS3Storage) UploadLogo(ctx context.Context, data []byte) (string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}

func (m *MockS3Storage) FetchLogo(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockS3Storage) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockEnqueuer implements tasks.Enqueuer
type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*asynq.TaskInfo), args.Error(1)
}

// MockSuggestService implements suggest.ISuggestService
type MockSuggestService struct {
	mock.Mock
}

func (m *MockSuggestService) SuggestLineItems(ctx context.Context, businessDescription string) ([]suggest.ItemSuggestion, error) {
	args := m.Called(ctx, businessDescription)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]suggest.ItemSuggestion), args.Error(1)
}

func (m *MockSuggestService) SuggestTerms(ctx context.Context, businessName string) (string, error) {
	args := m.Called(ctx, businessName)
	return args.String(0), args.Error(1)
}

func (m *MockSuggestService) Close() error {
	args := m.Called()
	return args.Error(0)
}
