package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ihsaan797/InvoiceME/internal/models"
)

// IBusinessService manages the single business profile. The profile is read
// at the moment of use by the totals calculator, the numbering assigner and
// the layout engine; nothing caches it on individual documents.
type IBusinessService interface {
	Get(ctx context.Context) (*models.BusinessProfile, error)
	Update(ctx context.Context, profile models.BusinessProfile) (*models.BusinessProfile, error)
	SetLogoKey(ctx context.Context, key string) error
}

const (
	businessCollection = "business"

	// The profile is a singleton stored under a fixed _id.
	businessProfileID = "business-profile"
)

type businessService struct {
	db *mongo.Database
}

// NewBusinessService creates a new BusinessService.
func NewBusinessService(db *mongo.Database) IBusinessService {
	return &businessService{db: db}
}

// Get returns the business profile, seeding the stored default on first use
// so every other service can rely on a profile existing.
func (s *businessService) Get(ctx context.Context) (*models.BusinessProfile, error) {
	collection := s.db.Collection(businessCollection)

	var profile models.BusinessProfile
	err := collection.FindOne(ctx, bson.M{"_id": businessProfileID}).Decode(&profile)
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to load business profile: %w", err)
	}

	seeded := defaultProfile()
	opts := options.Update().SetUpsert(true)
	if _, err := collection.UpdateOne(ctx, bson.M{"_id": businessProfileID}, bson.M{"$setOnInsert": seeded}, opts); err != nil {
		return nil, fmt.Errorf("failed to seed business profile: %w", err)
	}
	// Re-read in case another instance won the upsert race.
	if err := collection.FindOne(ctx, bson.M{"_id": businessProfileID}).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to load business profile after seed: %w", err)
	}
	return &profile, nil
}

// Update replaces the editable profile fields. The logo is managed through
// SetLogoKey; an update never clears it.
func (s *businessService) Update(ctx context.Context, profile models.BusinessProfile) (*models.BusinessProfile, error) {
	if profile.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if profile.Currency == "" {
		return nil, &ValidationError{Field: "currency", Reason: "must not be empty"}
	}
	if profile.TaxPercentage < 0 || profile.TaxPercentage > 100 {
		return nil, &ValidationError{Field: "taxPercentage", Reason: "must be between 0 and 100"}
	}
	if profile.InvoicePrefix == "" {
		return nil, &ValidationError{Field: "invoicePrefix", Reason: "must not be empty"}
	}
	if profile.QuotationPrefix == "" {
		return nil, &ValidationError{Field: "quotationPrefix", Reason: "must not be empty"}
	}

	update := bson.M{"$set": bson.M{
		"name":             profile.Name,
		"email":            profile.Email,
		"phone":            profile.Phone,
		"address":          profile.Address,
		"tin_number":       profile.TinNumber,
		"currency":         profile.Currency,
		"tax_percentage":   profile.TaxPercentage,
		"invoice_prefix":   profile.InvoicePrefix,
		"quotation_prefix": profile.QuotationPrefix,
		"default_terms":    profile.DefaultTerms,
		"payment_details":  profile.PaymentDetails,
		"powered_by_text":  profile.PoweredByText,
	}}

	collection := s.db.Collection(businessCollection)
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var updated models.BusinessProfile
	if err := collection.FindOneAndUpdate(ctx, bson.M{"_id": businessProfileID}, update, opts).Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to update business profile: %w", err)
	}
	return &updated, nil
}

// SetLogoKey records the storage key of the uploaded logo.
func (s *businessService) SetLogoKey(ctx context.Context, key string) error {
	collection := s.db.Collection(businessCollection)
	update := bson.M{"$set": bson.M{"logo_key": key}}
	if key == "" {
		update = bson.M{"$unset": bson.M{"logo_key": ""}}
	}
	result, err := collection.UpdateOne(ctx, bson.M{"_id": businessProfileID}, update)
	if err != nil {
		return fmt.Errorf("failed to set logo key: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func defaultProfile() models.BusinessProfile {
	return models.BusinessProfile{
		ID:              businessProfileID,
		Name:            "SANDPIX MALDIVES",
		Email:           "info@sandpixmaldives.com",
		Phone:           "+960 797 3617",
		Address:         "Blue House, HDh. Nellaidhoo, Maldives",
		TinNumber:       "1106645GST501",
		Currency:        "MVR",
		TaxPercentage:   8,
		InvoicePrefix:   "INV",
		QuotationPrefix: "QT",
		DefaultTerms:    "1. Please pay within 7 days.\n2. Goods once sold are not returnable.",
		PaymentDetails:  "Bank: Bank of Maldives (BML)\nAccount Name: SANDPIX MALDIVES\nAccount Number: 7730000000001\nBranch: Main Branch",
		PoweredByText:   "SANDPIX MALDIVES",
	}
}
