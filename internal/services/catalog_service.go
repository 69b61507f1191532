package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ihsaan797/InvoiceME/internal/db"
	"github.com/ihsaan797/InvoiceME/internal/models"
)

// ICatalogService stores reusable priced line items for quick insertion into
// documents.
type ICatalogService interface {
	Create(ctx context.Context, item models.CatalogItem) (*models.CatalogItem, error)
	List(ctx context.Context) ([]models.CatalogItem, error)
	Update(ctx context.Context, id string, item models.CatalogItem) (*models.CatalogItem, error)
	Delete(ctx context.Context, id string) error
}

const catalogCollection = "catalog_items"

type catalogService struct {
	db *mongo.Database
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(database *mongo.Database) ICatalogService {
	return &catalogService{db: database}
}

func (s *catalogService) Create(ctx context.Context, item models.CatalogItem) (*models.CatalogItem, error) {
	if item.Description == "" {
		return nil, &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if item.UnitPrice < 0 {
		return nil, &ValidationError{Field: "unitPrice", Reason: "must not be negative"}
	}
	if _, err := db.InsertOne(ctx, s.db.Collection(catalogCollection), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *catalogService) List(ctx context.Context) ([]models.CatalogItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "description", Value: 1}})
	cursor, err := s.db.Collection(catalogCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.CatalogItem
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode catalog items: %w", err)
	}
	return results, nil
}

func (s *catalogService) Update(ctx context.Context, id string, item models.CatalogItem) (*models.CatalogItem, error) {
	if item.Description == "" {
		return nil, &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if item.UnitPrice < 0 {
		return nil, &ValidationError{Field: "unitPrice", Reason: "must not be negative"}
	}
	update := bson.M{"$set": bson.M{
		"description": item.Description,
		"unit_price":  item.UnitPrice,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.CatalogItem
	err := s.db.Collection(catalogCollection).FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update catalog item %s: %w", id, err)
	}
	return &updated, nil
}

func (s *catalogService) Delete(ctx context.Context, id string) error {
	result, err := s.db.Collection(catalogCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete catalog item %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
