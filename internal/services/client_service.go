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

// IClientService is the address book backing the document form's client
// picker.
type IClientService interface {
	Create(ctx context.Context, client models.Client) (*models.Client, error)
	CreateMany(ctx context.Context, clients []models.Client) ([]models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	Update(ctx context.Context, id string, client models.Client) (*models.Client, error)
	Delete(ctx context.Context, id string) error
}

const clientsCollection = "clients"

type clientService struct {
	db *mongo.Database
}

// NewClientService creates a new ClientService.
func NewClientService(database *mongo.Database) IClientService {
	return &clientService{db: database}
}

func (s *clientService) Create(ctx context.Context, client models.Client) (*models.Client, error) {
	if client.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if _, err := db.InsertOne(ctx, s.db.Collection(clientsCollection), &client); err != nil {
		return nil, err
	}
	return &client, nil
}

// CreateMany inserts a batch of clients in one write, used by the CSV-style
// bulk add. The whole batch is validated before anything is written.
func (s *clientService) CreateMany(ctx context.Context, clients []models.Client) ([]models.Client, error) {
	if len(clients) == 0 {
		return nil, &ValidationError{Field: "clients", Reason: "must not be empty"}
	}
	docs := make([]interface{}, len(clients))
	for i := range clients {
		if clients[i].Name == "" {
			return nil, &ValidationError{Field: "name", Reason: fmt.Sprintf("entry %d must not be empty", i)}
		}
		clients[i].GenIDIfEmpty()
		docs[i] = clients[i]
	}
	if _, err := s.db.Collection(clientsCollection).InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("failed to insert %d clients: %w", len(clients), err)
	}
	return clients, nil
}

func (s *clientService) List(ctx context.Context) ([]models.Client, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := s.db.Collection(clientsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Client
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode clients: %w", err)
	}
	return results, nil
}

func (s *clientService) Update(ctx context.Context, id string, client models.Client) (*models.Client, error) {
	if client.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	update := bson.M{"$set": bson.M{
		"name":    client.Name,
		"email":   client.Email,
		"phone":   client.Phone,
		"address": client.Address,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Client
	err := s.db.Collection(clientsCollection).FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update client %s: %w", id, err)
	}
	return &updated, nil
}

func (s *clientService) Delete(ctx context.Context, id string) error {
	result, err := s.db.Collection(clientsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete client %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
