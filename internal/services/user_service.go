package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ihsaan797/InvoiceME/internal/auth"
	"github.com/ihsaan797/InvoiceME/internal/db"
	"github.com/ihsaan797/InvoiceME/internal/models"
)

// IUserService manages operator accounts.
type IUserService interface {
	Create(ctx context.Context, email, name, password string, isAdmin bool) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
}

// ErrInvalidCredentials covers both unknown email and wrong password so the
// login response cannot be used to probe for accounts.
var ErrInvalidCredentials = errors.New("invalid email or password")

const usersCollection = "users"

type userService struct {
	db *mongo.Database
}

// NewUserService creates a new UserService.
func NewUserService(database *mongo.Database) IUserService {
	return &userService{db: database}
}

func (s *userService) Create(ctx context.Context, email, name, password string, isAdmin bool) (*models.User, error) {
	if email == "" {
		return nil, &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if len(password) < 8 {
		return nil, &ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := db.InsertOne(ctx, s.db.Collection(usersCollection), &user); err != nil {
		if db.IsMongoDuplicateKeyError(err) {
			return nil, &ValidationError{Field: "email", Reason: "already registered"}
		}
		return nil, err
	}
	return &user, nil
}

func (s *userService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}
	return &user, nil
}

// List returns all operator accounts sorted by email.
func (s *userService) List(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "email", Value: 1}})
	cursor, err := s.db.Collection(usersCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.User
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return results, nil
}

// Authenticate verifies the password against the stored hash and returns the
// account on success.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
