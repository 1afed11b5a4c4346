package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/attartravel/concierge/domain/entities"
	"github.com/attartravel/concierge/domain/repositories"
)

type CustomerRepository struct {
	collection *mongo.Collection
}

// NewCustomerRepository creates a new MongoDB customer repository
func NewCustomerRepository(db *mongo.Database) repositories.CustomerRepository {
	return &CustomerRepository{
		collection: db.Collection("customers"),
	}
}

// Create implements repositories.CustomerRepository
func (r *CustomerRepository) Create(ctx context.Context, customer *entities.Customer) error {
	if customer == nil {
		return errors.New("customer cannot be nil")
	}
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}

	if _, err := r.collection.InsertOne(ctx, customer); err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// GetByEmail implements repositories.CustomerRepository
func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*entities.Customer, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}

	var customer entities.Customer
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&customer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer %s: %w", email, err)
	}
	return &customer, nil
}

// Update implements repositories.CustomerRepository
func (r *CustomerRepository) Update(ctx context.Context, customer *entities.Customer) error {
	if customer == nil {
		return errors.New("customer cannot be nil")
	}
	if customer.ID == "" {
		return errors.New("customer ID cannot be empty")
	}

	update := bson.M{
		"$set": bson.M{
			"email":         customer.Email,
			"name":          customer.Name,
			"password_salt": customer.PasswordSalt,
			"password_hash": customer.PasswordHash,
			"last_login":    customer.LastLoginAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": customer.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
