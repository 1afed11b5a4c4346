package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/attartravel/concierge/domain/entities"
	"github.com/attartravel/concierge/domain/repositories"
)

type ConversationRepository struct {
	collection *mongo.Collection
}

// NewConversationRepository creates a new MongoDB conversation repository
func NewConversationRepository(db *mongo.Database) repositories.ConversationRepository {
	return &ConversationRepository{
		collection: db.Collection("conversations"),
	}
}

// Append implements repositories.ConversationRepository
func (r *ConversationRepository) Append(ctx context.Context, message *entities.Message) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	if _, err := r.collection.InsertOne(ctx, message); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// ListByCustomer implements repositories.ConversationRepository
func (r *ConversationRepository) ListByCustomer(ctx context.Context, customerEmail string) ([]*entities.Message, error) {
	if customerEmail == "" {
		return nil, errors.New("customer email cannot be empty")
	}

	filter := bson.M{"customer_email": customerEmail}
	opts := options.Find().SetSort(bson.M{"created_at": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages for %s: %w", customerEmail, err)
	}
	defer cursor.Close(ctx)

	var messages []*entities.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, nil
}
