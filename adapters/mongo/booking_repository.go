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

type BookingRepository struct {
	collection *mongo.Collection
}

// NewBookingRepository creates a new MongoDB booking repository
func NewBookingRepository(db *mongo.Database) repositories.BookingRepository {
	return &BookingRepository{
		collection: db.Collection("bookings"),
	}
}

// Create implements repositories.BookingRepository
func (r *BookingRepository) Create(ctx context.Context, booking *entities.Booking) error {
	if booking == nil {
		return errors.New("booking cannot be nil")
	}
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByID implements repositories.BookingRepository
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	if id == "" {
		return nil, errors.New("booking ID cannot be empty")
	}

	var booking entities.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking %s: %w", id, err)
	}
	return &booking, nil
}

// ListByCustomer implements repositories.BookingRepository
func (r *BookingRepository) ListByCustomer(ctx context.Context, customerEmail string) ([]*entities.Booking, error) {
	if customerEmail == "" {
		return nil, errors.New("customer email cannot be empty")
	}

	filter := bson.M{"customer_email": customerEmail}
	opts := options.Find().SetSort(bson.M{"created_at": -1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for %s: %w", customerEmail, err)
	}
	defer cursor.Close(ctx)

	var bookings []*entities.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// Update implements repositories.BookingRepository
func (r *BookingRepository) Update(ctx context.Context, booking *entities.Booking) error {
	if booking == nil {
		return errors.New("booking cannot be nil")
	}
	if booking.ID == "" {
		return errors.New("booking ID cannot be empty")
	}

	update := bson.M{
		"$set": bson.M{
			"departure_date":   booking.DepartureDate,
			"return_date":      booking.ReturnDate,
			"num_travelers":    booking.NumTravelers,
			"service_details":  booking.ServiceDetails,
			"special_requests": booking.SpecialRequests,
			"total_amount":     booking.TotalAmount,
			"status":           booking.Status,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": booking.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
