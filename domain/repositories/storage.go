package repositories

import (
	"context"
	"errors"

	"github.com/attartravel/concierge/domain/entities"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ConversationRepository is the durable record of individual messages. The
// transcript slice only ever appends and reads back in order; everything
// else about persistence is an adapter concern.
type ConversationRepository interface {
	// Append stores one message. The message is immutable afterwards.
	Append(ctx context.Context, message *entities.Message) error
	// ListByCustomer returns all messages for a customer, oldest first.
	ListByCustomer(ctx context.Context, customerEmail string) ([]*entities.Message, error)
}

// SessionRepository tracks voice sessions keyed by room name.
type SessionRepository interface {
	Create(ctx context.Context, session *entities.Session) error
	// GetByRoomName returns the most recent session for a room, or
	// ErrNotFound if the room was never granted.
	GetByRoomName(ctx context.Context, roomName string) (*entities.Session, error)
	Update(ctx context.Context, session *entities.Session) error
}

// CustomerRepository defines data access methods for customer accounts.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entities.Customer) error
	GetByEmail(ctx context.Context, email string) (*entities.Customer, error)
	Update(ctx context.Context, customer *entities.Customer) error
}

// BookingRepository defines data access methods for travel bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *entities.Booking) error
	GetByID(ctx context.Context, id string) (*entities.Booking, error)
	// ListByCustomer returns a customer's bookings, most recent first.
	ListByCustomer(ctx context.Context, customerEmail string) ([]*entities.Booking, error)
	Update(ctx context.Context, booking *entities.Booking) error
}
