package entities

import (
	"errors"
	"time"
)

// Customer represents a registered traveller account.
type Customer struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Email        string    `json:"email" bson:"email"`
	Name         string    `json:"name" bson:"name"`
	PasswordSalt string    `json:"-" bson:"password_salt"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	LastLoginAt  time.Time `json:"last_login" bson:"last_login"`
}

func (c *Customer) Validate() error {
	if c.Email == "" {
		return errors.New("email is required")
	}
	return nil
}

// BookingStatus represents the lifecycle state of a travel booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a travel booking (flight, hotel, package, transport) made by a
// customer through the assistant.
type Booking struct {
	ID              string        `json:"booking_id" bson:"_id,omitempty"`
	CustomerEmail   string        `json:"customer_email" bson:"customer_email"`
	ServiceType     string        `json:"service_type" bson:"service_type"`
	Destination     string        `json:"destination" bson:"destination"`
	DepartureDate   string        `json:"departure_date" bson:"departure_date"`
	ReturnDate      string        `json:"return_date,omitempty" bson:"return_date,omitempty"`
	NumTravelers    int           `json:"num_travelers" bson:"num_travelers"`
	ServiceDetails  string        `json:"service_details,omitempty" bson:"service_details,omitempty"`
	SpecialRequests string        `json:"special_requests,omitempty" bson:"special_requests,omitempty"`
	TotalAmount     float64       `json:"total_amount" bson:"total_amount"`
	Status          BookingStatus `json:"status" bson:"status"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
}

func (b *Booking) Validate() error {
	if b.CustomerEmail == "" {
		return errors.New("customer_email is required")
	}
	if b.ServiceType == "" {
		return errors.New("service_type is required")
	}
	if b.DepartureDate == "" {
		return errors.New("departure_date is required")
	}
	if b.NumTravelers < 1 {
		return errors.New("num_travelers must be at least 1")
	}
	return nil
}
