package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/attartravel/concierge/adapters/memory"
	"github.com/attartravel/concierge/domain/entities"
	"github.com/attartravel/concierge/domain/repositories"
)

func TestPriceService(t *testing.T) {
	tests := []struct {
		serviceType string
		tier        string
		want        float64
	}{
		{"Flight", "Economy", 400 * 83},
		{"Flight", "Business", 1200 * 83},
		{"Hotel", "Suite", 300 * 83},
		{"Package", "", 1500 * 83},        // default tier Standard
		{"Flight", "Premium", 400 * 83},   // unknown tier falls back to Economy
		{"Transportation", "Train", 25 * 83},
	}

	for _, tt := range tests {
		got, err := PriceService(tt.serviceType, tt.tier)
		if err != nil {
			t.Errorf("PriceService(%s, %s) error: %v", tt.serviceType, tt.tier, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PriceService(%s, %s) = %f, want %f", tt.serviceType, tt.tier, got, tt.want)
		}
	}

	if _, err := PriceService("Cruise", ""); err == nil {
		t.Error("Expected error for unknown service type")
	}
}

func TestBookingServiceCreate(t *testing.T) {
	ctx := context.Background()
	service := NewBookingService(memory.NewBookingRepository(), nil, zaptest.NewLogger(t))

	booking, err := service.Create(ctx, BookingRequest{
		CustomerEmail:  "alice@example.com",
		ServiceType:    "Hotel",
		Destination:    "Riyadh",
		DepartureDate:  "2026-11-01",
		NumTravelers:   3,
		ServiceDetails: "Deluxe",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if booking.ID == "" {
		t.Error("Expected booking ID assigned")
	}
	if booking.Status != entities.BookingStatusConfirmed {
		t.Errorf("Expected confirmed, got %s", booking.Status)
	}
	if want := 150.0 * 83 * 3; booking.TotalAmount != want {
		t.Errorf("Expected total %f, got %f", want, booking.TotalAmount)
	}
}

func TestBookingServiceCreateDefaultsTravelers(t *testing.T) {
	ctx := context.Background()
	service := NewBookingService(memory.NewBookingRepository(), nil, zaptest.NewLogger(t))

	booking, err := service.Create(ctx, BookingRequest{
		CustomerEmail: "alice@example.com",
		ServiceType:   "Flight",
		Destination:   "Jeddah",
		DepartureDate: "2026-11-01",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if booking.NumTravelers != 1 {
		t.Errorf("Expected 1 traveler default, got %d", booking.NumTravelers)
	}
	if want := 400.0 * 83; booking.TotalAmount != want {
		t.Errorf("Expected economy single price %f, got %f", want, booking.TotalAmount)
	}
}

func TestBookingServiceCancelAndReschedule(t *testing.T) {
	ctx := context.Background()
	service := NewBookingService(memory.NewBookingRepository(), nil, zaptest.NewLogger(t))

	booking, err := service.Create(ctx, BookingRequest{
		CustomerEmail: "alice@example.com",
		ServiceType:   "Package",
		Destination:   "AlUla",
		DepartureDate: "2026-11-01",
		NumTravelers:  2,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rescheduled, err := service.Reschedule(ctx, booking.ID, "alice@example.com", "2026-12-01", "2026-12-08")
	if err != nil {
		t.Fatalf("Reschedule failed: %v", err)
	}
	if rescheduled.DepartureDate != "2026-12-01" {
		t.Errorf("Expected new departure date, got %s", rescheduled.DepartureDate)
	}

	// Wrong owner is indistinguishable from a missing booking.
	if _, err := service.Cancel(ctx, booking.ID, "mallory@example.com"); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for foreign cancel, got %v", err)
	}

	cancelled, err := service.Cancel(ctx, booking.ID, "alice@example.com")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if cancelled.Status != entities.BookingStatusCancelled {
		t.Errorf("Expected cancelled, got %s", cancelled.Status)
	}

	// Cancel is idempotent; reschedule of a cancelled booking is refused.
	if _, err := service.Cancel(ctx, booking.ID, "alice@example.com"); err != nil {
		t.Errorf("Second cancel should be a no-op, got %v", err)
	}
	if _, err := service.Reschedule(ctx, booking.ID, "alice@example.com", "2027-01-01", ""); err == nil {
		t.Error("Expected error rescheduling a cancelled booking")
	}
}
