package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/attartravel/concierge/domain/entities"
	"github.com/attartravel/concierge/domain/repositories"
)

// usdToINRRate converts catalog prices to the billing currency.
const usdToINRRate = 83.0

// servicePrices is the service catalog in USD, keyed by service type then
// tier. Tiers match what the assistant offers in conversation.
var servicePrices = map[string]map[string]float64{
	"Flight": {
		"Economy":  400,
		"Business": 1200,
		"First":    2500,
	},
	"Hotel": {
		"Standard": 80,
		"Deluxe":   150,
		"Suite":    300,
	},
	"Package": {
		"Budget":   800,
		"Standard": 1500,
		"Luxury":   3000,
	},
	"Domestic_Flights": {
		"Economy":  80,
		"Business": 200,
	},
	"Transportation": {
		"Train":      25,
		"Bus":        15,
		"Taxi":       50,
		"Car_Rental": 60,
	},
}

// defaultTier is the tier used when the request names none.
var defaultTier = map[string]string{
	"Flight":           "Economy",
	"Hotel":            "Standard",
	"Package":          "Standard",
	"Domestic_Flights": "Economy",
	"Transportation":   "Taxi",
}

// ConfirmationMailer sends a booking confirmation to the customer. Sending
// is best-effort and never blocks the booking itself.
type ConfirmationMailer interface {
	SendBookingConfirmation(ctx context.Context, customerEmail string, booking *entities.Booking) error
}

// BookingRequest carries everything needed to price and record a booking.
type BookingRequest struct {
	CustomerEmail   string
	ServiceType     string
	Destination     string
	DepartureDate   string
	ReturnDate      string
	NumTravelers    int
	ServiceDetails  string
	SpecialRequests string
}

// BookingService prices and records travel bookings.
type BookingService struct {
	bookings repositories.BookingRepository
	mailer   ConfirmationMailer
	logger   *zap.Logger
}

// NewBookingService creates a new booking service. mailer may be nil when
// confirmation email is not configured.
func NewBookingService(bookings repositories.BookingRepository, mailer ConfirmationMailer, logger *zap.Logger) *BookingService {
	return &BookingService{bookings: bookings, mailer: mailer, logger: logger}
}

// PriceService returns the INR price of one traveler for a service tier.
// Unknown tiers fall back to the service's default tier.
func PriceService(serviceType, tier string) (float64, error) {
	tiers, ok := servicePrices[serviceType]
	if !ok {
		return 0, fmt.Errorf("unknown service type %q", serviceType)
	}
	usd, ok := tiers[tier]
	if !ok {
		usd = tiers[defaultTier[serviceType]]
	}
	return usd * usdToINRRate, nil
}

// Create prices and stores a confirmed booking, then fires the confirmation
// email in the background.
func (s *BookingService) Create(ctx context.Context, req BookingRequest) (*entities.Booking, error) {
	if req.NumTravelers < 1 {
		req.NumTravelers = 1
	}

	tier := strings.TrimSpace(req.ServiceDetails)
	unitPrice, err := PriceService(req.ServiceType, tier)
	if err != nil {
		return nil, err
	}

	booking := &entities.Booking{
		ID:              uuid.New().String(),
		CustomerEmail:   req.CustomerEmail,
		ServiceType:     req.ServiceType,
		Destination:     req.Destination,
		DepartureDate:   req.DepartureDate,
		ReturnDate:      req.ReturnDate,
		NumTravelers:    req.NumTravelers,
		ServiceDetails:  req.ServiceDetails,
		SpecialRequests: req.SpecialRequests,
		TotalAmount:     unitPrice * float64(req.NumTravelers),
		Status:          entities.BookingStatusConfirmed,
		CreatedAt:       time.Now().UTC(),
	}
	if err := booking.Validate(); err != nil {
		return nil, err
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to store booking: %w", err)
	}

	s.logger.Info("Booking created",
		zap.String("bookingID", booking.ID),
		zap.String("customerEmail", booking.CustomerEmail),
		zap.String("serviceType", booking.ServiceType),
		zap.Float64("totalAmount", booking.TotalAmount))

	if s.mailer != nil {
		go func(b entities.Booking) {
			mailCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.mailer.SendBookingConfirmation(mailCtx, b.CustomerEmail, &b); err != nil {
				s.logger.Warn("Booking confirmation email failed",
					zap.String("bookingID", b.ID),
					zap.Error(err))
			}
		}(*booking)
	}

	return booking, nil
}

// Cancel marks a booking cancelled. Cancelling an already cancelled booking
// is a no-op.
func (s *BookingService) Cancel(ctx context.Context, bookingID, customerEmail string) (*entities.Booking, error) {
	booking, err := s.authorize(ctx, bookingID, customerEmail)
	if err != nil {
		return nil, err
	}
	if booking.Status == entities.BookingStatusCancelled {
		return booking, nil
	}

	booking.Status = entities.BookingStatusCancelled
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	s.logger.Info("Booking cancelled", zap.String("bookingID", booking.ID))
	return booking, nil
}

// Reschedule moves a booking to new travel dates.
func (s *BookingService) Reschedule(ctx context.Context, bookingID, customerEmail, departureDate, returnDate string) (*entities.Booking, error) {
	if departureDate == "" {
		return nil, fmt.Errorf("departure_date is required")
	}

	booking, err := s.authorize(ctx, bookingID, customerEmail)
	if err != nil {
		return nil, err
	}
	if booking.Status == entities.BookingStatusCancelled {
		return nil, fmt.Errorf("cannot reschedule a cancelled booking")
	}

	booking.DepartureDate = departureDate
	booking.ReturnDate = returnDate
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to reschedule booking: %w", err)
	}

	s.logger.Info("Booking rescheduled",
		zap.String("bookingID", booking.ID),
		zap.String("departureDate", departureDate))
	return booking, nil
}

// ListByCustomer returns a customer's bookings, most recent first.
func (s *BookingService) ListByCustomer(ctx context.Context, customerEmail string) ([]*entities.Booking, error) {
	return s.bookings.ListByCustomer(ctx, customerEmail)
}

func (s *BookingService) authorize(ctx context.Context, bookingID, customerEmail string) (*entities.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerEmail != customerEmail {
		return nil, repositories.ErrNotFound
	}
	return booking, nil
}
