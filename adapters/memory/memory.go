// Package memory provides in-memory repository implementations. They back
// local development without MongoDB and double as test fixtures.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/attartravel/concierge/domain/entities"
	"github.com/attartravel/concierge/domain/repositories"
)

// ConversationRepository is an in-memory implementation of
// repositories.ConversationRepository.
type ConversationRepository struct {
	mu       sync.RWMutex
	messages []*entities.Message
}

// NewConversationRepository creates a new in-memory conversation repository.
func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{}
}

// Append implements repositories.ConversationRepository
func (m *ConversationRepository) Append(ctx context.Context, message *entities.Message) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	messageCopy := *message
	m.messages = append(m.messages, &messageCopy)
	return nil
}

// ListByCustomer implements repositories.ConversationRepository
func (m *ConversationRepository) ListByCustomer(ctx context.Context, customerEmail string) ([]*entities.Message, error) {
	if customerEmail == "" {
		return nil, errors.New("customer email cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*entities.Message
	for _, msg := range m.messages {
		if msg.CustomerEmail == customerEmail {
			msgCopy := *msg
			result = append(result, &msgCopy)
		}
	}

	// Messages append in arrival order; keep the contract explicit.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// SessionRepository is an in-memory implementation of
// repositories.SessionRepository.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entities.Session
	byRoom   map[string][]*entities.Session
}

// NewSessionRepository creates a new in-memory session repository.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*entities.Session),
		byRoom:   make(map[string][]*entities.Session),
	}
}

// Create implements repositories.SessionRepository
func (m *SessionRepository) Create(ctx context.Context, session *entities.Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if err := session.Validate(); err != nil {
		return err
	}
	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sessionCopy := *session
	m.sessions[session.ID] = &sessionCopy
	m.byRoom[session.RoomName] = append(m.byRoom[session.RoomName], &sessionCopy)
	return nil
}

// GetByRoomName implements repositories.SessionRepository
func (m *SessionRepository) GetByRoomName(ctx context.Context, roomName string) (*entities.Session, error) {
	if roomName == "" {
		return nil, errors.New("room name cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := m.byRoom[roomName]
	if len(sessions) == 0 {
		return nil, repositories.ErrNotFound
	}

	// The most recent grant for the room wins.
	latest := sessions[0]
	for _, s := range sessions[1:] {
		if s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}

	sessionCopy := *latest
	return &sessionCopy, nil
}

// Update implements repositories.SessionRepository
func (m *SessionRepository) Update(ctx context.Context, session *entities.Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if session.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.sessions[session.ID]
	if !exists {
		return repositories.ErrNotFound
	}

	*existing = *session
	return nil
}

// CustomerRepository is an in-memory implementation of
// repositories.CustomerRepository.
type CustomerRepository struct {
	mu      sync.RWMutex
	byID    map[string]*entities.Customer
	byEmail map[string]*entities.Customer
}

// NewCustomerRepository creates a new in-memory customer repository.
func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{
		byID:    make(map[string]*entities.Customer),
		byEmail: make(map[string]*entities.Customer),
	}
}

// Create implements repositories.CustomerRepository
func (m *CustomerRepository) Create(ctx context.Context, customer *entities.Customer) error {
	if customer == nil {
		return errors.New("customer cannot be nil")
	}
	if err := customer.Validate(); err != nil {
		return err
	}
	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[customer.Email]; exists {
		return errors.New("customer with this email already exists")
	}

	customerCopy := *customer
	m.byID[customer.ID] = &customerCopy
	m.byEmail[customer.Email] = &customerCopy
	return nil
}

// GetByEmail implements repositories.CustomerRepository
func (m *CustomerRepository) GetByEmail(ctx context.Context, email string) (*entities.Customer, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	customer, exists := m.byEmail[email]
	if !exists {
		return nil, repositories.ErrNotFound
	}

	customerCopy := *customer
	return &customerCopy, nil
}

// Update implements repositories.CustomerRepository
func (m *CustomerRepository) Update(ctx context.Context, customer *entities.Customer) error {
	if customer == nil {
		return errors.New("customer cannot be nil")
	}
	if customer.ID == "" {
		return errors.New("customer ID cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.byID[customer.ID]
	if !exists {
		return repositories.ErrNotFound
	}

	delete(m.byEmail, existing.Email)
	*existing = *customer
	m.byEmail[customer.Email] = existing
	return nil
}

// BookingRepository is an in-memory implementation of
// repositories.BookingRepository.
type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*entities.Booking
}

// NewBookingRepository creates a new in-memory booking repository.
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{
		bookings: make(map[string]*entities.Booking),
	}
}

// Create implements repositories.BookingRepository
func (m *BookingRepository) Create(ctx context.Context, booking *entities.Booking) error {
	if booking == nil {
		return errors.New("booking cannot be nil")
	}
	if err := booking.Validate(); err != nil {
		return err
	}
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	bookingCopy := *booking
	m.bookings[booking.ID] = &bookingCopy
	return nil
}

// GetByID implements repositories.BookingRepository
func (m *BookingRepository) GetByID(ctx context.Context, id string) (*entities.Booking, error) {
	if id == "" {
		return nil, errors.New("booking ID cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	booking, exists := m.bookings[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}

	bookingCopy := *booking
	return &bookingCopy, nil
}

// ListByCustomer implements repositories.BookingRepository
func (m *BookingRepository) ListByCustomer(ctx context.Context, customerEmail string) ([]*entities.Booking, error) {
	if customerEmail == "" {
		return nil, errors.New("customer email cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*entities.Booking
	for _, booking := range m.bookings {
		if booking.CustomerEmail == customerEmail {
			bookingCopy := *booking
			result = append(result, &bookingCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Update implements repositories.BookingRepository
func (m *BookingRepository) Update(ctx context.Context, booking *entities.Booking) error {
	if booking == nil {
		return errors.New("booking cannot be nil")
	}
	if booking.ID == "" {
		return errors.New("booking ID cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.bookings[booking.ID]
	if !exists {
		return repositories.ErrNotFound
	}

	*existing = *booking
	return nil
}
