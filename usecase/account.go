package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/attartravel/concierge/domain/entities"
	"github.com/attartravel/concierge/domain/repositories"
	"github.com/attartravel/concierge/internal/auth"
)

// ErrEmailTaken is returned when registering an email that already has an
// account.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidCredentials is returned for a failed login. The caller cannot
// tell a missing account from a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AccountService manages customer registration and login.
type AccountService struct {
	customers repositories.CustomerRepository
	issuer    *auth.TokenIssuer
	logger    *zap.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(customers repositories.CustomerRepository, issuer *auth.TokenIssuer, logger *zap.Logger) *AccountService {
	return &AccountService{customers: customers, issuer: issuer, logger: logger}
}

// Register creates a customer account and returns it with a session token.
func (s *AccountService) Register(ctx context.Context, email, name, password string) (*entities.Customer, string, error) {
	if email == "" || password == "" {
		return nil, "", errors.New("email and password are required")
	}

	if _, err := s.customers.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check existing account: %w", err)
	}

	salt, hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	customer := &entities.Customer{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordSalt: salt,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := customer.Validate(); err != nil {
		return nil, "", err
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, "", fmt.Errorf("failed to create account: %w", err)
	}

	token, err := s.issuer.UserToken(customer.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	s.logger.Info("Customer registered", zap.String("email", customer.Email))
	return customer, token, nil
}

// Login verifies credentials and returns the customer with a fresh session
// token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*entities.Customer, string, error) {
	customer, err := s.customers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to load account: %w", err)
	}

	if !auth.VerifyPassword(password, customer.PasswordSalt, customer.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	customer.LastLoginAt = time.Now().UTC()
	if err := s.customers.Update(ctx, customer); err != nil {
		s.logger.Warn("Failed to record login time", zap.String("email", email), zap.Error(err))
	}

	token, err := s.issuer.UserToken(customer.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	s.logger.Info("Customer logged in", zap.String("email", customer.Email))
	return customer, token, nil
}
