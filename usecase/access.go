package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/attartravel/concierge/domain/entities"
	"github.com/attartravel/concierge/domain/repositories"
	"github.com/attartravel/concierge/internal/auth"
)

// RoomGrant is the result of granting media access: the signed token, the
// engine URL the client should dial, and the session record created for the
// room.
type RoomGrant struct {
	Token     string
	EngineURL string
	Session   *entities.Session
}

// AccessService issues room access tokens and tracks the resulting voice
// sessions. The session record it writes is what the voice agent later
// resolves through the session-info lookup.
type AccessService struct {
	sessions  repositories.SessionRepository
	issuer    *auth.TokenIssuer
	engineURL string
	logger    *zap.Logger
}

// NewAccessService creates a new access service.
func NewAccessService(sessions repositories.SessionRepository, issuer *auth.TokenIssuer, engineURL string, logger *zap.Logger) *AccessService {
	return &AccessService{
		sessions:  sessions,
		issuer:    issuer,
		engineURL: engineURL,
		logger:    logger,
	}
}

// GrantRoomAccess mints a room token for the participant and records the
// session. customerEmail and language may be empty for anonymous callers.
func (s *AccessService) GrantRoomAccess(ctx context.Context, roomName, participantName, customerEmail, language string) (*RoomGrant, error) {
	if roomName == "" || participantName == "" {
		return nil, errors.New("roomName and participantName are required")
	}

	token, err := s.issuer.RoomToken(roomName, participantName)
	if err != nil {
		return nil, fmt.Errorf("failed to mint room token: %w", err)
	}

	session := entities.NewSession(roomName, customerEmail, language)
	session.ID = uuid.New().String()
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to record session: %w", err)
	}

	s.logger.Info("Room access granted",
		zap.String("room", roomName),
		zap.String("participant", participantName),
		zap.String("sessionID", session.ID))

	return &RoomGrant{Token: token, EngineURL: s.engineURL, Session: session}, nil
}

// SessionInfo returns the session record bound to a room name.
func (s *AccessService) SessionInfo(ctx context.Context, roomName string) (*entities.Session, error) {
	return s.sessions.GetByRoomName(ctx, roomName)
}

// EndSession marks a room's session ended. A missing session is a no-op.
func (s *AccessService) EndSession(ctx context.Context, roomName string) error {
	session, err := s.sessions.GetByRoomName(ctx, roomName)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}

	session.End()
	return s.sessions.Update(ctx, session)
}
