package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/attartravel/concierge/domain/entities"
	"github.com/attartravel/concierge/domain/repositories"
)

// TranscriptInput carries one relayed utterance as posted by the voice agent.
// Identity fields may be empty when the agent is running unbound.
type TranscriptInput struct {
	RoomName      string
	SessionID     string
	CustomerEmail string
	Speaker       entities.Speaker
	Text          string
	Language      string
}

// TranscriptIdentity is the authoritative identity echoed back to the agent
// after a store, letting an unbound relay attach itself to the session.
type TranscriptIdentity struct {
	SessionID     string
	CustomerEmail string
}

// TranscriptService stores relayed utterances and keeps the owning session's
// activity fresh.
type TranscriptService struct {
	conversations repositories.ConversationRepository
	sessions      repositories.SessionRepository
	logger        *zap.Logger
}

// NewTranscriptService creates a new transcript service.
func NewTranscriptService(
	conversations repositories.ConversationRepository,
	sessions repositories.SessionRepository,
	logger *zap.Logger,
) *TranscriptService {
	return &TranscriptService{
		conversations: conversations,
		sessions:      sessions,
		logger:        logger,
	}
}

// Ingest stores one utterance. Missing identity is recovered from the session
// record for the room when one exists; the identity actually stored is
// returned so the agent can adopt it.
func (s *TranscriptService) Ingest(ctx context.Context, in TranscriptInput) (TranscriptIdentity, error) {
	identity := TranscriptIdentity{
		SessionID:     in.SessionID,
		CustomerEmail: in.CustomerEmail,
	}

	session, err := s.sessions.GetByRoomName(ctx, in.RoomName)
	switch {
	case err == nil:
		// The session record wins over whatever the agent carried.
		identity.SessionID = session.ID
		identity.CustomerEmail = session.CustomerEmail
		session.LastActiveAt = time.Now().UTC()
		if err := s.sessions.Update(ctx, session); err != nil {
			s.logger.Warn("Failed to touch session",
				zap.String("room", in.RoomName),
				zap.Error(err))
		}
	case errors.Is(err, repositories.ErrNotFound):
		s.logger.Debug("No session record for room, storing transcript as-is",
			zap.String("room", in.RoomName))
	default:
		return identity, fmt.Errorf("failed to look up session for room %s: %w", in.RoomName, err)
	}

	message := entities.NewMessage(identity.CustomerEmail, identity.SessionID, in.Speaker, in.Text, in.Language)
	if err := message.Validate(); err != nil {
		return identity, err
	}

	if err := s.conversations.Append(ctx, message); err != nil {
		return identity, fmt.Errorf("failed to store transcript: %w", err)
	}

	s.logger.Debug("Transcript stored",
		zap.String("room", in.RoomName),
		zap.String("speaker", string(in.Speaker)),
		zap.String("sessionID", identity.SessionID))

	return identity, nil
}
