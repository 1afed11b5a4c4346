package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/attartravel/concierge/domain/entities"
	"github.com/attartravel/concierge/domain/repositories"
)

// NoResponseSentinel is the reply shown for a user message the assistant
// never answered.
const NoResponseSentinel = "No response yet"

// DefaultHistoryLimit bounds a history read when the caller supplies none.
const DefaultHistoryLimit = 50

// HistoryService reconstructs conversation turns from the flat message log.
type HistoryService struct {
	conversations repositories.ConversationRepository
	logger        *zap.Logger
}

// NewHistoryService creates a new history service.
func NewHistoryService(conversations repositories.ConversationRepository, logger *zap.Logger) *HistoryService {
	return &HistoryService{conversations: conversations, logger: logger}
}

// Turns returns a customer's conversation history as paired turns, most
// recent first, at most limit entries.
func (s *HistoryService) Turns(ctx context.Context, customerEmail string, limit int) ([]entities.ConversationTurn, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	messages, err := s.conversations.ListByCustomer(ctx, customerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}

	return PairTurns(messages, limit), nil
}

// PairTurns groups an oldest-first message log into user/assistant turns.
//
// A single forward cursor scans the log. Each user message opens a turn;
// if the very next message is from the assistant it becomes the reply and
// the cursor skips it, otherwise the turn carries the no-response sentinel.
// Assistant messages not claimed as a reply (leading or consecutive ones)
// never become turns of their own and are skipped silently; whether that is
// the right treatment for assistant-initiated greetings is an open product
// question, so the behavior is kept as-is.
//
// The result is most-recent first and truncated to limit.
func PairTurns(messages []*entities.Message, limit int) []entities.ConversationTurn {
	turns := make([]entities.ConversationTurn, 0, len(messages)/2+1)

	for i := 0; i < len(messages); i++ {
		msg := messages[i]
		if msg.Speaker != entities.SpeakerUser {
			continue
		}

		turn := entities.ConversationTurn{
			UserMessage: msg.Text,
			AIResponse:  NoResponseSentinel,
			Language:    msg.Language,
			CreatedAt:   msg.CreatedAt,
		}

		if i+1 < len(messages) && messages[i+1].Speaker == entities.SpeakerAssistant {
			turn.AIResponse = messages[i+1].Text
			i++
		}

		turns = append(turns, turn)
	}

	// Most recent first.
	for left, right := 0, len(turns)-1; left < right; left, right = left+1, right-1 {
		turns[left], turns[right] = turns[right], turns[left]
	}

	if len(turns) > limit {
		turns = turns[:limit]
	}
	return turns
}
