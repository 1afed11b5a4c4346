package usecase

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/attartravel/concierge/adapters/memory"
	"github.com/attartravel/concierge/domain/entities"
)

func msg(speaker entities.Speaker, text string, at time.Time) *entities.Message {
	return &entities.Message{
		CustomerEmail: "alice@example.com",
		SessionID:     "S1",
		Speaker:       speaker,
		Text:          text,
		Language:      "en-US",
		CreatedAt:     at,
	}
}

func TestPairTurnsBasicPairing(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	messages := []*entities.Message{
		msg(entities.SpeakerUser, "Hi", base),
		msg(entities.SpeakerAssistant, "Hello! Where to?", base.Add(time.Second)),
		msg(entities.SpeakerUser, "Jeddah", base.Add(2*time.Second)),
		msg(entities.SpeakerAssistant, "Great choice", base.Add(3*time.Second)),
	}

	turns := PairTurns(messages, DefaultHistoryLimit)
	if len(turns) != 2 {
		t.Fatalf("Expected 2 turns, got %d", len(turns))
	}

	// Most recent first.
	if turns[0].UserMessage != "Jeddah" || turns[0].AIResponse != "Great choice" {
		t.Errorf("Unexpected newest turn: %+v", turns[0])
	}
	if turns[1].UserMessage != "Hi" || turns[1].AIResponse != "Hello! Where to?" {
		t.Errorf("Unexpected oldest turn: %+v", turns[1])
	}
}

func TestPairTurnsUnansweredUserMessage(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	messages := []*entities.Message{
		msg(entities.SpeakerUser, "First", base),
		msg(entities.SpeakerUser, "Second", base.Add(time.Second)),
		msg(entities.SpeakerAssistant, "Answering second", base.Add(2*time.Second)),
	}

	turns := PairTurns(messages, DefaultHistoryLimit)
	if len(turns) != 2 {
		t.Fatalf("Expected 2 turns, got %d", len(turns))
	}
	if turns[1].AIResponse != NoResponseSentinel {
		t.Errorf("Expected sentinel for unanswered message, got %q", turns[1].AIResponse)
	}
	if turns[0].AIResponse != "Answering second" {
		t.Errorf("Expected paired reply, got %q", turns[0].AIResponse)
	}
}

func TestPairTurnsOrphanedAssistantMessagesSkipped(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	messages := []*entities.Message{
		// A leading assistant greeting with no user message before it.
		msg(entities.SpeakerAssistant, "Welcome to Attar Travel!", base),
		msg(entities.SpeakerUser, "Hi", base.Add(time.Second)),
		msg(entities.SpeakerAssistant, "Hello!", base.Add(2*time.Second)),
		// A second consecutive assistant message, not claimed by any turn.
		msg(entities.SpeakerAssistant, "Anything else?", base.Add(3*time.Second)),
	}

	turns := PairTurns(messages, DefaultHistoryLimit)
	if len(turns) != 1 {
		t.Fatalf("Expected 1 turn, got %d", len(turns))
	}
	if turns[0].UserMessage != "Hi" || turns[0].AIResponse != "Hello!" {
		t.Errorf("Unexpected turn: %+v", turns[0])
	}
}

func TestPairTurnsLimit(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	var messages []*entities.Message
	for i := 0; i < 10; i++ {
		messages = append(messages,
			msg(entities.SpeakerUser, "Q", base.Add(time.Duration(2*i)*time.Second)),
			msg(entities.SpeakerAssistant, "A", base.Add(time.Duration(2*i+1)*time.Second)),
		)
	}

	turns := PairTurns(messages, 3)
	if len(turns) != 3 {
		t.Errorf("Expected limit of 3 turns, got %d", len(turns))
	}
}

func TestPairTurnsEmptyLog(t *testing.T) {
	if turns := PairTurns(nil, DefaultHistoryLimit); len(turns) != 0 {
		t.Errorf("Expected no turns from empty log, got %d", len(turns))
	}
}

func TestHistoryServiceDefaultsLimit(t *testing.T) {
	ctx := context.Background()
	conversations := memory.NewConversationRepository()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < DefaultHistoryLimit+10; i++ {
		m := msg(entities.SpeakerUser, "Q", base.Add(time.Duration(i)*time.Minute))
		if err := conversations.Append(ctx, m); err != nil {
			t.Fatalf("Failed to append: %v", err)
		}
	}

	service := NewHistoryService(conversations, zaptest.NewLogger(t))
	turns, err := service.Turns(ctx, "alice@example.com", 0)
	if err != nil {
		t.Fatalf("Turns failed: %v", err)
	}
	if len(turns) != DefaultHistoryLimit {
		t.Errorf("Expected default limit %d, got %d", DefaultHistoryLimit, len(turns))
	}
}
