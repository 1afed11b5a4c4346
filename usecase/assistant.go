package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/attartravel/concierge/domain/entities"
	"github.com/attartravel/concierge/domain/repositories"
)

// AssistantService answers text chat messages with the travel assistant
// persona, seeding the model with the customer's stored conversation so the
// assistant remembers prior voice and text exchanges.
type AssistantService struct {
	llm           repositories.LargeLanguageModel
	conversations repositories.ConversationRepository
	logger        *zap.Logger
}

// NewAssistantService creates a new assistant service.
func NewAssistantService(
	llm repositories.LargeLanguageModel,
	conversations repositories.ConversationRepository,
	logger *zap.Logger,
) *AssistantService {
	return &AssistantService{
		llm:           llm,
		conversations: conversations,
		logger:        logger,
	}
}

// Chat sends one user message and returns the assistant's reply. Both sides
// of the exchange are appended to the customer's conversation log.
func (s *AssistantService) Chat(ctx context.Context, customerEmail, sessionID, text, language string) (string, error) {
	history, err := s.loadHistory(ctx, customerEmail)
	if err != nil {
		s.logger.Warn("Failed to load chat history, starting fresh",
			zap.String("customerEmail", customerEmail),
			zap.Error(err))
		history = nil
	}

	chatSession, err := s.llm.GenerateChat(ctx, history)
	if err != nil {
		return "", fmt.Errorf("failed to start chat session: %w", err)
	}

	reply, err := chatSession.SendMessage(ctx, repositories.ChatMessage{
		Role:    repositories.UserRole,
		Content: text,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	s.store(ctx, customerEmail, sessionID, entities.SpeakerUser, text, language)
	s.store(ctx, customerEmail, sessionID, entities.SpeakerAssistant, reply.Content, language)

	return reply.Content, nil
}

func (s *AssistantService) loadHistory(ctx context.Context, customerEmail string) ([]repositories.ChatMessage, error) {
	if customerEmail == "" {
		return nil, nil
	}

	messages, err := s.conversations.ListByCustomer(ctx, customerEmail)
	if err != nil {
		return nil, err
	}

	history := make([]repositories.ChatMessage, 0, len(messages))
	for _, msg := range messages {
		role := repositories.UserRole
		if msg.Speaker == entities.SpeakerAssistant {
			role = repositories.AssistantRole
		}
		history = append(history, repositories.ChatMessage{Role: role, Content: msg.Text})
	}
	return history, nil
}

func (s *AssistantService) store(ctx context.Context, customerEmail, sessionID string, speaker entities.Speaker, text, language string) {
	message := entities.NewMessage(customerEmail, sessionID, speaker, text, language)
	if err := message.Validate(); err != nil {
		return
	}
	if err := s.conversations.Append(ctx, message); err != nil {
		s.logger.Warn("Failed to store chat message",
			zap.String("speaker", string(speaker)),
			zap.Error(err))
	}
}
