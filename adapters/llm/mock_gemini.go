package llm

import (
	"context"
	"fmt"

	"github.com/attartravel/concierge/domain/repositories"
)

// MockClient is a canned-response implementation of LargeLanguageModel for
// tests and for running the server without an API key.
type MockClient struct{}

// NewMockClient creates a new mock LLM client
func NewMockClient() repositories.LargeLanguageModel {
	return &MockClient{}
}

// GenerateChat implements repositories.LargeLanguageModel
func (g *MockClient) GenerateChat(ctx context.Context, history []repositories.ChatMessage) (repositories.ChatSession, error) {
	return &MockChatSession{history: history}, nil
}

// MockChatSession implements repositories.ChatSession
type MockChatSession struct {
	history []repositories.ChatMessage
}

// SendMessage implements repositories.ChatSession
func (g *MockChatSession) SendMessage(ctx context.Context, message repositories.ChatMessage) (repositories.ChatMessage, error) {
	g.history = append(g.history, message)

	var response string
	switch {
	case len(message.Content) > 0:
		response = fmt.Sprintf("Thanks for your message! I heard '%s'. Where in Saudi Arabia would you like to travel?", message.Content)
	default:
		response = "Hello! I'm Alex from Attar Travel. How can I help you plan your trip today?"
	}

	responseMessage := repositories.ChatMessage{
		Role:    repositories.AssistantRole,
		Content: response,
	}
	g.history = append(g.history, responseMessage)

	return responseMessage, nil
}

// History implements repositories.ChatSession
func (g *MockChatSession) History() ([]repositories.ChatMessage, error) {
	return g.history, nil
}
