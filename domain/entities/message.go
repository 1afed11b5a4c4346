package entities

import (
	"errors"
	"time"
)

// Speaker identifies who produced an utterance.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// DefaultLanguage is used whenever no language hint was detected for a message.
const DefaultLanguage = "en-US"

// Message is a single stored utterance. Messages are created once per
// committed speech event and are immutable after creation.
type Message struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	CustomerEmail string    `json:"customer_email" bson:"customer_email"`
	SessionID     string    `json:"session_id" bson:"session_id"`
	Speaker       Speaker   `json:"speaker" bson:"speaker"`
	Text          string    `json:"text" bson:"text"`
	Language      string    `json:"language" bson:"language"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// NewMessage builds a Message with the language defaulted and the creation
// timestamp set. Session and customer identity may be empty; the backend
// fills them in from the session record when it can.
func NewMessage(customerEmail, sessionID string, speaker Speaker, text, language string) *Message {
	if language == "" {
		language = DefaultLanguage
	}
	return &Message{
		CustomerEmail: customerEmail,
		SessionID:     sessionID,
		Speaker:       speaker,
		Text:          text,
		Language:      language,
		CreatedAt:     time.Now().UTC(),
	}
}

// Validate checks the fields that must be present before a message is stored.
func (m *Message) Validate() error {
	if m.Text == "" {
		return errors.New("text is required")
	}
	if m.Speaker != SpeakerUser && m.Speaker != SpeakerAssistant {
		return errors.New("invalid speaker")
	}
	return nil
}

// ConversationTurn pairs one user message with its assistant reply for
// history display. Turns are derived from the stored message log and are
// never persisted.
type ConversationTurn struct {
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	Language    string    `json:"language"`
	CreatedAt   time.Time `json:"created_at"`
}
