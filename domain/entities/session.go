package entities

import (
	"errors"
	"time"
)

// SessionStatus represents the status of a voice session.
type SessionStatus string

const (
	SessionStatusActive SessionStatus = "active"
	SessionStatusEnded  SessionStatus = "ended"
)

// SessionMetadata carries session-level hints the voice agent can use.
type SessionMetadata struct {
	Language string `json:"language" bson:"language"`
}

// Session is the backend-tracked record of a voice room. It is created when
// a room access token is issued and is how the agent's session binder maps a
// room name back to a customer.
type Session struct {
	ID            string          `json:"session_id" bson:"_id,omitempty"`
	RoomName      string          `json:"room_name" bson:"room_name"`
	CustomerEmail string          `json:"customer_email" bson:"customer_email"`
	Status        SessionStatus   `json:"status" bson:"status"`
	Metadata      SessionMetadata `json:"metadata" bson:"metadata"`
	CreatedAt     time.Time       `json:"created_at" bson:"created_at"`
	LastActiveAt  time.Time       `json:"last_active_at" bson:"last_active_at"`
}

// NewSession creates an active session for a room.
func NewSession(roomName, customerEmail, language string) *Session {
	now := time.Now().UTC()
	if language == "" {
		language = DefaultLanguage
	}
	return &Session{
		RoomName:      roomName,
		CustomerEmail: customerEmail,
		Status:        SessionStatusActive,
		Metadata:      SessionMetadata{Language: language},
		CreatedAt:     now,
		LastActiveAt:  now,
	}
}

// Touch updates the last-active timestamp.
func (s *Session) Touch() {
	s.LastActiveAt = time.Now().UTC()
}

// End marks the session as ended.
func (s *Session) End() {
	s.Status = SessionStatusEnded
	s.Touch()
}

// Validate validates the session data.
func (s *Session) Validate() error {
	if s.RoomName == "" {
		return errors.New("room_name is required")
	}
	if s.Status != SessionStatusActive && s.Status != SessionStatusEnded {
		return errors.New("invalid session status")
	}
	return nil
}
