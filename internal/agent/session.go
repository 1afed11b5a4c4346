package agent

import (
	"context"

	"go.uber.org/zap"

	"github.com/attartravel/concierge/domain/entities"
	"github.com/attartravel/concierge/internal/observe"
)

// RoomSession wires one voice room to the transcript pipeline: it binds the
// room to its backend session, registers the speech-event handlers, and
// runs the room's event loop until the engine disconnects.
type RoomSession struct {
	room   *Room
	sctx   *SessionContext
	relay  *TranscriptRelay
	logger *zap.Logger
}

// NewRoomSession resolves session identity for the room and prepares the
// relay. An unresolvable session is not an error; the relay starts unbound.
func NewRoomSession(ctx context.Context, room *Room, binder *SessionBinder, backendURL string, logger *zap.Logger) *RoomSession {
	sctx := binder.Resolve(ctx, room.Name())
	relay := NewTranscriptRelay(backendURL, sctx, logger)
	return &RoomSession{
		room:   room,
		sctx:   sctx,
		relay:  relay,
		logger: logger,
	}
}

// Run registers handlers and blocks on the room's event loop. On return the
// relay queue is drained best-effort before the session is discarded.
func (s *RoomSession) Run(ctx context.Context) error {
	metrics := observe.DefaultMetrics()
	metrics.ActiveRooms.Add(ctx, 1)
	defer metrics.ActiveRooms.Add(context.Background(), -1)

	s.room.On(EventUserSpeechStarted, func(SpeechEvent) {
		s.logger.Debug("User started speaking", zap.String("room", s.room.Name()))
	})
	s.room.On(EventUserSpeechCommitted, func(ev SpeechEvent) {
		s.relay.Relay(entities.SpeakerUser, ev)
	})
	s.room.On(EventAgentSpeechStarted, func(SpeechEvent) {
		s.logger.Debug("Agent started speaking", zap.String("room", s.room.Name()))
	})
	s.room.On(EventAgentSpeechCommitted, func(ev SpeechEvent) {
		s.relay.Relay(entities.SpeakerAssistant, ev)
	})
	s.room.On(EventAgentInterrupted, func(SpeechEvent) {
		s.logger.Info("User interrupted, agent paused to listen", zap.String("room", s.room.Name()))
	})
	s.room.On(EventUserStateChanged, func(SpeechEvent) {
		s.logger.Debug("User state changed", zap.String("room", s.room.Name()))
	})

	err := s.room.Listen(ctx)
	s.relay.Close()
	return err
}
