package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the engine.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the engine.
	pongWait = 60 * time.Second

	// Send pings with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum event size allowed from the engine.
	maxEventSize = 64 * 1024
)

// Event types emitted by the voice engine over the room event socket.
const (
	EventUserSpeechStarted    = "user_speech_started"
	EventUserSpeechCommitted  = "user_speech_committed"
	EventAgentSpeechStarted   = "agent_speech_started"
	EventAgentSpeechCommitted = "agent_speech_committed"
	EventAgentInterrupted     = "agent_speech_interrupted"
	EventUserStateChanged     = "user_state_changed"
)

// RoomEvent is the envelope every engine event arrives in. The payload shape
// varies per event type and pipeline stage; DecodeSpeechEvent classifies it.
type RoomEvent struct {
	Type    string          `json:"type"`
	Room    string          `json:"room,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// EventHandler receives decoded speech events for one event type.
type EventHandler func(ev SpeechEvent)

// Room is a live connection to the voice engine's event socket for one
// room. Handlers run sequentially on the read loop, mirroring the engine's
// single event loop per room.
type Room struct {
	name     string
	conn     *websocket.Conn
	logger   *zap.Logger
	handlers map[string]EventHandler
}

// JoinRoom dials the engine's event socket for the named room. The access
// token is presented as a bearer credential, the same one the media client
// uses to join.
func JoinRoom(ctx context.Context, engineURL, roomName, token string, logger *zap.Logger) (*Room, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	url := fmt.Sprintf("%s/rooms/%s/events", engineURL, roomName)
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to join room %s: %w (status %d)", roomName, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to join room %s: %w", roomName, err)
	}

	logger.Info("Joined room", zap.String("room", roomName))

	return &Room{
		name:     roomName,
		conn:     conn,
		logger:   logger,
		handlers: make(map[string]EventHandler),
	}, nil
}

// Name returns the room's stable name.
func (r *Room) Name() string {
	return r.name
}

// On registers a handler for an event type. Register all handlers before
// calling Listen.
func (r *Room) On(eventType string, handler EventHandler) {
	r.handlers[eventType] = handler
}

// Listen pumps events from the socket until the connection closes or ctx is
// cancelled. It blocks; run it as the room's main loop.
func (r *Room) Listen(ctx context.Context) error {
	go r.pingLoop(ctx)

	r.conn.SetReadLimit(maxEventSize)
	r.conn.SetReadDeadline(time.Now().Add(pongWait))
	r.conn.SetPongHandler(func(string) error {
		r.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, message, err := r.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				r.logger.Error("Room socket error", zap.String("room", r.name), zap.Error(err))
				return err
			}
			r.logger.Info("Room closed", zap.String("room", r.name))
			return nil
		}

		var event RoomEvent
		if err := json.Unmarshal(message, &event); err != nil {
			r.logger.Warn("Failed to parse room event", zap.Error(err))
			continue
		}

		handler, ok := r.handlers[event.Type]
		if !ok {
			r.logger.Debug("Unhandled room event", zap.String("type", event.Type))
			continue
		}

		handler(DecodeSpeechEvent(event.Payload))
	}
}

// Close closes the engine connection.
func (r *Room) Close() error {
	r.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	return r.conn.Close()
}

func (r *Room) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
