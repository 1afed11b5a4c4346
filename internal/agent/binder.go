package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/attartravel/concierge/internal/observe"
)

// backendTimeout bounds every outbound call to the backend. A slow backend
// must never hold up the live conversation.
const backendTimeout = 5 * time.Second

// SessionBinder resolves a voice room name to its backend-tracked session at
// room join. Binding failure is not fatal: the relay keeps operating with an
// unbound context and picks identity up later from transcript responses.
type SessionBinder struct {
	backendURL string
	client     *http.Client
	logger     *zap.Logger
	metrics    *observe.Metrics
}

// NewSessionBinder creates a binder against the given backend base URL.
func NewSessionBinder(backendURL string, logger *zap.Logger) *SessionBinder {
	return &SessionBinder{
		backendURL: backendURL,
		client:     &http.Client{Timeout: backendTimeout},
		logger:     logger,
		metrics:    observe.DefaultMetrics(),
	}
}

// sessionInfoResponse mirrors the backend's session-info payload.
type sessionInfoResponse struct {
	SessionID     string `json:"session_id"`
	CustomerEmail string `json:"customer_email"`
	Metadata      struct {
		Language string `json:"language"`
	} `json:"metadata"`
}

// Resolve looks up the session bound to roomName. It always returns a usable
// context: on any lookup failure the context carries only the room name.
func (b *SessionBinder) Resolve(ctx context.Context, roomName string) *SessionContext {
	sctx := NewSessionContext(roomName)

	url := fmt.Sprintf("%s/session-info/%s", b.backendURL, roomName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		b.logger.Warn("Failed to build session-info request",
			zap.String("room", roomName),
			zap.Error(err))
		b.metrics.RecordBinding(ctx, false)
		return sctx
	}

	resp, err := b.client.Do(req)
	if err != nil {
		b.logger.Warn("Session-info request failed",
			zap.String("room", roomName),
			zap.Error(err))
		b.metrics.RecordBinding(ctx, false)
		return sctx
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b.logger.Warn("Session-info lookup returned non-OK status",
			zap.String("room", roomName),
			zap.Int("status", resp.StatusCode))
		b.metrics.RecordBinding(ctx, false)
		return sctx
	}

	var info sessionInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		b.logger.Warn("Failed to decode session-info response",
			zap.String("room", roomName),
			zap.Error(err))
		b.metrics.RecordBinding(ctx, false)
		return sctx
	}

	sctx.SetIdentity(info.SessionID, info.CustomerEmail)
	sctx.SetLanguage(info.Metadata.Language)

	b.logger.Info("Session bound",
		zap.String("room", roomName),
		zap.String("sessionID", info.SessionID),
		zap.String("customerEmail", info.CustomerEmail))
	b.metrics.RecordBinding(ctx, true)

	return sctx
}
