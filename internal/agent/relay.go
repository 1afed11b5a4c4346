package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/attartravel/concierge/domain/entities"
	"github.com/attartravel/concierge/internal/observe"
)

// defaultQueueSize caps the number of transcripts waiting to be posted for
// one room. Bursty speech beyond this is dropped (newest first) rather than
// growing without bound.
const defaultQueueSize = 64

// TranscriptPayload is the wire format of one relayed utterance.
type TranscriptPayload struct {
	RoomName      string `json:"room_name"`
	SessionID     string `json:"session_id,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	Speaker       string `json:"speaker"`
	Text          string `json:"text"`
	Language      string `json:"language"`
	Timestamp     string `json:"timestamp"`
}

// transcriptResponse is the backend's reply to a transcript post. Identity
// fields, when present, are authoritative.
type transcriptResponse struct {
	SessionID     string `json:"session_id"`
	CustomerEmail string `json:"customer_email"`
}

type relayJob struct {
	speaker entities.Speaker
	text    string
	at      time.Time
}

// TranscriptRelay forwards committed utterances to the backend's transcript
// endpoint. Enqueueing never blocks the caller: jobs feed a bounded queue
// drained by a single consumer goroutine, which serializes delivery per
// room and so preserves utterance order on the wire.
//
// Delivery is at-most-once. A failed post is logged, counted, and dropped;
// there is no retry or redelivery buffer. The upstream conversational
// engine still holds the live conversation, so a lost transcript costs an
// audit-trail entry, not the conversation itself.
type TranscriptRelay struct {
	backendURL string
	client     *http.Client
	sctx       *SessionContext
	logger     *zap.Logger
	metrics    *observe.Metrics

	queue     chan relayJob
	done      chan struct{}
	closeOnce sync.Once
}

// NewTranscriptRelay creates a relay for one room's session context and
// starts its consumer goroutine. Call Close when the room ends.
func NewTranscriptRelay(backendURL string, sctx *SessionContext, logger *zap.Logger) *TranscriptRelay {
	r := &TranscriptRelay{
		backendURL: backendURL,
		client:     &http.Client{Timeout: backendTimeout},
		sctx:       sctx,
		logger:     logger,
		metrics:    observe.DefaultMetrics(),
		queue:      make(chan relayJob, defaultQueueSize),
		done:       make(chan struct{}),
	}
	go r.consume()
	return r
}

// Relay normalizes a speech event and queues it for delivery. Events with
// no usable text are a silent no-op. A detected language hint updates the
// session context even when the queue is full.
func (r *TranscriptRelay) Relay(speaker entities.Speaker, ev SpeechEvent) {
	text, ok := ExtractText(ev)
	if !ok {
		return
	}

	if language, ok := ExtractLanguage(ev); ok {
		r.sctx.SetLanguage(language)
	}

	job := relayJob{speaker: speaker, text: text, at: time.Now().UTC()}
	select {
	case r.queue <- job:
	default:
		r.logger.Warn("Transcript queue full, dropping utterance",
			zap.String("room", r.sctx.RoomName()),
			zap.String("speaker", string(speaker)))
		r.metrics.RecordDropped(context.Background(), string(speaker), observe.DropReasonQueueFull)
	}
}

// Close stops accepting new transcripts and waits for the queue to drain.
// Posts already in flight when the process exits may be abandoned; that is
// accepted.
func (r *TranscriptRelay) Close() {
	r.closeOnce.Do(func() {
		close(r.queue)
	})
	<-r.done
}

func (r *TranscriptRelay) consume() {
	defer close(r.done)
	for job := range r.queue {
		r.send(job)
	}
}

func (r *TranscriptRelay) send(job relayJob) {
	ctx, cancel := context.WithTimeout(context.Background(), backendTimeout)
	defer cancel()

	// Identity and language are read at send time: a context updated by a
	// later callback only makes the payload fresher.
	snap := r.sctx.Snapshot()
	language := snap.Language
	if language == "" {
		language = entities.DefaultLanguage
	}

	payload := TranscriptPayload{
		RoomName:      snap.RoomName,
		SessionID:     snap.SessionID,
		CustomerEmail: snap.CustomerEmail,
		Speaker:       string(job.speaker),
		Text:          job.text,
		Language:      language,
		Timestamp:     job.at.Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		r.logger.Warn("Failed to marshal transcript payload", zap.Error(err))
		r.metrics.RecordDropped(ctx, payload.Speaker, observe.DropReasonTransport)
		return
	}

	url := fmt.Sprintf("%s/transcript", r.backendURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		r.logger.Warn("Failed to build transcript request", zap.Error(err))
		r.metrics.RecordDropped(ctx, payload.Speaker, observe.DropReasonTransport)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("Unable to send transcript to backend",
			zap.String("room", snap.RoomName),
			zap.Error(err))
		r.metrics.RecordDropped(ctx, payload.Speaker, observe.DropReasonTransport)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		r.logger.Warn("Transcript post rejected",
			zap.String("room", snap.RoomName),
			zap.Int("status", resp.StatusCode))
		r.metrics.RecordDropped(ctx, payload.Speaker, observe.DropReasonHTTPError)
		return
	}

	var result transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		r.sctx.SetIdentity(result.SessionID, result.CustomerEmail)
	}

	r.logger.Debug("Transcript stored",
		zap.String("room", snap.RoomName),
		zap.String("speaker", payload.Speaker),
		zap.Int("length", len(job.text)))
	r.metrics.RecordDelivered(ctx, payload.Speaker)
}
