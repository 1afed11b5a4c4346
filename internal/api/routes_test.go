package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap/zaptest"

	"github.com/attartravel/concierge/adapters/llm"
	"github.com/attartravel/concierge/adapters/memory"
	"github.com/attartravel/concierge/internal/auth"
	"github.com/attartravel/concierge/usecase"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	logger := zaptest.NewLogger(t)
	issuer := auth.NewTokenIssuer("testkey", "testsecret")

	conversations := memory.NewConversationRepository()
	sessions := memory.NewSessionRepository()
	customers := memory.NewCustomerRepository()
	bookings := memory.NewBookingRepository()

	server := NewServer(
		usecase.NewAccessService(sessions, issuer, "ws://localhost:7880", logger),
		usecase.NewTranscriptService(conversations, sessions, logger),
		usecase.NewHistoryService(conversations, logger),
		usecase.NewAccountService(customers, issuer, logger),
		usecase.NewBookingService(bookings, nil, logger),
		usecase.NewAssistantService(llm.NewMockClient(), conversations, logger),
		logger,
	)

	e := echo.New()
	server.InitRoutes(e)
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
}

func TestGetTokenAndSessionInfo(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/get-token",
		`{"roomName":"room-7","participantName":"alice","customer_email":"alice@example.com","language":"hi-IN"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var token TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &token); err != nil {
		t.Fatalf("Failed to decode token response: %v", err)
	}
	if token.Token == "" {
		t.Error("Expected a signed token")
	}
	if token.SessionID == "" {
		t.Error("Expected a session ID")
	}

	rec = doJSON(e, http.MethodGet, "/session-info/room-7", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var info SessionInfoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("Failed to decode session info: %v", err)
	}
	if info.SessionID != token.SessionID {
		t.Errorf("Expected session %s, got %s", token.SessionID, info.SessionID)
	}
	if info.CustomerEmail != "alice@example.com" {
		t.Errorf("Expected customer alice@example.com, got %s", info.CustomerEmail)
	}
	if info.Metadata.Language != "hi-IN" {
		t.Errorf("Expected language hi-IN, got %s", info.Metadata.Language)
	}
}

func TestSessionInfoNotFound(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/session-info/never-granted", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestTranscriptRecoversIdentityFromSession(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/get-token",
		`{"roomName":"room-8","participantName":"alice","customer_email":"alice@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Failed to grant token: %d", rec.Code)
	}
	var token TokenResponse
	json.Unmarshal(rec.Body.Bytes(), &token)

	// The agent posts without identity, as it does when binding failed.
	rec = doJSON(e, http.MethodPost, "/transcript",
		`{"room_name":"room-8","speaker":"user","text":"I want to go to Jeddah"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp TranscriptResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode transcript response: %v", err)
	}
	if resp.SessionID != token.SessionID {
		t.Errorf("Expected recovered session %s, got %s", token.SessionID, resp.SessionID)
	}
	if resp.CustomerEmail != "alice@example.com" {
		t.Errorf("Expected recovered customer, got %q", resp.CustomerEmail)
	}
}

func TestTranscriptRejectsInvalidSpeaker(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/transcript",
		`{"room_name":"r","speaker":"narrator","text":"hello"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestConversationsPairsTurns(t *testing.T) {
	e := newTestServer(t)

	posts := []string{
		`{"room_name":"r","speaker":"user","customer_email":"bob@example.com","text":"Hi"}`,
		`{"room_name":"r","speaker":"assistant","customer_email":"bob@example.com","text":"Hello! Where to?"}`,
		`{"room_name":"r","speaker":"user","customer_email":"bob@example.com","text":"Riyadh please"}`,
	}
	for _, p := range posts {
		if rec := doJSON(e, http.MethodPost, "/transcript", p); rec.Code != http.StatusOK {
			t.Fatalf("Failed to post transcript: %d", rec.Code)
		}
	}

	rec := doJSON(e, http.MethodGet, "/conversations?email=bob@example.com", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var payload struct {
		Conversations []struct {
			UserMessage string `json:"user_message"`
			AIResponse  string `json:"ai_response"`
		} `json:"conversations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Failed to decode conversations: %v", err)
	}

	if len(payload.Conversations) != 2 {
		t.Fatalf("Expected 2 turns, got %d", len(payload.Conversations))
	}
	// Most recent turn first, and the unanswered turn carries the sentinel.
	if payload.Conversations[0].UserMessage != "Riyadh please" {
		t.Errorf("Expected newest turn first, got %q", payload.Conversations[0].UserMessage)
	}
	if payload.Conversations[0].AIResponse != usecase.NoResponseSentinel {
		t.Errorf("Expected no-response sentinel, got %q", payload.Conversations[0].AIResponse)
	}
	if payload.Conversations[1].AIResponse != "Hello! Where to?" {
		t.Errorf("Expected paired reply, got %q", payload.Conversations[1].AIResponse)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/customers/register",
		`{"email":"carol@example.com","password":"s3cret","name":"Carol"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Duplicate registration conflicts.
	rec = doJSON(e, http.MethodPost, "/customers/register",
		`{"email":"carol@example.com","password":"other","name":"Carol"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 on duplicate email, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPost, "/customers/login",
		`{"email":"carol@example.com","password":"s3cret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var authResp AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &authResp); err != nil {
		t.Fatalf("Failed to decode auth response: %v", err)
	}
	if authResp.Token == "" {
		t.Error("Expected a session token")
	}

	rec = doJSON(e, http.MethodPost, "/customers/login",
		`{"email":"carol@example.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 on wrong password, got %d", rec.Code)
	}
}

func TestBookingLifecycle(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/bookings",
		`{"customer_email":"dave@example.com","service_type":"Flight","destination":"Jeddah","departure_date":"2026-11-10","return_date":"2026-11-20","num_travelers":2,"service_details":"Business"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var booking struct {
		ID          string  `json:"booking_id"`
		TotalAmount float64 `json:"total_amount"`
		Status      string  `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &booking); err != nil {
		t.Fatalf("Failed to decode booking: %v", err)
	}
	// Business class, 1200 USD at 83 INR/USD, two travelers.
	if booking.TotalAmount != 1200*83*2 {
		t.Errorf("Expected total 199200, got %f", booking.TotalAmount)
	}
	if booking.Status != "confirmed" {
		t.Errorf("Expected confirmed status, got %s", booking.Status)
	}

	rec = doJSON(e, http.MethodPost, "/bookings/"+booking.ID+"/reschedule",
		`{"customer_email":"dave@example.com","departure_date":"2026-12-01","return_date":"2026-12-11"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on reschedule, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodPost, "/bookings/"+booking.ID+"/cancel",
		`{"customer_email":"dave@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on cancel, got %d", rec.Code)
	}

	// Another customer cannot touch the booking.
	rec = doJSON(e, http.MethodPost, "/bookings/"+booking.ID+"/cancel",
		`{"customer_email":"mallory@example.com"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for foreign booking, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodGet, "/bookings?email=dave@example.com", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
}

func TestChatEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/chat",
		`{"text":"I want to visit AlUla","customer_email":"eve@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode chat response: %v", err)
	}
	if resp.Response == "" {
		t.Error("Expected a non-empty reply")
	}

	// Both sides of the exchange land in the conversation log.
	rec = doJSON(e, http.MethodGet, "/conversations?email=eve@example.com", "")
	var payload struct {
		Conversations []struct {
			UserMessage string `json:"user_message"`
			AIResponse  string `json:"ai_response"`
		} `json:"conversations"`
	}
	json.Unmarshal(rec.Body.Bytes(), &payload)
	if len(payload.Conversations) != 1 {
		t.Fatalf("Expected 1 turn, got %d", len(payload.Conversations))
	}
	if payload.Conversations[0].UserMessage != "I want to visit AlUla" {
		t.Errorf("Unexpected user message %q", payload.Conversations[0].UserMessage)
	}
}
