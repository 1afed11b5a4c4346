package agent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestSessionBinderResolveSuccess(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session-info/room-1" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"session_id":"S1","customer_email":"alice@example.com","metadata":{"language":"hi-IN"}}`))
	}))
	defer backend.Close()

	binder := NewSessionBinder(backend.URL, zaptest.NewLogger(t))
	sctx := binder.Resolve(context.Background(), "room-1")

	snap := sctx.Snapshot()
	if snap.SessionID != "S1" {
		t.Errorf("Expected session S1, got %q", snap.SessionID)
	}
	if snap.CustomerEmail != "alice@example.com" {
		t.Errorf("Expected customer alice@example.com, got %q", snap.CustomerEmail)
	}
	if snap.Language != "hi-IN" {
		t.Errorf("Expected language hi-IN, got %q", snap.Language)
	}
}

func TestSessionBinderResolveFailureLeavesContextUnbound(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer backend.Close()

	binder := NewSessionBinder(backend.URL, zaptest.NewLogger(t))
	sctx := binder.Resolve(context.Background(), "room-2")

	snap := sctx.Snapshot()
	if snap.RoomName != "room-2" {
		t.Errorf("Expected room name preserved, got %q", snap.RoomName)
	}
	if snap.SessionID != "" || snap.CustomerEmail != "" {
		t.Errorf("Expected unbound context, got %+v", snap)
	}
}

func TestSessionBinderResolveUnreachableBackend(t *testing.T) {
	binder := NewSessionBinder("http://127.0.0.1:1", zaptest.NewLogger(t))
	sctx := binder.Resolve(context.Background(), "room-3")

	// A dead backend must still yield a usable context.
	if sctx.RoomName() != "room-3" {
		t.Errorf("Expected room-3, got %s", sctx.RoomName())
	}
	snap := sctx.Snapshot()
	if snap.SessionID != "" {
		t.Errorf("Expected empty session ID, got %q", snap.SessionID)
	}
}
