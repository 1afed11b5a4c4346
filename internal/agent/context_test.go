package agent

import "testing"

func TestSessionContextIdentityNeverCleared(t *testing.T) {
	sctx := NewSessionContext("room-1")

	sctx.SetIdentity("S1", "alice@example.com")

	// Empty values must not clear known identity.
	sctx.SetIdentity("", "")
	snap := sctx.Snapshot()
	if snap.SessionID != "S1" || snap.CustomerEmail != "alice@example.com" {
		t.Errorf("Identity cleared by empty update: %+v", snap)
	}

	// Non-empty values overwrite: the backend is authoritative.
	sctx.SetIdentity("S2", "")
	snap = sctx.Snapshot()
	if snap.SessionID != "S2" {
		t.Errorf("Expected session S2, got %s", snap.SessionID)
	}
	if snap.CustomerEmail != "alice@example.com" {
		t.Errorf("Partial update cleared customer email: %s", snap.CustomerEmail)
	}
}

func TestSessionContextLanguageLastWriteWins(t *testing.T) {
	sctx := NewSessionContext("room-1")

	sctx.SetLanguage("en-US")
	sctx.SetLanguage("hi-IN")
	if got := sctx.Snapshot().Language; got != "hi-IN" {
		t.Errorf("Expected hi-IN, got %s", got)
	}

	// Empty hints are ignored, not stored.
	sctx.SetLanguage("")
	if got := sctx.Snapshot().Language; got != "hi-IN" {
		t.Errorf("Empty hint cleared language: %s", got)
	}
}

func TestSessionContextRoomNameFixed(t *testing.T) {
	sctx := NewSessionContext("room-9")
	if sctx.RoomName() != "room-9" {
		t.Errorf("Expected room-9, got %s", sctx.RoomName())
	}
	if sctx.Snapshot().RoomName != "room-9" {
		t.Errorf("Snapshot room mismatch")
	}
}
