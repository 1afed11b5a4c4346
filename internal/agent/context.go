package agent

import "sync"

// SessionContext is the per-room mutable state shared by every callback of a
// voice session. It is passed explicitly into each handler rather than
// captured by closure, with single-writer discipline per field: the room
// name is fixed at creation, session identity only moves from unset to set,
// and language is last-write-wins.
//
// The relay consumer goroutine reads the context after dispatch, so access
// is mutex-guarded. A snapshot taken mid-update only ever observes fresher
// values, never stale ones.
type SessionContext struct {
	roomName string

	mu            sync.Mutex
	sessionID     string
	customerEmail string
	language      string
}

// ContextSnapshot is a point-in-time copy of a session context's fields.
type ContextSnapshot struct {
	RoomName      string
	SessionID     string
	CustomerEmail string
	Language      string
}

// NewSessionContext creates a context bound to a room. Identity and language
// start unset; the binder and relay fill them in as the backend responds.
func NewSessionContext(roomName string) *SessionContext {
	return &SessionContext{roomName: roomName}
}

// RoomName returns the stable room key. It never changes after creation.
func (c *SessionContext) RoomName() string {
	return c.roomName
}

// SetLanguage records a detected-language hint. The last detected language
// always wins; there is no blending with earlier hints.
func (c *SessionContext) SetLanguage(language string) {
	if language == "" {
		return
	}
	c.mu.Lock()
	c.language = language
	c.mu.Unlock()
}

// SetIdentity merges backend-supplied session identity into the context.
// The backend is authoritative once it responds, so non-empty values
// overwrite; empty values never clear what is already known.
func (c *SessionContext) SetIdentity(sessionID, customerEmail string) {
	c.mu.Lock()
	if sessionID != "" {
		c.sessionID = sessionID
	}
	if customerEmail != "" {
		c.customerEmail = customerEmail
	}
	c.mu.Unlock()
}

// Snapshot returns a consistent copy of the context fields.
func (c *SessionContext) Snapshot() ContextSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ContextSnapshot{
		RoomName:      c.roomName,
		SessionID:     c.sessionID,
		CustomerEmail: c.customerEmail,
		Language:      c.language,
	}
}
