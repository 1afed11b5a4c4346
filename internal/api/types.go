package api

// TokenRequest asks for a room access token for one participant.
type TokenRequest struct {
	RoomName        string `json:"roomName"`
	ParticipantName string `json:"participantName"`
	CustomerEmail   string `json:"customer_email,omitempty"`
	Language        string `json:"language,omitempty"`
}

// TokenResponse carries the signed token and the engine URL to dial.
type TokenResponse struct {
	Token     string `json:"token"`
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

// SessionInfoResponse is the session record bound to a room.
type SessionInfoResponse struct {
	SessionID     string          `json:"session_id"`
	RoomName      string          `json:"room_name"`
	CustomerEmail string          `json:"customer_email"`
	Status        string          `json:"status"`
	Metadata      SessionMetadata `json:"metadata"`
}

// SessionMetadata mirrors the session-level hints stored at grant time.
type SessionMetadata struct {
	Language string `json:"language"`
}

// TranscriptRequest is one relayed utterance from the voice agent.
type TranscriptRequest struct {
	RoomName      string `json:"room_name"`
	SessionID     string `json:"session_id,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	Speaker       string `json:"speaker"`
	Text          string `json:"text"`
	Language      string `json:"language,omitempty"`
	Timestamp     string `json:"timestamp,omitempty"`
}

// TranscriptResponse echoes the authoritative identity the utterance was
// stored under.
type TranscriptResponse struct {
	Status        string `json:"status"`
	SessionID     string `json:"session_id,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

// RegisterRequest creates a customer account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest authenticates a customer.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned after register or login.
type AuthResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// BookingRequest creates a travel booking.
type BookingRequest struct {
	CustomerEmail   string `json:"customer_email"`
	ServiceType     string `json:"service_type"`
	Destination     string `json:"destination"`
	DepartureDate   string `json:"departure_date"`
	ReturnDate      string `json:"return_date,omitempty"`
	NumTravelers    int    `json:"num_travelers"`
	ServiceDetails  string `json:"service_details,omitempty"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

// RescheduleRequest moves a booking to new dates.
type RescheduleRequest struct {
	CustomerEmail string `json:"customer_email"`
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date,omitempty"`
}

// CancelRequest identifies the booking owner for a cancellation.
type CancelRequest struct {
	CustomerEmail string `json:"customer_email"`
}

// ChatRequest is a text chat message to the assistant.
type ChatRequest struct {
	Text          string `json:"text"`
	SessionID     string `json:"session_id,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	Language      string `json:"language,omitempty"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Response string `json:"response"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
