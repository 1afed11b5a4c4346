// Package config reads process configuration from the environment. Values
// come from the environment directly; main loads a .env file first when one
// exists.
package config

import "os"

// ServerAddress is the listen address of the backend HTTP server.
func ServerAddress() string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return ":8000"
}

// BackendURL is the base URL the voice agent posts transcripts to. Several
// names are accepted because deployments have used all of them.
func BackendURL() string {
	for _, key := range []string{"TRAVEL_BACKEND_URL", "BACKEND_API_URL", "BACKEND_URL"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return "http://localhost:8000"
}

// EngineURL is the voice engine endpoint handed to media clients and dialed
// by the agent for room events.
func EngineURL() string {
	if v := os.Getenv("LIVEKIT_URL"); v != "" {
		return v
	}
	return "ws://localhost:7880"
}

// EngineAPIKey is the credential pair identifier shared with the voice engine.
func EngineAPIKey() string {
	if v := os.Getenv("LIVEKIT_API_KEY"); v != "" {
		return v
	}
	return "devkey"
}

// EngineAPISecret signs room access tokens; the engine verifies them with
// the same secret.
func EngineAPISecret() string {
	if v := os.Getenv("LIVEKIT_API_SECRET"); v != "" {
		return v
	}
	return "devsecret"
}

// SMTP carries mail delivery settings. Host empty means mail is disabled.
type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMTPConfig reads mail settings. The zero Host disables sending.
func SMTPConfig() SMTP {
	cfg := SMTP{
		Host:     os.Getenv("SMTP_SERVER"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM_EMAIL"),
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return cfg
}

// Enabled reports whether mail can actually be sent.
func (s SMTP) Enabled() bool {
	return s.Host != "" && s.Username != "" && s.Password != ""
}
