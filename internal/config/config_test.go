package config

import "testing"

func TestBackendURLPrecedence(t *testing.T) {
	t.Setenv("TRAVEL_BACKEND_URL", "")
	t.Setenv("BACKEND_API_URL", "")
	t.Setenv("BACKEND_URL", "")

	if got := BackendURL(); got != "http://localhost:8000" {
		t.Errorf("Expected default backend URL, got %s", got)
	}

	t.Setenv("BACKEND_URL", "http://c:1")
	if got := BackendURL(); got != "http://c:1" {
		t.Errorf("Expected BACKEND_URL fallback, got %s", got)
	}

	t.Setenv("BACKEND_API_URL", "http://b:1")
	if got := BackendURL(); got != "http://b:1" {
		t.Errorf("Expected BACKEND_API_URL to win over BACKEND_URL, got %s", got)
	}

	t.Setenv("TRAVEL_BACKEND_URL", "http://a:1")
	if got := BackendURL(); got != "http://a:1" {
		t.Errorf("Expected TRAVEL_BACKEND_URL to win, got %s", got)
	}
}

func TestServerAddress(t *testing.T) {
	t.Setenv("PORT", "")
	if got := ServerAddress(); got != ":8000" {
		t.Errorf("Expected default :8000, got %s", got)
	}

	t.Setenv("PORT", "9999")
	if got := ServerAddress(); got != ":9999" {
		t.Errorf("Expected :9999, got %s", got)
	}
}

func TestSMTPConfig(t *testing.T) {
	t.Setenv("SMTP_SERVER", "")
	t.Setenv("SMTP_PORT", "")
	t.Setenv("SMTP_USERNAME", "")
	t.Setenv("SMTP_PASSWORD", "")
	t.Setenv("SMTP_FROM_EMAIL", "")

	cfg := SMTPConfig()
	if cfg.Enabled() {
		t.Error("Expected SMTP disabled with empty settings")
	}
	if cfg.Port != "587" {
		t.Errorf("Expected default port 587, got %s", cfg.Port)
	}

	t.Setenv("SMTP_SERVER", "smtp.example.com")
	t.Setenv("SMTP_USERNAME", "mailer@example.com")
	t.Setenv("SMTP_PASSWORD", "secret")

	cfg = SMTPConfig()
	if !cfg.Enabled() {
		t.Error("Expected SMTP enabled")
	}
	if cfg.From != "mailer@example.com" {
		t.Errorf("Expected From to default to username, got %s", cfg.From)
	}
}
