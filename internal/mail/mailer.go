// Package mail sends customer notifications over SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/attartravel/concierge/domain/entities"
	"github.com/attartravel/concierge/internal/config"
)

// Mailer sends booking confirmations. When SMTP is not configured it logs
// the confirmation instead of sending, so bookings never depend on mail.
type Mailer struct {
	cfg    config.SMTP
	logger *zap.Logger
}

// NewMailer creates a mailer from SMTP settings.
func NewMailer(cfg config.SMTP, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// SendBookingConfirmation renders and sends the confirmation email.
func (m *Mailer) SendBookingConfirmation(ctx context.Context, customerEmail string, booking *entities.Booking) error {
	subject := "Travel Booking Confirmation - Attar Travel"

	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, booking); err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}

	if !m.cfg.Enabled() {
		m.logger.Info("Booking confirmation prepared (SMTP not configured, not sent)",
			zap.String("to", customerEmail),
			zap.String("bookingID", booking.ID),
			zap.Float64("totalAmount", booking.TotalAmount))
		return nil
	}

	msg := buildMessage(m.cfg.From, customerEmail, subject, body.String())

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{customerEmail}, msg); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	m.logger.Info("Booking confirmation email sent",
		zap.String("to", customerEmail),
		zap.String("bookingID", booking.ID))
	return nil
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="background: #1e40af; padding: 30px; text-align: center;">
    <h1 style="color: white; margin: 0;">ATTAR TRAVEL</h1>
    <p style="color: white; margin: 5px 0;">Travel Booking Confirmation</p>
  </div>
  <div style="padding: 30px; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #1e40af;">Dear Valued Customer,</h2>
    <p>Your travel booking with <strong>Attar Travel</strong> has been <strong style="color: #059669;">CONFIRMED</strong>!</p>
    <table style="width: 100%; border-collapse: collapse;">
      <tr><td style="padding: 8px 0; font-weight: bold;">Booking ID:</td><td style="padding: 8px 0; color: #1e40af;">#{{.ID}}</td></tr>
      <tr><td style="padding: 8px 0; font-weight: bold;">Service Type:</td><td style="padding: 8px 0;">{{.ServiceType}}</td></tr>
      <tr><td style="padding: 8px 0; font-weight: bold;">Destination:</td><td style="padding: 8px 0;">{{.Destination}}</td></tr>
      <tr><td style="padding: 8px 0; font-weight: bold;">Departure Date:</td><td style="padding: 8px 0;">{{.DepartureDate}}</td></tr>
      {{if .ReturnDate}}<tr><td style="padding: 8px 0; font-weight: bold;">Return Date:</td><td style="padding: 8px 0;">{{.ReturnDate}}</td></tr>{{end}}
      <tr><td style="padding: 8px 0; font-weight: bold;">Number of Travelers:</td><td style="padding: 8px 0;">{{.NumTravelers}}</td></tr>
      <tr><td style="padding: 12px 0; font-weight: bold;">Total Amount:</td><td style="padding: 12px 0; color: #1e40af; font-weight: bold;">&#8377;{{printf "%.2f" .TotalAmount}}</td></tr>
      <tr><td style="padding: 8px 0; font-weight: bold;">Status:</td><td style="padding: 8px 0; color: #059669; text-transform: uppercase;">{{.Status}}</td></tr>
    </table>
    <h4 style="color: #0c4a6e;">Next Steps:</h4>
    <ul style="color: #0c4a6e;">
      <li>Payment details will be sent separately</li>
      <li>Travel documents will be provided 24-48 hours before departure</li>
      <li>Contact us for any special requests or modifications</li>
    </ul>
    <p>We look forward to making your travel dreams come true with <strong>Attar Travel</strong>!</p>
    <p style="color: #6b7280;">Happy Travels!<br>Alex &amp; Attar Travel Team</p>
  </div>
</body>
</html>`))
