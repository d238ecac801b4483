// Package mailer delivers contact-form messages through a transactional
// email HTTP API (Brevo-compatible). Delivery is best effort: the
// contact page stores nothing, so a failed send is logged and surfaced
// to the visitor.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint is the Brevo transactional email endpoint.
const DefaultEndpoint = "https://api.brevo.com/v3/smtp/email"

// Config holds mailer settings.
type Config struct {
	APIKey   string
	Endpoint string
	From     string
	FromName string
	To       string
}

// Mailer sends transactional email over HTTPS.
type Mailer struct {
	cfg    Config
	client *http.Client
}

// New creates a mailer. A mailer with an empty API key is disabled.
func New(cfg Config) *Mailer {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &Mailer{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether the mailer is configured for delivery.
func (m *Mailer) Enabled() bool {
	return m != nil && m.cfg.APIKey != "" && m.cfg.To != ""
}

// ContactMessage is a submitted contact form.
type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Body    string
}

// SendContact forwards a contact-form submission to the configured
// recipient, with the visitor as reply-to.
func (m *Mailer) SendContact(ctx context.Context, msg ContactMessage) error {
	if !m.Enabled() {
		return fmt.Errorf("mailer is not configured")
	}

	subject := strings.TrimSpace(msg.Subject)
	if subject == "" {
		subject = "Contact form message"
	}

	payload := map[string]any{
		"sender": map[string]string{
			"email": m.cfg.From,
			"name":  m.cfg.FromName,
		},
		"to": []map[string]string{
			{"email": m.cfg.To},
		},
		"replyTo": map[string]string{
			"email": msg.Email,
			"name":  msg.Name,
		},
		"subject": subject,
		"htmlContent": fmt.Sprintf(
			"<p><strong>%s</strong> &lt;%s&gt; wrote:</p><p>%s</p>",
			html.EscapeString(msg.Name),
			html.EscapeString(msg.Email),
			strings.ReplaceAll(html.EscapeString(msg.Body), "\n", "<br>"),
		),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("mailer marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mailer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", m.cfg.APIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mailer call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mailer status %d: %s", resp.StatusCode, respBody)
	}
	return nil
}
