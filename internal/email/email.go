// Package email sends transactional mail, either through the Resend HTTP API
// or a plain SMTP relay.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"
	"time"

	"github.com/homestead/homestead-go/internal/config"
)

const resendEndpoint = "https://api.resend.com/emails"

// Mailer dispatches login emails.
type Mailer struct {
	cfg    config.EmailConfig
	client *http.Client
}

// NewMailer creates a Mailer from the email configuration.
func NewMailer(cfg config.EmailConfig) *Mailer {
	return &Mailer{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// SendMagicLink emails the login link to the given address.
func (m *Mailer) SendMagicLink(ctx context.Context, to, link string) error {
	subject := "Your login link"
	html := fmt.Sprintf(
		`<p>Here's your magic link to log in:</p>`+
			`<p><a href="%s">Click here to log in</a></p>`+
			`<p>If you did not request this link, you can safely ignore this email.</p>`,
		link,
	)

	if m.cfg.SMTPEnabled {
		return m.sendViaSMTP(to, subject, html)
	}
	return m.sendViaResend(ctx, to, subject, html)
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *Mailer) sendViaResend(ctx context.Context, to, subject, html string) error {
	body := resendRequest{
		From:    m.cfg.FromAddress,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.cfg.ResendAPIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("resend API error: status %d", resp.StatusCode)
	}

	return nil
}

func (m *Mailer) sendViaSMTP(to, subject, html string) error {
	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort

	msg := "From: " + m.cfg.FromAddress + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		html

	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.FromAddress, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
