package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Mailer sends transactional mail through the mail-service HTTP API.
// Callers treat sends as fire-and-forget: a failed send is logged, never
// propagated into the triggering transaction.
type Mailer struct {
	cfg        MailerConfig
	httpClient *http.Client
}

type MailerConfig struct {
	BaseURL string
	APIKey  string
	From    string
	Timeout time.Duration
}

type sendMailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func NewMailer(cfg MailerConfig) *Mailer {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Mailer{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SendBookingConfirmation mails the confirmation for a paid booking.
func (m *Mailer) SendBookingConfirmation(ctx context.Context, to string, bookingID, amount int64) error {
	req := sendMailRequest{
		From:    m.cfg.From,
		To:      to,
		Subject: fmt.Sprintf("Booking #%d confirmed", bookingID),
		Body: fmt.Sprintf(
			"Your booking #%d is confirmed. Amount paid: %d VND. Thank you for travelling with us.",
			bookingID, amount),
	}

	return m.send(ctx, req)
}

func (m *Mailer) send(ctx context.Context, mail sendMailRequest) error {
	jsonBody, err := json.Marshal(mail)
	if err != nil {
		return fmt.Errorf("failed to marshal mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL+"/v1/messages", bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mail service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail service returned status %d", resp.StatusCode)
	}
	return nil
}
