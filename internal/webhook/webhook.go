// Package webhook delivers confirmed offers to an external sink.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrNotConfigured is returned when no webhook URL is set.
var ErrNotConfigured = errors.New("webhook not configured")

// Payload is the flattened offer handed to the sink.
type Payload struct {
	BusinessName     string    `json:"businessName"`
	ClientRequest    string    `json:"clientRequest"`
	Subject          string    `json:"emailSubject"`
	Body             string    `json:"emailBody"`
	RenderedDocument string    `json:"htmlContent,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// StatusError reports a non-2xx answer from the sink.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook returned %d: %s", e.StatusCode, e.Body)
}

type Sender struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

func NewSender(url string, logger *slog.Logger) *Sender {
	return &Sender{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

// Configured reports whether Send can deliver anything.
func (s *Sender) Configured() bool { return s != nil && s.url != "" }

// Send posts p once. Failures are returned to the caller, never retried.
func (s *Sender) Send(ctx context.Context, p Payload) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC()
	}

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	s.logger.Info("offer sent to webhook", "subject_len", len(p.Subject), "rendered", p.RenderedDocument != "")
	return nil
}
