package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"taskpulse/internal/model"
	"taskpulse/internal/sweep"
)

var ErrWrongTargetKind = errors.New("notify: wrong target kind")

const defaultTimeout = 10 * time.Second

// WebhookSender posts a reminder as a Discord-compatible JSON payload to
// the target URL.
type WebhookSender struct {
	client *http.Client
}

func NewWebhookSender(client *http.Client) *WebhookSender {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &WebhookSender{client: client}
}

type webhookPayload struct {
	Content string `json:"content"`
}

func (s *WebhookSender) Send(ctx context.Context, target model.NotificationTarget, msg sweep.Message) error {
	if target.Kind != model.TargetKindWebhook {
		return fmt.Errorf("%w: %s", ErrWrongTargetKind, target.Kind)
	}

	body, err := json.Marshal(webhookPayload{Content: renderWebhookContent(msg)})
	if err != nil {
		return fmt.Errorf("notify: marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.Address, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notify: webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func renderWebhookContent(msg sweep.Message) string {
	line := fmt.Sprintf("Task: %s | Priority: %.2f", msg.Title, msg.Priority)
	if msg.Remaining != "" {
		line += " | Remaining: " + msg.Remaining
	}
	return line + "\n" + msg.Body
}
