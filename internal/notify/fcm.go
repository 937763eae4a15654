package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"taskpulse/internal/model"
	"taskpulse/internal/sweep"
)

const (
	fcmScope    = "https://www.googleapis.com/auth/firebase.messaging"
	fcmEndpoint = "https://fcm.googleapis.com/v1/projects/%s/messages:send"

	// fcmTitle is the push notification heading shown on the device.
	fcmTitle = "タスクリマインダー"
)

// FCMSender delivers reminders through the FCM HTTP v1 API. Authentication
// uses a Firebase service-account key; token refresh is handled by the
// oauth2 token source.
type FCMSender struct {
	endpoint string
	client   *http.Client
}

// NewFCMSender builds a sender from the raw service-account JSON key. The
// projectID names the Firebase project the device tokens belong to.
func NewFCMSender(ctx context.Context, serviceAccountJSON []byte, projectID string) (*FCMSender, error) {
	if projectID == "" {
		return nil, errors.New("notify: fcm project id is required")
	}
	cfg, err := google.JWTConfigFromJSON(serviceAccountJSON, fcmScope)
	if err != nil {
		return nil, fmt.Errorf("notify: parse service account: %w", err)
	}
	client := oauth2.NewClient(ctx, cfg.TokenSource(ctx))
	client.Timeout = defaultTimeout
	return &FCMSender{
		endpoint: fmt.Sprintf(fcmEndpoint, projectID),
		client:   client,
	}, nil
}

// newFCMSenderForTest bypasses the oauth2 handshake so tests can point the
// sender at a local server.
func newFCMSenderForTest(endpoint string, client *http.Client) *FCMSender {
	return &FCMSender{endpoint: endpoint, client: client}
}

type fcmMessage struct {
	Message struct {
		Token        string            `json:"token"`
		Notification fcmNotification   `json:"notification"`
		Data         map[string]string `json:"data,omitempty"`
	} `json:"message"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (s *FCMSender) Send(ctx context.Context, target model.NotificationTarget, msg sweep.Message) error {
	if target.Kind != model.TargetKindFCM {
		return fmt.Errorf("%w: %s", ErrWrongTargetKind, target.Kind)
	}

	var payload fcmMessage
	payload.Message.Token = target.Address
	payload.Message.Notification = fcmNotification{Title: fcmTitle, Body: msg.Body}
	payload.Message.Data = map[string]string{
		"taskId":   msg.TaskID,
		"priority": strconv.FormatFloat(msg.Priority, 'f', 2, 64),
	}
	if msg.Remaining != "" {
		payload.Message.Data["remaining"] = msg.Remaining
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: marshal fcm payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: build fcm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: post fcm message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notify: fcm returned status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
