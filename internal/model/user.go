package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidTargetKind = errors.New("model: invalid notification target kind")

type TargetKind string

const (
	TargetKindWebhook TargetKind = "webhook"
	TargetKindFCM     TargetKind = "fcm"
)

func (k TargetKind) IsValid() bool {
	switch k {
	case TargetKindWebhook, TargetKindFCM:
		return true
	default:
		return false
	}
}

// NotificationTarget is one resolved delivery endpoint for a user. Address is
// a webhook URL for TargetKindWebhook and a device token for TargetKindFCM.
type NotificationTarget struct {
	Kind    TargetKind
	Address string
}

func (t NotificationTarget) Validate() error {
	if !t.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTargetKind, t.Kind)
	}
	if strings.TrimSpace(t.Address) == "" {
		return errors.New("model: notification target address is required")
	}
	return nil
}

// User owns tasks and carries notification settings. NotifyEvery is an
// optional minimum interval between reminder batches for the user; zero
// means every sweep may notify.
type User struct {
	Username             string
	WebhookURL           string
	FCMToken             string
	NotificationsEnabled bool
	NotifyEvery          time.Duration
	LastNotifiedAt       *time.Time
	CreatedAt            time.Time
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return errors.New("model: username is required")
	}
	if u.CreatedAt.IsZero() {
		return errors.New("model: user created_at is required")
	}
	if u.NotifyEvery < 0 {
		return errors.New("model: notify_every must not be negative")
	}
	return nil
}

// Target picks the delivery endpoint for the user. Device tokens win over
// webhooks when both are registered, matching how the mobile client is the
// primary reminder channel. Returns false when the user has notifications
// disabled or no endpoint registered.
func (u User) Target() (NotificationTarget, bool) {
	if !u.NotificationsEnabled {
		return NotificationTarget{}, false
	}
	if strings.TrimSpace(u.FCMToken) != "" {
		return NotificationTarget{Kind: TargetKindFCM, Address: u.FCMToken}, true
	}
	if strings.TrimSpace(u.WebhookURL) != "" {
		return NotificationTarget{Kind: TargetKindWebhook, Address: u.WebhookURL}, true
	}
	return NotificationTarget{}, false
}
