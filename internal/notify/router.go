package notify

import (
	"context"
	"fmt"

	"taskpulse/internal/model"
	"taskpulse/internal/sweep"
)

// Router dispatches a message to the sender matching the target kind.
// Senders left nil make their kind unroutable, which surfaces as a send
// failure on the sweep report rather than a crash.
type Router struct {
	Webhook sweep.Sender
	FCM     sweep.Sender
}

func (r *Router) Send(ctx context.Context, target model.NotificationTarget, msg sweep.Message) error {
	var sender sweep.Sender
	switch target.Kind {
	case model.TargetKindWebhook:
		sender = r.Webhook
	case model.TargetKindFCM:
		sender = r.FCM
	}
	if sender == nil {
		return fmt.Errorf("notify: no sender configured for target kind %q", target.Kind)
	}
	return sender.Send(ctx, target, msg)
}
