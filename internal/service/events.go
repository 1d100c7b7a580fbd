package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/dojo_backoffice/internal/logging"
)

const (
	EventUserCreated  = "user_created"
	EventUserLoggedIn = "user_logged_in"
	EventUserUpdated  = "user_updated"
	EventUserDeleted  = "user_deleted"
)

// Publisher is satisfied by *mykafka.Producer and mykafka.Nop.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// AccountEvent never carries secrets: no password, hash or token.
type AccountEvent struct {
	Type       string    `json:"type"`
	AccountID  string    `json:"account_id"`
	Username   string    `json:"username,omitempty"`
	Role       string    `json:"role,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type events struct {
	pub   Publisher
	topic string
}

// publish is best effort; a broker failure never fails the request.
func (e events) publish(ctx context.Context, ev AccountEvent) {
	if e.pub == nil {
		return
	}
	if err := e.pub.PublishEvent(ctx, e.topic, ev.AccountID, ev); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "event", ev.Type, "error", err)
	}
}
