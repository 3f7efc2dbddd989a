package events

import (
	"context"
	"time"
)

const (
	TopicCart   = "cart_events"
	TopicOrder  = "order_events"
	TopicReview = "review_events"
)

// Event is the envelope written to every topic. Payload is marshalled as-is.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func New(typ string, payload any) Event {
	return Event{Type: typ, OccurredAt: time.Now().UTC(), Payload: payload}
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, ev Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, string, string, Event) error { return nil }
