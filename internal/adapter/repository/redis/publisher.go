package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/splitledger/internal/domain"
)

// DefaultNotificationChannel is the pub/sub channel for relayed outbox events.
const DefaultNotificationChannel = "splitledger:notifications"

// Publisher publishes outbox events on a Redis pub/sub channel.
type Publisher struct {
	client  redis.UniversalClient
	channel string
}

// NewPublisher creates a Publisher. An empty channel uses DefaultNotificationChannel.
func NewPublisher(client redis.UniversalClient, channel string) *Publisher {
	if channel == "" {
		channel = DefaultNotificationChannel
	}
	return &Publisher{client: client, channel: channel}
}

// Message is the wire form of a published event.
type Message struct {
	ID            string         `json:"id"`
	EventType     string         `json:"event_type"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id"`
	Payload       map[string]any `json:"payload"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Publish sends the event. Delivery is at-least-once; subscribers dedupe on ID.
func (p *Publisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	body, err := json.Marshal(Message{
		ID:            event.ID,
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Payload:       event.Payload,
		CreatedAt:     event.CreatedAt.UTC(),
	})
	if err != nil {
		return err
	}

	return p.client.Publish(ctx, p.channel, body).Err()
}
