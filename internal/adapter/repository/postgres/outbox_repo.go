package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/postgres/generated"
	"github.com/iho/splitledger/internal/usecase"
)

// OutboxRepository stores pending notifications for the relay. Payment-due
// events are written by SettlementRepository.Append in the same transaction
// as the settlement they belong to.
type OutboxRepository struct {
	queries *generated.Queries
	idGen   usecase.IDGenerator
	clock   usecase.Clock
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(db DB, idGen usecase.IDGenerator, clock usecase.Clock) *OutboxRepository {
	return &OutboxRepository{
		queries: generated.New(db),
		idGen:   idGen,
		clock:   clock,
	}
}

// paymentDue builds the outbox event for one notification.
func (r *OutboxRepository) paymentDue(n domain.Notification) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            r.idGen.Generate(),
		AggregateID:   n.SettlementKey,
		AggregateType: domain.AggregateTypeSettlement,
		EventType:     domain.EventTypePaymentDue,
		Payload:       domain.NewPaymentDueEvent(n).Map(),
		CreatedAt:     r.clock.Now().UTC(),
	}
}

func createOutboxEvent(ctx context.Context, q *generated.Queries, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	return q.CreateOutboxEvent(ctx, generated.CreateOutboxEventParams{
		ID:            event.ID,
		AggregateID:   event.AggregateID,
		AggregateType: event.AggregateType,
		EventType:     event.EventType,
		Payload:       payload,
		CreatedAt:     timeToPgTimestamptz(event.CreatedAt),
		Published:     event.Published,
	})
}

// GetUnpublished retrieves unpublished events, oldest first.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	rows, err := r.queries.GetUnpublishedEvents(ctx, int32(limit))
	if err != nil {
		return nil, err
	}

	events := make([]*domain.OutboxEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, rowToOutboxEvent(row))
	}

	return events, nil
}

// MarkPublished marks an event as published.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	return r.queries.MarkEventPublished(ctx, generated.MarkEventPublishedParams{
		ID:          id,
		PublishedAt: timeToPgTimestamptz(publishedAt),
	})
}

// DeletePublished deletes published events older than the given time.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	return r.queries.DeletePublishedEvents(ctx, timeToPgTimestamptz(before))
}

func rowToOutboxEvent(row generated.OutboxEvent) *domain.OutboxEvent {
	var payload map[string]any
	if row.Payload != nil {
		_ = json.Unmarshal(row.Payload, &payload)
	}

	var publishedAt *time.Time
	if row.PublishedAt.Valid {
		t := row.PublishedAt.Time
		publishedAt = &t
	}

	return &domain.OutboxEvent{
		ID:            row.ID,
		AggregateID:   row.AggregateID,
		AggregateType: row.AggregateType,
		EventType:     row.EventType,
		Payload:       payload,
		CreatedAt:     row.CreatedAt.Time,
		PublishedAt:   publishedAt,
		Published:     row.Published,
	}
}
