package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

type fixedIDs struct{ id string }

func (f fixedIDs) Generate() string { return f.id }

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type payloadArg struct {
	t    *testing.T
	want map[string]any
}

func (p payloadArg) Match(v any) bool {
	body, ok := v.([]byte)
	if !ok {
		return false
	}
	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		return false
	}
	for k, want := range p.want {
		if got[k] != want {
			p.t.Logf("payload %s: want %v, got %v", k, want, got[k])
			return false
		}
	}
	return true
}

func TestOutboxRepository_GetUnpublished(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery("name: GetUnpublishedEvents").WithArgs(int32(10)).WillReturnRows(
		pgxmock.NewRows([]string{"id", "aggregate_id", "aggregate_type", "event_type", "payload", "created_at", "published_at", "published"}).
			AddRow("evt-1", "key-1", "settlement", "settlement.payment_due", []byte(`{"amount":"30.00"}`), repoNow, nil, false),
	)

	repo := NewOutboxRepository(mockPool, fixedIDs{}, fixedClock{})
	events, err := repo.GetUnpublished(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].Payload["amount"] != "30.00" || events[0].PublishedAt != nil {
		t.Fatalf("unexpected events: %+v", events)
	}

	assertExpectations(t, mockPool)
}

func TestOutboxRepository_MarkPublished(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectExec("name: MarkEventPublished").WithArgs("evt-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewOutboxRepository(mockPool, fixedIDs{}, fixedClock{})
	if err := repo.MarkPublished(context.Background(), "evt-1", repoNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, mockPool)
}
