package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"

	redisRepo "github.com/iho/splitledger/internal/adapter/repository/redis"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/eventpublisher"
	"github.com/iho/splitledger/internal/usecase"
	"github.com/iho/splitledger/tests/testutil"
)

func TestOutboxRelayPublishesPaymentDue(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	app := testutil.NewApp(t, testDB)
	group, ids := app.CreateTestGroup(ctx, t, "Relay", "alice", "bob")
	app.AddTestExpense(ctx, t, group.ID, ids["alice"], "20.00", "USD")

	sub := app.Redis.Subscribe(ctx, redisRepo.DefaultNotificationChannel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	result, err := app.Settlements.Settle(ctx, usecase.SettleInput{
		GroupID:     group.ID,
		InitiatorID: ids["bob"],
		Scope:       domain.IndividualScope(ids["bob"]),
	})
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}

	relay := eventpublisher.NewEventPublisher(eventpublisher.Config{
		Outbox:    app.Outbox,
		Publisher: redisRepo.NewPublisher(app.Redis, ""),
		Logger:    zerolog.Nop(),
		BatchSize: 10,
		Interval:  50 * time.Millisecond,
	})

	relayCtx, stopRelay := context.WithCancel(ctx)
	defer stopRelay()
	go relay.Start(relayCtx)

	select {
	case msg := <-sub.Channel():
		var m redisRepo.Message
		if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
			t.Fatalf("bad message: %v", err)
		}
		if m.EventType != domain.EventTypePaymentDue || m.AggregateID != result.Record.IdempotencyKey {
			t.Fatalf("unexpected message %+v", m)
		}
		if m.Payload["recipient_id"] != ids["alice"] || m.Payload["amount"] != "10.00" {
			t.Fatalf("unexpected payload %v", m.Payload)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for notification")
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		events, err := app.Outbox.GetUnpublished(ctx, 10)
		if err != nil {
			t.Fatalf("failed to read outbox: %v", err)
		}
		if len(events) == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected outbox to drain, %d events left", len(events))
		}
		time.Sleep(50 * time.Millisecond)
	}
}
