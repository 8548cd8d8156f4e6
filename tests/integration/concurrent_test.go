package integration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
	"github.com/iho/splitledger/tests/testutil"
)

func TestConcurrentSettle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	t.Run("same initiator records once", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		app := testutil.NewApp(t, testDB)
		group, ids := app.CreateTestGroup(ctx, t, "Concurrent", "alice", "bob", "carol", "dave")
		app.AddTestExpense(ctx, t, group.ID, ids["alice"], "100.00", "USD")
		app.AddTestExpense(ctx, t, group.ID, ids["bob"], "40.00", "USD")

		const workers = 20
		var (
			wg       sync.WaitGroup
			created  atomic.Int32
			replayed atomic.Int32
			busy     atomic.Int32
			failed   atomic.Int32
		)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()

				result, err := app.Settlements.Settle(ctx, usecase.SettleInput{
					GroupID:     group.ID,
					InitiatorID: ids["carol"],
					Scope:       domain.IndividualScope(ids["carol"]),
				})
				switch {
				case errors.Is(err, domain.ErrLockNotAcquired):
					busy.Add(1)
				case err != nil:
					failed.Add(1)
					t.Errorf("unexpected error: %v", err)
				case result.AlreadyRecorded:
					replayed.Add(1)
				default:
					created.Add(1)
				}
			}()
		}

		wg.Wait()

		if created.Load() != 1 {
			t.Fatalf("expected exactly one new record, got %d (replayed %d, busy %d, failed %d)",
				created.Load(), replayed.Load(), busy.Load(), failed.Load())
		}

		records, err := app.Settlements.ListSettlements(ctx, usecase.ListSettlementsInput{GroupID: group.ID})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected one stored record, got %d", len(records))
		}

		events, err := app.Outbox.GetUnpublished(ctx, 100)
		if err != nil {
			t.Fatalf("failed to read outbox: %v", err)
		}
		// carol owes alice and bob; only the first record notifies
		if len(events) != 2 {
			t.Fatalf("expected 2 notifications, got %d", len(events))
		}
	})

	t.Run("different initiators run in parallel", func(t *testing.T) {
		testDB.TruncateAll(ctx)

		app := testutil.NewApp(t, testDB)
		group, ids := app.CreateTestGroup(ctx, t, "Parallel", "alice", "bob", "carol")
		app.AddTestExpense(ctx, t, group.ID, ids["alice"], "90.00", "USD")

		var wg sync.WaitGroup
		errs := make(chan error, 2)
		for _, name := range []string{"bob", "carol"} {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, err := app.Settlements.Settle(ctx, usecase.SettleInput{
					GroupID:     group.ID,
					InitiatorID: id,
					Scope:       domain.IndividualScope(id),
				})
				errs <- err
			}(ids[name])
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			if err != nil {
				t.Fatalf("settle failed: %v", err)
			}
		}

		records, err := app.Settlements.ListSettlements(ctx, usecase.ListSettlementsInput{GroupID: group.ID})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected two records, got %d", len(records))
		}
	})
}
