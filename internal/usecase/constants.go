package usecase

import "time"

const (
	// DefaultStoreTimeout bounds each use case's round trips to the stores.
	DefaultStoreTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// settleLockPrefix namespaces the per-initiator settlement lock.
	settleLockPrefix = "settle"
)

// SettleLockKey is the lock taken around balances, plan and record for one
// initiator in one group.
func SettleLockKey(groupID, initiatorID string) string {
	return settleLockPrefix + ":" + groupID + ":" + initiatorID
}
