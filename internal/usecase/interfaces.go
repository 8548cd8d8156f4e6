package usecase

import (
	"context"
	"time"

	"github.com/iho/splitledger/internal/domain"
)

// GroupStore defines data access for groups and their membership.
type GroupStore interface {
	CreateGroup(ctx context.Context, group *domain.Group) error
	GetGroup(ctx context.Context, id string) (*domain.Group, error)
	AddMember(ctx context.Context, member *domain.Member) error
	// ListMembers returns current members in the order they joined.
	ListMembers(ctx context.Context, groupID string) ([]domain.Member, error)
}

// ExpenseStore defines data access for expenses.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, expense *domain.Expense) error
	// ListExpenses returns every expense of the group.
	ListExpenses(ctx context.Context, groupID string) ([]domain.Expense, error)
	ListExpensesPage(ctx context.Context, groupID string, limit, offset int) ([]domain.Expense, error)
}

// SettlementStore defines data access for settlement records.
type SettlementStore interface {
	// Append stores the record at most once per idempotency key, together
	// with its notifications, atomically. It reports created=false when the
	// key already exists, in which case nothing is written.
	Append(ctx context.Context, record *domain.SettlementRecord, notifications []domain.Notification) (created bool, err error)
	GetByKey(ctx context.Context, idempotencyKey string) (*domain.SettlementRecord, error)
	ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.SettlementRecord, error)
}

// BalanceReader supplies balance sheets.
type BalanceReader interface {
	GetBalances(ctx context.Context, groupID string) (*domain.BalanceSheet, error)
}

// Locker serializes work under a key. fn runs only while the lock is held.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
