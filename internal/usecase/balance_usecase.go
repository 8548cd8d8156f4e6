package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/engine"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
)

// BalanceUseCase computes balance sheets from the stored expense history.
// Nothing is cached: every call recomputes from a fresh read.
type BalanceUseCase struct {
	groups   GroupStore
	expenses ExpenseStore
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(groups GroupStore, expenses ExpenseStore, metrics *metrics.Metrics, logger zerolog.Logger) *BalanceUseCase {
	return &BalanceUseCase{
		groups:   groups,
		expenses: expenses,
		metrics:  metrics,
		logger:   logger,
	}
}

// GetBalances returns the group's per-member, per-currency balance sheet.
// Expenses none of whose participants remain in the group are listed in
// the sheet's Unattributable field rather than failing the call.
func (uc *BalanceUseCase) GetBalances(ctx context.Context, groupID string) (*domain.BalanceSheet, error) {
	start := time.Now()

	members, expenses, err := uc.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}

	sheet := engine.Aggregate(groupID, expenses, members)

	if n := len(sheet.Unattributable); n > 0 {
		uc.logger.Warn().
			Str("group_id", groupID).
			Strs("expense_ids", sheet.Unattributable).
			Msg("expenses without remaining participants")
		if uc.metrics != nil {
			uc.metrics.UnattributableExpenses.Add(float64(n))
		}
	}

	if uc.metrics != nil {
		uc.metrics.BalancesComputed.Inc()
		uc.metrics.BalanceDuration.Observe(time.Since(start).Seconds())
	}

	return sheet, nil
}

// GetSpending totals the group's expenses by currency and category.
func (uc *BalanceUseCase) GetSpending(ctx context.Context, groupID string) ([]engine.SpendingTotal, error) {
	_, expenses, err := uc.snapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return engine.Summarize(expenses), nil
}

func (uc *BalanceUseCase) snapshot(ctx context.Context, groupID string) ([]domain.Member, []domain.Expense, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultStoreTimeout)
	defer cancel()

	members, err := uc.groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	expenses, err := uc.expenses.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	return members, expenses, nil
}
