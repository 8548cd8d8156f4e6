package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
)

// ExpenseUseCase is the ingestion boundary for expenses. Anything it
// accepts is safe to feed to the balance engine.
type ExpenseUseCase struct {
	groups   GroupStore
	expenses ExpenseStore
	idGen    IDGenerator
	clock    Clock
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewExpenseUseCase creates a new ExpenseUseCase.
func NewExpenseUseCase(
	groups GroupStore,
	expenses ExpenseStore,
	idGen IDGenerator,
	clock Clock,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *ExpenseUseCase {
	return &ExpenseUseCase{
		groups:   groups,
		expenses: expenses,
		idGen:    idGen,
		clock:    clock,
		metrics:  metrics,
		logger:   logger,
	}
}

// AddExpenseInput represents input for recording an expense.
// Amount is in currency units, e.g. 12.50 USD.
type AddExpenseInput struct {
	GroupID     string
	PayerID     string
	Amount      decimal.Decimal
	Currency    string
	Category    string
	Description string
	// ParticipantIDs selects an explicit split; empty means everyone
	// shares equally.
	ParticipantIDs []string
	Shares         map[string]decimal.Decimal
}

// AddExpense validates and records an expense.
func (uc *ExpenseUseCase) AddExpense(ctx context.Context, input AddExpenseInput) (*domain.Expense, error) {
	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}
	currency := domain.NormalizeCurrency(input.Currency)

	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	amount, err := domain.AmountFromDecimal(input.Amount, currency)
	if err != nil {
		return nil, err
	}

	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(input.Description)
	if err := domain.ValidateDescription(description); err != nil {
		return nil, err
	}

	split := domain.EqualSplit()
	if len(input.ParticipantIDs) > 0 || len(input.Shares) > 0 {
		split = domain.ExplicitSplit(dedupe(input.ParticipantIDs), input.Shares)
	}

	members, err := uc.groups.ListMembers(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}

	expense := &domain.Expense{
		ID:          uc.idGen.Generate(),
		GroupID:     input.GroupID,
		PayerID:     input.PayerID,
		Amount:      amount,
		Currency:    currency,
		Category:    category,
		Description: description,
		Split:       split,
		CreatedAt:   uc.clock.Now().UTC(),
	}

	// Amount may round to zero minor units, so validate after conversion.
	if err := expense.Validate(members); err != nil {
		return nil, err
	}

	if err := uc.expenses.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ExpensesCreated.WithLabelValues(string(splitKind(split))).Inc()
	}

	uc.logger.Debug().
		Str("group_id", expense.GroupID).
		Str("expense_id", expense.ID).
		Int64("amount_minor", int64(expense.Amount)).
		Str("currency", expense.Currency).
		Msg("expense recorded")

	return expense, nil
}

// ListExpensesInput represents input for listing expenses.
type ListExpensesInput struct {
	GroupID string
	Limit   int
	Offset  int
}

// ListExpenses lists a page of the group's expenses.
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context, input ListExpensesInput) ([]domain.Expense, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	if _, err := uc.groups.GetGroup(ctx, input.GroupID); err != nil {
		return nil, err
	}

	return uc.expenses.ListExpensesPage(ctx, input.GroupID, limit, offset)
}

func splitKind(s domain.SplitAssignment) domain.SplitKind {
	if s.IsExplicit() {
		return domain.SplitExplicit
	}
	return domain.SplitEqual
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
