package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/postgres/generated"
)

// ExpenseRepository implements usecase.ExpenseStore. Participants of an
// explicit split live in expense_participants, one row per member.
type ExpenseRepository struct {
	queries *generated.Queries
	tx      *TxManager
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(db DB) *ExpenseRepository {
	return &ExpenseRepository{
		queries: generated.New(db),
		tx:      NewTxManager(db),
	}
}

// CreateExpense stores the expense and its participants atomically.
func (r *ExpenseRepository) CreateExpense(ctx context.Context, expense *domain.Expense) error {
	kind := expense.Split.Kind
	if kind == "" {
		kind = domain.SplitEqual
	}

	err := r.tx.InTx(ctx, func(q *generated.Queries) error {
		if err := q.CreateExpense(ctx, generated.CreateExpenseParams{
			ID:          expense.ID,
			GroupID:     expense.GroupID,
			PayerID:     expense.PayerID,
			AmountMinor: int64(expense.Amount),
			Currency:    expense.Currency,
			Category:    string(expense.Category),
			Description: expense.Description,
			SplitKind:   string(kind),
			CreatedAt:   timeToPgTimestamptz(expense.CreatedAt),
		}); err != nil {
			return err
		}

		for i, memberID := range expense.Split.ParticipantIDs {
			var weight pgtype.Numeric
			if w, ok := expense.Split.Shares[memberID]; ok {
				weight = decimalToNumeric(w)
			}
			if err := q.CreateExpenseParticipant(ctx, generated.CreateExpenseParticipantParams{
				ExpenseID: expense.ID,
				MemberID:  memberID,
				Position:  int32(i),
				Weight:    weight,
			}); err != nil {
				return err
			}
		}

		return nil
	})
	if isForeignKeyViolation(err) {
		return domain.ErrGroupNotFound
	}

	return err
}

// ListExpenses returns every expense of the group in creation order.
func (r *ExpenseRepository) ListExpenses(ctx context.Context, groupID string) ([]domain.Expense, error) {
	rows, err := r.queries.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return r.withParticipants(ctx, rows)
}

// ListExpensesPage returns one page of the group's expenses.
func (r *ExpenseRepository) ListExpensesPage(ctx context.Context, groupID string, limit, offset int) ([]domain.Expense, error) {
	rows, err := r.queries.ListExpensesByGroupPage(ctx, generated.ListExpensesByGroupPageParams{
		GroupID: groupID,
		Limit:   int32(limit),
		Offset:  int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return r.withParticipants(ctx, rows)
}

func (r *ExpenseRepository) withParticipants(ctx context.Context, rows []generated.Expense) ([]domain.Expense, error) {
	expenses := make([]domain.Expense, 0, len(rows))
	var explicitIDs []string
	for _, row := range rows {
		expenses = append(expenses, rowToExpense(row))
		if domain.SplitKind(row.SplitKind) == domain.SplitExplicit {
			explicitIDs = append(explicitIDs, row.ID)
		}
	}

	if len(explicitIDs) == 0 {
		return expenses, nil
	}

	participants, err := r.queries.ListParticipantsByExpenseIDs(ctx, explicitIDs)
	if err != nil {
		return nil, err
	}

	byExpense := make(map[string][]generated.ExpenseParticipant, len(explicitIDs))
	for _, p := range participants {
		byExpense[p.ExpenseID] = append(byExpense[p.ExpenseID], p)
	}

	for i := range expenses {
		if !expenses[i].Split.IsExplicit() {
			continue
		}
		expenses[i].Split = participantsToSplit(byExpense[expenses[i].ID])
	}

	return expenses, nil
}

func rowToExpense(row generated.Expense) domain.Expense {
	split := domain.EqualSplit()
	if domain.SplitKind(row.SplitKind) == domain.SplitExplicit {
		split = domain.ExplicitSplit(nil, nil)
	}

	return domain.Expense{
		ID:          row.ID,
		GroupID:     row.GroupID,
		PayerID:     row.PayerID,
		Amount:      domain.Amount(row.AmountMinor),
		Currency:    row.Currency,
		Category:    domain.Category(row.Category),
		Description: row.Description,
		Split:       split,
		CreatedAt:   row.CreatedAt.Time,
	}
}

// participantsToSplit rebuilds an explicit split. Rows arrive ordered by
// position; a split without any weights comes back with nil Shares.
func participantsToSplit(rows []generated.ExpenseParticipant) domain.SplitAssignment {
	ids := make([]string, 0, len(rows))
	var shares map[string]decimal.Decimal
	for _, row := range rows {
		ids = append(ids, row.MemberID)
		if !row.Weight.Valid {
			continue
		}
		if shares == nil {
			shares = make(map[string]decimal.Decimal, len(rows))
		}
		shares[row.MemberID] = numericToDecimal(row.Weight)
	}

	return domain.ExplicitSplit(ids, shares)
}
