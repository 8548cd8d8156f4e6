package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
	"github.com/iho/splitledger/internal/usecase/mocks"
)

func TestExpenseUseCase_AddExpense(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	groups := mocks.NewMockGroupStore(ctrl)
	expenses := mocks.NewMockExpenseStore(ctrl)

	groups.EXPECT().ListMembers(gomock.Any(), "g1").Return(groupMembers(), nil)

	var stored *domain.Expense
	expenses.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e *domain.Expense) error {
		stored = e
		return nil
	})

	uc := usecase.NewExpenseUseCase(groups, expenses, &seqIDs{prefix: "expense"}, fixedClock{now: testNow}, nil, zerolog.Nop())

	expense, err := uc.AddExpense(context.Background(), usecase.AddExpenseInput{
		GroupID:        "g1",
		PayerID:        "B",
		Amount:         decimal.RequireFromString("100.00"),
		Currency:       "usd",
		Category:       string(domain.CategoryFood),
		Description:    "  team dinner ",
		ParticipantIDs: []string{"A", "C", "A"},
		Shares: map[string]decimal.Decimal{
			"A": decimal.NewFromInt(1),
			"C": decimal.NewFromInt(3),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored != expense {
		t.Fatal("expected the returned expense to be the stored one")
	}
	if expense.ID != "expense-1" {
		t.Errorf("expected generated id, got %s", expense.ID)
	}
	if expense.Amount != 10000 {
		t.Errorf("expected 10000 minor units, got %d", expense.Amount)
	}
	if expense.Currency != "USD" {
		t.Errorf("expected normalized currency, got %s", expense.Currency)
	}
	if expense.Description != "team dinner" {
		t.Errorf("expected trimmed description, got %q", expense.Description)
	}
	if !expense.Split.IsExplicit() || len(expense.Split.ParticipantIDs) != 2 {
		t.Errorf("expected explicit split over 2 participants, got %+v", expense.Split)
	}
}

func TestExpenseUseCase_AddExpense_EqualSplitDefaultsCategory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	groups := mocks.NewMockGroupStore(ctrl)
	expenses := mocks.NewMockExpenseStore(ctrl)

	groups.EXPECT().ListMembers(gomock.Any(), "g1").Return(groupMembers(), nil)
	expenses.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)

	uc := usecase.NewExpenseUseCase(groups, expenses, &seqIDs{prefix: "expense"}, fixedClock{now: testNow}, nil, zerolog.Nop())

	expense, err := uc.AddExpense(context.Background(), usecase.AddExpenseInput{
		GroupID:  "g1",
		PayerID:  "A",
		Amount:   decimal.RequireFromString("1500"),
		Currency: "JPY",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if expense.Split.IsExplicit() {
		t.Error("expected equal split")
	}
	if expense.Category != domain.CategoryOther {
		t.Errorf("expected Other category, got %s", expense.Category)
	}
	if expense.Amount != 1500 {
		t.Errorf("expected 1500 yen, got %d", expense.Amount)
	}
}

func TestExpenseUseCase_AddExpense_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.AddExpenseInput
		lookups     bool
		expectError error
	}{
		{
			name:        "zero amount",
			input:       usecase.AddExpenseInput{GroupID: "g1", PayerID: "A", Amount: decimal.Zero, Currency: "USD"},
			expectError: domain.ErrInvalidAmount,
		},
		{
			name:        "negative amount",
			input:       usecase.AddExpenseInput{GroupID: "g1", PayerID: "A", Amount: decimal.NewFromInt(-5), Currency: "USD"},
			expectError: domain.ErrInvalidAmount,
		},
		{
			name:        "amount rounds to zero",
			input:       usecase.AddExpenseInput{GroupID: "g1", PayerID: "A", Amount: decimal.RequireFromString("0.001"), Currency: "USD"},
			lookups:     true,
			expectError: domain.ErrInvalidAmount,
		},
		{
			name:        "amount above the cap",
			input:       usecase.AddExpenseInput{GroupID: "g1", PayerID: "A", Amount: decimal.RequireFromString("10000000000000.01"), Currency: "USD"},
			expectError: domain.ErrAmountTooLarge,
		},
		{
			name:        "invalid currency",
			input:       usecase.AddExpenseInput{GroupID: "g1", PayerID: "A", Amount: decimal.NewFromInt(5), Currency: "$$"},
			expectError: domain.ErrInvalidCurrency,
		},
		{
			name:        "unknown category",
			input:       usecase.AddExpenseInput{GroupID: "g1", PayerID: "A", Amount: decimal.NewFromInt(5), Currency: "USD", Category: "Yachts"},
			expectError: domain.ErrInvalidCategory,
		},
		{
			name:        "payer not in group",
			input:       usecase.AddExpenseInput{GroupID: "g1", PayerID: "Z", Amount: decimal.NewFromInt(5), Currency: "USD"},
			lookups:     true,
			expectError: domain.ErrUnknownPayer,
		},
		{
			name: "shares without participants",
			input: usecase.AddExpenseInput{
				GroupID: "g1", PayerID: "A", Amount: decimal.NewFromInt(5), Currency: "USD",
				Shares: map[string]decimal.Decimal{"B": decimal.NewFromInt(1)},
			},
			lookups:     true,
			expectError: domain.ErrEmptyParticipants,
		},
		{
			name: "participant not in group",
			input: usecase.AddExpenseInput{
				GroupID: "g1", PayerID: "A", Amount: decimal.NewFromInt(5), Currency: "USD",
				ParticipantIDs: []string{"B", "Q"},
			},
			lookups:     true,
			expectError: domain.ErrUnknownParticipant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			groups := mocks.NewMockGroupStore(ctrl)
			expenses := mocks.NewMockExpenseStore(ctrl)
			if tt.lookups {
				groups.EXPECT().ListMembers(gomock.Any(), "g1").Return(groupMembers(), nil)
			}

			uc := usecase.NewExpenseUseCase(groups, expenses, &seqIDs{prefix: "expense"}, fixedClock{now: testNow}, nil, zerolog.Nop())

			_, err := uc.AddExpense(context.Background(), tt.input)
			if !errors.Is(err, tt.expectError) {
				t.Fatalf("expected %v, got %v", tt.expectError, err)
			}
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestExpenseUseCase_ListExpenses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	groups := mocks.NewMockGroupStore(ctrl)
	expenses := mocks.NewMockExpenseStore(ctrl)

	groups.EXPECT().GetGroup(gomock.Any(), "g1").Return(&domain.Group{ID: "g1"}, nil)
	expenses.EXPECT().ListExpensesPage(gomock.Any(), "g1", 1000, 0).Return([]domain.Expense{{ID: "e1"}, {ID: "e2"}}, nil)

	uc := usecase.NewExpenseUseCase(groups, expenses, &seqIDs{prefix: "expense"}, fixedClock{now: testNow}, nil, zerolog.Nop())

	list, err := uc.ListExpenses(context.Background(), usecase.ListExpensesInput{GroupID: "g1", Limit: 5000, Offset: -3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 expenses, got %d", len(list))
	}
}

func TestExpenseUseCase_ListExpenses_GroupNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	groups := mocks.NewMockGroupStore(ctrl)
	groups.EXPECT().GetGroup(gomock.Any(), "nope").Return(nil, domain.ErrGroupNotFound)

	uc := usecase.NewExpenseUseCase(groups, mocks.NewMockExpenseStore(ctrl), &seqIDs{}, fixedClock{}, nil, zerolog.Nop())

	if _, err := uc.ListExpenses(context.Background(), usecase.ListExpensesInput{GroupID: "nope"}); !errors.Is(err, domain.ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
}
