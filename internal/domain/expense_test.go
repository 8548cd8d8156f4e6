package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func testMembers() []Member {
	return []Member{{ID: "A"}, {ID: "B"}, {ID: "C"}}
}

func TestExpense_Validate(t *testing.T) {
	tests := []struct {
		name        string
		expense     Expense
		expectError error
	}{
		{
			name:    "valid equal split",
			expense: Expense{PayerID: "A", Amount: 9000, Currency: "USD"},
		},
		{
			name: "valid explicit split",
			expense: Expense{
				PayerID:  "B",
				Amount:   10000,
				Currency: "USD",
				Category: CategoryFood,
				Split: ExplicitSplit([]string{"A", "C"}, map[string]decimal.Decimal{
					"A": decimal.NewFromInt(1),
					"C": decimal.NewFromInt(3),
				}),
			},
		},
		{
			name:        "zero amount",
			expense:     Expense{PayerID: "A", Amount: 0, Currency: "USD"},
			expectError: ErrInvalidAmount,
		},
		{
			name:        "amount above the cap",
			expense:     Expense{PayerID: "A", Amount: MaxAmount + 1, Currency: "USD"},
			expectError: ErrAmountTooLarge,
		},
		{
			name:        "negative amount",
			expense:     Expense{PayerID: "A", Amount: -100, Currency: "USD"},
			expectError: ErrInvalidAmount,
		},
		{
			name:        "bad currency",
			expense:     Expense{PayerID: "A", Amount: 100, Currency: "$"},
			expectError: ErrInvalidCurrency,
		},
		{
			name:        "unknown category",
			expense:     Expense{PayerID: "A", Amount: 100, Currency: "USD", Category: "Gambling"},
			expectError: ErrInvalidCategory,
		},
		{
			name:        "payer outside group",
			expense:     Expense{PayerID: "Z", Amount: 100, Currency: "USD"},
			expectError: ErrUnknownPayer,
		},
		{
			name: "explicit split without participants",
			expense: Expense{
				PayerID: "A", Amount: 100, Currency: "USD",
				Split: ExplicitSplit(nil, nil),
			},
			expectError: ErrEmptyParticipants,
		},
		{
			name: "share for non participant",
			expense: Expense{
				PayerID: "A", Amount: 100, Currency: "USD",
				Split: ExplicitSplit([]string{"B"}, map[string]decimal.Decimal{"C": decimal.NewFromInt(1)}),
			},
			expectError: ErrShareNotParticipant,
		},
		{
			name: "negative weight",
			expense: Expense{
				PayerID: "A", Amount: 100, Currency: "USD",
				Split: ExplicitSplit([]string{"B"}, map[string]decimal.Decimal{"B": decimal.NewFromInt(-1)}),
			},
			expectError: ErrNegativeShare,
		},
		{
			name: "participant outside group",
			expense: Expense{
				PayerID: "A", Amount: 100, Currency: "USD",
				Split: ExplicitSplit([]string{"B", "Z"}, nil),
			},
			expectError: ErrUnknownParticipant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.expense.Validate(testMembers())
			if tt.expectError == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Errorf("expected error %v, got %v", tt.expectError, err)
				}
				if !errors.Is(err, ErrValidation) {
					t.Errorf("expected a validation error, got %v", err)
				}
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("")
	if err != nil || c != CategoryOther {
		t.Fatalf("expected empty category to default to Other, got %q err=%v", c, err)
	}

	c, err = ParseCategory("Travel & Transport")
	if err != nil || c != CategoryTravel {
		t.Fatalf("expected Travel & Transport, got %q err=%v", c, err)
	}

	if _, err := ParseCategory("travel"); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}
