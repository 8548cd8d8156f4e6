package dto

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   domain.Amount
		currency string
		want     string
	}{
		{1050, "USD", "10.50"},
		{-5, "EUR", "-0.05"},
		{1500, "JPY", "1500"},
		{1234, "KWD", "1.234"},
		{0, "USD", "0.00"},
	}

	for _, tt := range tests {
		if got := FormatAmount(tt.amount, tt.currency); got != tt.want {
			t.Errorf("FormatAmount(%d, %s) = %s, want %s", tt.amount, tt.currency, got, tt.want)
		}
	}
}

func TestExpenseFromDomain_Shares(t *testing.T) {
	e := &domain.Expense{
		ID:       "e1",
		Amount:   900,
		Currency: "USD",
		Split: domain.ExplicitSplit([]string{"A", "B"}, map[string]decimal.Decimal{
			"A": decimal.NewFromInt(2),
			"B": decimal.RequireFromString("0.5"),
		}),
	}

	resp := ExpenseFromDomain(e)
	if resp.Split != "explicit" || resp.Shares["A"] != "2" || resp.Shares["B"] != "0.5" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	resp = ExpenseFromDomain(&domain.Expense{ID: "e2", Amount: 100, Currency: "USD"})
	if resp.Split != "equal" || resp.Shares != nil {
		t.Fatalf("expected equal split without shares, got %+v", resp)
	}
}

func TestBalanceSheetFromDomain_Order(t *testing.T) {
	sheet := &domain.BalanceSheet{
		GroupID:    "g1",
		Members:    []string{"B", "A"},
		Currencies: []string{"EUR", "USD"},
		Entries: map[domain.BalanceKey]domain.Balance{
			{MemberID: "A", Currency: "USD"}: {Owed: 100, Net: 100},
			{MemberID: "B", Currency: "USD"}: {Owes: 100, Net: -100},
		},
	}

	resp := BalanceSheetFromDomain(sheet)
	if len(resp.Balances) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(resp.Balances))
	}

	first := resp.Balances[0]
	if first.Currency != "EUR" || first.MemberID != "B" || first.Net != "0.00" {
		t.Errorf("unexpected first entry: %+v", first)
	}
	last := resp.Balances[3]
	if last.Currency != "USD" || last.MemberID != "A" || last.Owed != "1.00" {
		t.Errorf("unexpected last entry: %+v", last)
	}
}

func TestSettlementResultFromUseCase(t *testing.T) {
	res := &usecase.RecordSettlementResult{
		Record: &domain.SettlementRecord{
			ID:                "s1",
			InitiatorMemberID: "B",
			Scope:             domain.IndividualScope("B"),
			Status:            domain.SettlementStatusCompleted,
		},
		AlreadyRecorded: true,
	}

	resp := SettlementResultFromUseCase(res)
	if !resp.AlreadyRecorded || resp.Scope != "individual" || resp.MemberID != "B" || resp.Status != "completed" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Transfers == nil || len(resp.Notifications) != 0 {
		t.Fatalf("expected empty transfers and no notifications, got %+v", resp)
	}
}
