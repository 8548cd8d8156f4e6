package handler

import (
	"context"
	"net/http"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/engine"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	GetBalances(ctx context.Context, groupID string) (*domain.BalanceSheet, error)
	GetSpending(ctx context.Context, groupID string) ([]engine.SpendingTotal, error)
}

// BalanceHandler serves derived views of a group's expenses.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Balances returns every member's per-currency position.
func (h *BalanceHandler) Balances(w http.ResponseWriter, r *http.Request) {
	id, ok := groupID(w, r)
	if !ok {
		return
	}

	sheet, err := h.balanceUC.GetBalances(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to compute balances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceSheetFromDomain(sheet))
}

// Spending returns totals per currency and category.
func (h *BalanceHandler) Spending(w http.ResponseWriter, r *http.Request) {
	id, ok := groupID(w, r)
	if !ok {
		return
	}

	totals, err := h.balanceUC.GetSpending(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to compute spending", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"spending": dto.SpendingFromEngine(totals)})
}
