package handler

import (
	"context"
	"net/http"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// SettlementService defines the behavior needed by SettlementHandler.
type SettlementService interface {
	PlanSettlement(ctx context.Context, input usecase.PlanSettlementInput) (*domain.SettlementPlan, error)
	RecordSettlement(ctx context.Context, input usecase.RecordSettlementInput) (*usecase.RecordSettlementResult, error)
	Settle(ctx context.Context, input usecase.SettleInput) (*usecase.RecordSettlementResult, error)
	ListSettlements(ctx context.Context, input usecase.ListSettlementsInput) ([]*domain.SettlementRecord, error)
}

// SettlementHandler handles settlement planning and recording.
type SettlementHandler struct {
	settlementUC SettlementService
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementUC SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementUC: settlementUC}
}

// Plan computes transfers without recording anything.
func (h *SettlementHandler) Plan(w http.ResponseWriter, r *http.Request) {
	id, ok := groupID(w, r)
	if !ok {
		return
	}

	var req dto.PlanSettlementRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(id)
	if err != nil {
		writeDomainError(w, "invalid scope", err)
		return
	}

	plan, err := h.settlementUC.PlanSettlement(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to plan settlement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PlanFromDomain(plan))
}

// Settle plans and records in one step under the initiator's lock.
func (h *SettlementHandler) Settle(w http.ResponseWriter, r *http.Request) {
	id, ok := groupID(w, r)
	if !ok {
		return
	}

	var req dto.SettleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(id)
	if err != nil {
		writeDomainError(w, "invalid scope", err)
		return
	}

	result, err := h.settlementUC.Settle(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to settle", err)
		return
	}

	writeSettlementResult(w, result)
}

// Record records a plan the client computed earlier.
func (h *SettlementHandler) Record(w http.ResponseWriter, r *http.Request) {
	id, ok := groupID(w, r)
	if !ok {
		return
	}

	var req dto.RecordSettlementRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(id)
	if err != nil {
		writeDomainError(w, "invalid plan", err)
		return
	}

	result, err := h.settlementUC.RecordSettlement(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to record settlement", err)
		return
	}

	writeSettlementResult(w, result)
}

// List lists the group's settlement records.
func (h *SettlementHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := groupID(w, r)
	if !ok {
		return
	}

	records, err := h.settlementUC.ListSettlements(r.Context(), usecase.ListSettlementsInput{
		GroupID: id,
		Limit:   parseIntQuery(r, "limit", 50),
		Offset:  parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, "failed to list settlements", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"settlements": dto.SettlementsFromDomain(records)})
}

// writeSettlementResult answers 201 for a new record and 200 for a replay.
func writeSettlementResult(w http.ResponseWriter, result *usecase.RecordSettlementResult) {
	status := http.StatusCreated
	if result.AlreadyRecorded {
		status = http.StatusOK
	}
	writeJSON(w, status, dto.SettlementResultFromUseCase(result))
}
