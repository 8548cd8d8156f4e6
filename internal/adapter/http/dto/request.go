package dto

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

// CreateGroupRequest represents a request to create a group.
type CreateGroupRequest struct {
	Name string `json:"name"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateGroupRequest) ToUseCaseInput() usecase.CreateGroupInput {
	return usecase.CreateGroupInput{Name: r.Name}
}

// AddMemberRequest represents a request to add a member to a group.
type AddMemberRequest struct {
	DisplayName   string `json:"display_name"`
	PayoutAddress string `json:"payout_address,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AddMemberRequest) ToUseCaseInput(groupID string) usecase.AddMemberInput {
	return usecase.AddMemberInput{
		GroupID:       groupID,
		DisplayName:   r.DisplayName,
		PayoutAddress: r.PayoutAddress,
	}
}

// AddExpenseRequest represents a request to record an expense. Amount is in
// currency units; omit participant_ids to split equally among all members.
type AddExpenseRequest struct {
	PayerID        string                     `json:"payer_id"`
	Amount         decimal.Decimal            `json:"amount"`
	Currency       string                     `json:"currency"`
	Category       string                     `json:"category,omitempty"`
	Description    string                     `json:"description,omitempty"`
	ParticipantIDs []string                   `json:"participant_ids,omitempty"`
	Shares         map[string]decimal.Decimal `json:"shares,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AddExpenseRequest) ToUseCaseInput(groupID string) usecase.AddExpenseInput {
	return usecase.AddExpenseInput{
		GroupID:        groupID,
		PayerID:        r.PayerID,
		Amount:         r.Amount,
		Currency:       r.Currency,
		Category:       r.Category,
		Description:    r.Description,
		ParticipantIDs: r.ParticipantIDs,
		Shares:         r.Shares,
	}
}

// ScopeRequest selects what to settle. An empty scope means full.
type ScopeRequest struct {
	Scope    string `json:"scope,omitempty"`
	MemberID string `json:"member_id,omitempty"`
}

// ToDomain parses the scope.
func (r ScopeRequest) ToDomain() (domain.SettlementScope, error) {
	kind := strings.ToLower(strings.TrimSpace(r.Scope))
	if kind == "" {
		kind = string(domain.ScopeFull)
	}
	return domain.ParseScope(kind, r.MemberID)
}

// PlanSettlementRequest represents a request to plan a settlement.
type PlanSettlementRequest struct {
	ScopeRequest
}

// ToUseCaseInput converts to use case input.
func (r *PlanSettlementRequest) ToUseCaseInput(groupID string) (usecase.PlanSettlementInput, error) {
	scope, err := r.ToDomain()
	if err != nil {
		return usecase.PlanSettlementInput{}, err
	}
	return usecase.PlanSettlementInput{GroupID: groupID, Scope: scope}, nil
}

// SettleRequest represents a request to plan and record in one step.
type SettleRequest struct {
	InitiatorID string `json:"initiator_id"`
	ScopeRequest
}

// ToUseCaseInput converts to use case input.
func (r *SettleRequest) ToUseCaseInput(groupID string) (usecase.SettleInput, error) {
	scope, err := r.ToDomain()
	if err != nil {
		return usecase.SettleInput{}, err
	}
	return usecase.SettleInput{GroupID: groupID, InitiatorID: r.InitiatorID, Scope: scope}, nil
}

// TransferRequest is one transfer of a client-held plan.
type TransferRequest struct {
	FromMemberID string          `json:"from_member_id"`
	ToMemberID   string          `json:"to_member_id"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
}

// RecordSettlementRequest records a plan the client obtained earlier.
type RecordSettlementRequest struct {
	InitiatorID string            `json:"initiator_id"`
	Scope       ScopeRequest      `json:"scope"`
	Transfers   []TransferRequest `json:"transfers"`
}

// ToUseCaseInput converts to use case input, turning amounts into minor units.
func (r *RecordSettlementRequest) ToUseCaseInput(groupID string) (usecase.RecordSettlementInput, error) {
	scope, err := r.Scope.ToDomain()
	if err != nil {
		return usecase.RecordSettlementInput{}, err
	}

	plan := &domain.SettlementPlan{
		GroupID:         groupID,
		Scope:           scope,
		Transfers:       make([]domain.Transfer, 0, len(r.Transfers)),
		TotalByCurrency: make(map[string]domain.Amount),
	}
	for i, t := range r.Transfers {
		currency := domain.NormalizeCurrency(t.Currency)
		amount, err := domain.AmountFromDecimal(t.Amount, currency)
		if err != nil {
			return usecase.RecordSettlementInput{}, fmt.Errorf("transfer %d: %w", i, err)
		}
		plan.Transfers = append(plan.Transfers, domain.Transfer{
			FromMemberID: t.FromMemberID,
			ToMemberID:   t.ToMemberID,
			Amount:       amount,
			Currency:     currency,
		})
		plan.TotalByCurrency[currency] += amount
	}

	return usecase.RecordSettlementInput{
		GroupID:     groupID,
		InitiatorID: r.InitiatorID,
		Plan:        plan,
	}, nil
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
