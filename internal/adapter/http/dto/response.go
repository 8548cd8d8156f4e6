package dto

import (
	"time"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/engine"
	"github.com/iho/splitledger/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// FormatAmount renders minor units as a fixed-point string in currency
// units, e.g. 1050 USD as "10.50".
func FormatAmount(a domain.Amount, currency string) string {
	return a.Decimal(currency).StringFixed(domain.CurrencyExponent(currency))
}

// GroupResponse represents a group in API responses.
type GroupResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupFromDomain converts a domain group to a response.
func GroupFromDomain(g *domain.Group) *GroupResponse {
	return &GroupResponse{ID: g.ID, Name: g.Name, CreatedAt: g.CreatedAt}
}

// MemberResponse represents a member in API responses.
type MemberResponse struct {
	ID            string    `json:"id"`
	GroupID       string    `json:"group_id"`
	DisplayName   string    `json:"display_name"`
	PayoutAddress string    `json:"payout_address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// MemberFromDomain converts a domain member to a response.
func MemberFromDomain(m *domain.Member) *MemberResponse {
	return &MemberResponse{
		ID:            m.ID,
		GroupID:       m.GroupID,
		DisplayName:   m.DisplayName,
		PayoutAddress: m.PayoutAddress,
		CreatedAt:     m.CreatedAt,
	}
}

// MembersFromDomain converts domain members to responses.
func MembersFromDomain(members []domain.Member) []*MemberResponse {
	result := make([]*MemberResponse, len(members))
	for i := range members {
		result[i] = MemberFromDomain(&members[i])
	}
	return result
}

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID             string            `json:"id"`
	GroupID        string            `json:"group_id"`
	PayerID        string            `json:"payer_id"`
	Amount         string            `json:"amount"`
	Currency       string            `json:"currency"`
	Category       string            `json:"category"`
	Description    string            `json:"description,omitempty"`
	Split          string            `json:"split"`
	ParticipantIDs []string          `json:"participant_ids,omitempty"`
	Shares         map[string]string `json:"shares,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// ExpenseFromDomain converts a domain expense to a response.
func ExpenseFromDomain(e *domain.Expense) *ExpenseResponse {
	split := string(domain.SplitEqual)
	if e.Split.IsExplicit() {
		split = string(domain.SplitExplicit)
	}

	var shares map[string]string
	if len(e.Split.Shares) > 0 {
		shares = make(map[string]string, len(e.Split.Shares))
		for id, w := range e.Split.Shares {
			shares[id] = w.String()
		}
	}

	return &ExpenseResponse{
		ID:             e.ID,
		GroupID:        e.GroupID,
		PayerID:        e.PayerID,
		Amount:         FormatAmount(e.Amount, e.Currency),
		Currency:       e.Currency,
		Category:       string(e.Category),
		Description:    e.Description,
		Split:          split,
		ParticipantIDs: e.Split.ParticipantIDs,
		Shares:         shares,
		CreatedAt:      e.CreatedAt,
	}
}

// ExpensesFromDomain converts domain expenses to responses.
func ExpensesFromDomain(expenses []domain.Expense) []*ExpenseResponse {
	result := make([]*ExpenseResponse, len(expenses))
	for i := range expenses {
		result[i] = ExpenseFromDomain(&expenses[i])
	}
	return result
}

// BalanceEntry is one member's position in one currency.
type BalanceEntry struct {
	MemberID string `json:"member_id"`
	Currency string `json:"currency"`
	Owed     string `json:"owed"`
	Owes     string `json:"owes"`
	Net      string `json:"net"`
}

// BalanceSheetResponse represents a group's balances.
type BalanceSheetResponse struct {
	GroupID        string         `json:"group_id"`
	Currencies     []string       `json:"currencies"`
	Balances       []BalanceEntry `json:"balances"`
	Unattributable []string       `json:"unattributable_expense_ids,omitempty"`
}

// BalanceSheetFromDomain lists entries by currency, then membership order.
func BalanceSheetFromDomain(s *domain.BalanceSheet) *BalanceSheetResponse {
	resp := &BalanceSheetResponse{
		GroupID:        s.GroupID,
		Currencies:     append([]string{}, s.Currencies...),
		Balances:       make([]BalanceEntry, 0, len(s.Currencies)*len(s.Members)),
		Unattributable: s.Unattributable,
	}

	for _, currency := range s.Currencies {
		for _, memberID := range s.Members {
			b := s.Get(memberID, currency)
			resp.Balances = append(resp.Balances, BalanceEntry{
				MemberID: memberID,
				Currency: currency,
				Owed:     FormatAmount(b.Owed, currency),
				Owes:     FormatAmount(b.Owes, currency),
				Net:      FormatAmount(b.Net, currency),
			})
		}
	}

	return resp
}

// SpendingResponse is one category total.
type SpendingResponse struct {
	Currency string `json:"currency"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Count    int    `json:"count"`
}

// SpendingFromEngine converts spending totals to responses.
func SpendingFromEngine(totals []engine.SpendingTotal) []SpendingResponse {
	result := make([]SpendingResponse, len(totals))
	for i, t := range totals {
		result[i] = SpendingResponse{
			Currency: t.Currency,
			Category: string(t.Category),
			Amount:   FormatAmount(t.Amount, t.Currency),
			Count:    t.Count,
		}
	}
	return result
}

// TransferResponse is one planned or recorded transfer.
type TransferResponse struct {
	FromMemberID string `json:"from_member_id"`
	ToMemberID   string `json:"to_member_id"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
}

func transfersFromDomain(transfers []domain.Transfer) []TransferResponse {
	result := make([]TransferResponse, len(transfers))
	for i, t := range transfers {
		result[i] = TransferResponse{
			FromMemberID: t.FromMemberID,
			ToMemberID:   t.ToMemberID,
			Amount:       FormatAmount(t.Amount, t.Currency),
			Currency:     t.Currency,
		}
	}
	return result
}

// PlanResponse represents a settlement plan.
type PlanResponse struct {
	GroupID         string             `json:"group_id"`
	Scope           string             `json:"scope"`
	MemberID        string             `json:"member_id,omitempty"`
	Transfers       []TransferResponse `json:"transfers"`
	TotalByCurrency map[string]string  `json:"total_by_currency"`
}

// PlanFromDomain converts a plan to a response.
func PlanFromDomain(p *domain.SettlementPlan) *PlanResponse {
	totals := make(map[string]string, len(p.TotalByCurrency))
	for currency, amount := range p.TotalByCurrency {
		totals[currency] = FormatAmount(amount, currency)
	}

	return &PlanResponse{
		GroupID:         p.GroupID,
		Scope:           string(p.Scope.Kind),
		MemberID:        p.Scope.MemberID,
		Transfers:       transfersFromDomain(p.Transfers),
		TotalByCurrency: totals,
	}
}

// NotificationResponse is a notice handed to the delivery collaborator.
type NotificationResponse struct {
	RecipientID string `json:"recipient_id"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
}

// SettlementResponse represents a settlement record.
type SettlementResponse struct {
	ID              string                 `json:"id"`
	IdempotencyKey  string                 `json:"idempotency_key"`
	GroupID         string                 `json:"group_id"`
	InitiatorID     string                 `json:"initiator_id"`
	Scope           string                 `json:"scope"`
	MemberID        string                 `json:"member_id,omitempty"`
	Status          string                 `json:"status"`
	Transfers       []TransferResponse     `json:"transfers"`
	Notifications   []NotificationResponse `json:"notifications,omitempty"`
	AlreadyRecorded bool                   `json:"already_recorded"`
	CreatedAt       time.Time              `json:"created_at"`
}

// SettlementFromDomain converts a record to a response.
func SettlementFromDomain(r *domain.SettlementRecord) *SettlementResponse {
	return &SettlementResponse{
		ID:             r.ID,
		IdempotencyKey: r.IdempotencyKey,
		GroupID:        r.GroupID,
		InitiatorID:    r.InitiatorMemberID,
		Scope:          string(r.Scope.Kind),
		MemberID:       r.Scope.MemberID,
		Status:         string(r.Status),
		Transfers:      transfersFromDomain(r.Transfers),
		CreatedAt:      r.CreatedAt,
	}
}

// SettlementResultFromUseCase converts a record result to a response.
func SettlementResultFromUseCase(res *usecase.RecordSettlementResult) *SettlementResponse {
	resp := SettlementFromDomain(res.Record)
	resp.AlreadyRecorded = res.AlreadyRecorded
	for _, n := range res.Notifications {
		resp.Notifications = append(resp.Notifications, NotificationResponse{
			RecipientID: n.RecipientID,
			Amount:      FormatAmount(n.Amount, n.Currency),
			Currency:    n.Currency,
		})
	}
	return resp
}

// SettlementsFromDomain converts records to responses.
func SettlementsFromDomain(records []*domain.SettlementRecord) []*SettlementResponse {
	result := make([]*SettlementResponse, len(records))
	for i, r := range records {
		result[i] = SettlementFromDomain(r)
	}
	return result
}
