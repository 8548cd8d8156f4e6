package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Expense struct {
	ID          string             `json:"id"`
	GroupID     string             `json:"group_id"`
	PayerID     string             `json:"payer_id"`
	AmountMinor int64              `json:"amount_minor"`
	Currency    string             `json:"currency"`
	Category    string             `json:"category"`
	Description string             `json:"description"`
	SplitKind   string             `json:"split_kind"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
}

type ExpenseParticipant struct {
	ExpenseID string         `json:"expense_id"`
	MemberID  string         `json:"member_id"`
	Position  int32          `json:"position"`
	Weight    pgtype.Numeric `json:"weight"`
}

type Group struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type Member struct {
	ID            string             `json:"id"`
	GroupID       string             `json:"group_id"`
	DisplayName   string             `json:"display_name"`
	PayoutAddress string             `json:"payout_address"`
	Position      int64              `json:"position"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
	Published     bool               `json:"published"`
}

type Settlement struct {
	ID             string             `json:"id"`
	IdempotencyKey string             `json:"idempotency_key"`
	GroupID        string             `json:"group_id"`
	InitiatorID    string             `json:"initiator_id"`
	ScopeKind      string             `json:"scope_kind"`
	ScopeMemberID  string             `json:"scope_member_id"`
	Status         string             `json:"status"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
}

type SettlementTransfer struct {
	SettlementID string `json:"settlement_id"`
	Seq          int32  `json:"seq"`
	FromID       string `json:"from_id"`
	ToID         string `json:"to_id"`
	AmountMinor  int64  `json:"amount_minor"`
	Currency     string `json:"currency"`
}
