package domain

import "time"

// Event types
const (
	EventTypeSettlementRecorded = "settlement.recorded"
	EventTypePaymentDue         = "settlement.payment_due"
)

// Aggregate types
const (
	AggregateTypeSettlement = "settlement"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// PaymentDueEvent payload
type PaymentDueEvent struct {
	GroupID       string `json:"group_id"`
	SettlementKey string `json:"settlement_key"`
	RecipientID   string `json:"recipient_id"`
	InitiatorID   string `json:"initiator_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
}

// NewPaymentDueEvent builds the outbox payload for a notification. Amounts
// travel as decimal strings in currency units.
func NewPaymentDueEvent(n Notification) PaymentDueEvent {
	return PaymentDueEvent{
		GroupID:       n.GroupID,
		SettlementKey: n.SettlementKey,
		RecipientID:   n.RecipientID,
		InitiatorID:   n.InitiatorID,
		Amount:        n.Amount.Decimal(n.Currency).StringFixed(CurrencyExponent(n.Currency)),
		Currency:      n.Currency,
	}
}

// Map flattens the payload for OutboxEvent.Payload.
func (e PaymentDueEvent) Map() map[string]any {
	return map[string]any{
		"group_id":       e.GroupID,
		"settlement_key": e.SettlementKey,
		"recipient_id":   e.RecipientID,
		"initiator_id":   e.InitiatorID,
		"amount":         e.Amount,
		"currency":       e.Currency,
	}
}
