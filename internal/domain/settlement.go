package domain

import (
	"fmt"
	"time"
)

// ScopeKind discriminates SettlementScope.
type ScopeKind string

const (
	ScopeIndividual ScopeKind = "individual"
	ScopeFull       ScopeKind = "full"
)

// SettlementScope is either Individual(member) or Full.
type SettlementScope struct {
	Kind     ScopeKind
	MemberID string
}

// FullScope settles every debt in the group.
func FullScope() SettlementScope {
	return SettlementScope{Kind: ScopeFull}
}

// IndividualScope settles only the given member's debts.
func IndividualScope(memberID string) SettlementScope {
	return SettlementScope{Kind: ScopeIndividual, MemberID: memberID}
}

// ParseScope builds a scope from its wire form.
func ParseScope(kind, memberID string) (SettlementScope, error) {
	switch ScopeKind(kind) {
	case ScopeFull:
		if memberID != "" {
			return SettlementScope{}, fmt.Errorf("%w: full scope takes no member", ErrValidation)
		}
		return FullScope(), nil
	case ScopeIndividual:
		if memberID == "" {
			return SettlementScope{}, fmt.Errorf("%w: individual scope requires a member", ErrValidation)
		}
		return IndividualScope(memberID), nil
	default:
		return SettlementScope{}, fmt.Errorf("%w: unknown scope %q", ErrValidation, kind)
	}
}

// IsIndividual reports whether the scope targets one member.
func (s SettlementScope) IsIndividual() bool {
	return s.Kind == ScopeIndividual
}

func (s SettlementScope) String() string {
	if s.IsIndividual() {
		return string(ScopeIndividual) + ":" + s.MemberID
	}
	return string(ScopeFull)
}

// Transfer is money one member should send another to settle a debt.
type Transfer struct {
	FromMemberID string
	ToMemberID   string
	Amount       Amount
	Currency     string
}

// Validate checks a single transfer.
func (t Transfer) Validate() error {
	if t.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidTransfer)
	}
	if t.Amount > MaxAmount {
		return ErrAmountTooLarge
	}
	if t.FromMemberID == "" || t.ToMemberID == "" {
		return fmt.Errorf("%w: missing member", ErrInvalidTransfer)
	}
	if t.FromMemberID == t.ToMemberID {
		return fmt.Errorf("%w: sender and recipient are the same member", ErrInvalidTransfer)
	}
	return ValidateCurrency(t.Currency)
}

// SettlementPlan is an ordered list of transfers. Planning only records
// intent; nothing is moved on the group's behalf.
type SettlementPlan struct {
	GroupID         string
	Scope           SettlementScope
	Transfers       []Transfer
	TotalByCurrency map[string]Amount
}

// Validate checks a plan presented for recording.
func (p *SettlementPlan) Validate() error {
	if len(p.Transfers) == 0 {
		return ErrEmptyPlan
	}

	for _, t := range p.Transfers {
		if err := t.Validate(); err != nil {
			return err
		}
		if p.Scope.IsIndividual() && t.FromMemberID != p.Scope.MemberID {
			return fmt.Errorf("%w: %s", ErrForeignTransfer, t.FromMemberID)
		}
	}

	return nil
}

// CheckMembers rejects a plan whose scoped member or transfer parties are
// not in members.
func (p *SettlementPlan) CheckMembers(members map[string]bool) error {
	if p.Scope.IsIndividual() && !members[p.Scope.MemberID] {
		return fmt.Errorf("%w: %s", ErrMemberNotFound, p.Scope.MemberID)
	}

	for _, t := range p.Transfers {
		for _, id := range []string{t.FromMemberID, t.ToMemberID} {
			if !members[id] {
				return fmt.Errorf("%w: %s", ErrUnknownParticipant, id)
			}
		}
	}

	return nil
}

// SettlementStatus is the lifecycle state of a record.
type SettlementStatus string

const (
	SettlementStatusCompleted SettlementStatus = "completed"
)

// SettlementRecord documents a completed settlement action. Records are
// written once and never mutated.
type SettlementRecord struct {
	ID                string
	IdempotencyKey    string
	GroupID           string
	InitiatorMemberID string
	Scope             SettlementScope
	Transfers         []Transfer
	Status            SettlementStatus
	CreatedAt         time.Time
}

// Notification tells a recipient they are due a payment.
type Notification struct {
	RecipientID   string
	Amount        Amount
	Currency      string
	InitiatorID   string
	GroupID       string
	SettlementKey string
}
