package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a payment made by one member on behalf of some or all of the
// group. Expenses are immutable once recorded.
type Expense struct {
	ID          string
	GroupID     string
	PayerID     string
	Amount      Amount
	Currency    string
	Category    Category
	Description string
	Split       SplitAssignment
	CreatedAt   time.Time
}

// SplitKind discriminates SplitAssignment.
type SplitKind string

const (
	// SplitEqual divides the expense equally among all current members.
	SplitEqual SplitKind = "equal"
	// SplitExplicit divides the expense among named participants by weight.
	SplitExplicit SplitKind = "explicit"
)

// SplitAssignment decides who shares an expense and in what proportion.
// The zero value is an equal split.
type SplitAssignment struct {
	Kind           SplitKind
	ParticipantIDs []string
	// Shares maps participant id to a nonnegative weight. Participants
	// missing from a non-empty map weigh zero; an empty or all-zero map
	// weighs every participant equally.
	Shares map[string]decimal.Decimal
}

// EqualSplit returns the implicit all-members split.
func EqualSplit() SplitAssignment {
	return SplitAssignment{Kind: SplitEqual}
}

// ExplicitSplit returns a weighted split among the given participants.
func ExplicitSplit(participantIDs []string, shares map[string]decimal.Decimal) SplitAssignment {
	return SplitAssignment{
		Kind:           SplitExplicit,
		ParticipantIDs: participantIDs,
		Shares:         shares,
	}
}

// IsExplicit reports whether the split names its own participants.
func (s SplitAssignment) IsExplicit() bool {
	return s.Kind == SplitExplicit
}

// Validate checks the split's internal invariants.
func (s SplitAssignment) Validate() error {
	switch s.Kind {
	case "", SplitEqual:
		return nil
	case SplitExplicit:
	default:
		return fmt.Errorf("%w: unknown split kind %q", ErrValidation, s.Kind)
	}

	if len(s.ParticipantIDs) == 0 {
		return ErrEmptyParticipants
	}

	participants := make(map[string]bool, len(s.ParticipantIDs))
	for _, id := range s.ParticipantIDs {
		participants[id] = true
	}

	for id, weight := range s.Shares {
		if !participants[id] {
			return fmt.Errorf("%w: %s", ErrShareNotParticipant, id)
		}
		if weight.IsNegative() {
			return fmt.Errorf("%w: %s", ErrNegativeShare, id)
		}
	}

	return nil
}

// Validate checks an expense against the group it is being recorded in.
func (e *Expense) Validate(members []Member) error {
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if e.Amount > MaxAmount {
		return ErrAmountTooLarge
	}

	if err := ValidateCurrency(e.Currency); err != nil {
		return err
	}

	if _, err := ParseCategory(string(e.Category)); err != nil {
		return err
	}

	set := MemberSet(members)
	if !set[e.PayerID] {
		return fmt.Errorf("%w: %s", ErrUnknownPayer, e.PayerID)
	}

	if err := e.Split.Validate(); err != nil {
		return err
	}

	for _, id := range e.Split.ParticipantIDs {
		if !set[id] {
			return fmt.Errorf("%w: %s", ErrUnknownParticipant, id)
		}
	}

	return nil
}

// Category classifies an expense for spending summaries.
type Category string

const (
	CategoryFood     Category = "Food & Drinks"
	CategoryEvents   Category = "Events & Entertainment"
	CategoryTravel   Category = "Travel & Transport"
	CategoryHousing  Category = "Housing & Utilities"
	CategoryShopping Category = "Shopping & Essentials"
	CategoryOnChain  Category = "On-Chain Life"
	CategoryOther    Category = "Other"
)

var validCategories = map[Category]bool{
	CategoryFood:     true,
	CategoryEvents:   true,
	CategoryTravel:   true,
	CategoryHousing:  true,
	CategoryShopping: true,
	CategoryOnChain:  true,
	CategoryOther:    true,
}

// ParseCategory maps a raw category to a known one. Empty means Other.
func ParseCategory(raw string) (Category, error) {
	if raw == "" {
		return CategoryOther, nil
	}
	c := Category(raw)
	if !validCategories[c] {
		return "", fmt.Errorf("%w: %s", ErrInvalidCategory, raw)
	}
	return c, nil
}
