package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is the root of every ingestion-time validation failure.
var ErrValidation = errors.New("validation error")

var (
	// Expense errors
	ErrInvalidAmount       = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrAmountTooLarge      = fmt.Errorf("%w: amount exceeds maximum allowed", ErrValidation)
	ErrInvalidCurrency     = fmt.Errorf("%w: invalid currency code", ErrValidation)
	ErrInvalidCategory     = fmt.Errorf("%w: unknown expense category", ErrValidation)
	ErrUnknownPayer        = fmt.Errorf("%w: payer is not a group member", ErrValidation)
	ErrEmptyParticipants   = fmt.Errorf("%w: explicit split has no participants", ErrValidation)
	ErrUnknownParticipant  = fmt.Errorf("%w: participant is not a group member", ErrValidation)
	ErrShareNotParticipant = fmt.Errorf("%w: share assigned to non-participant", ErrValidation)
	ErrNegativeShare       = fmt.Errorf("%w: share weight must not be negative", ErrValidation)

	// Member errors
	ErrInvalidMember   = fmt.Errorf("%w: invalid member", ErrValidation)
	ErrDuplicateMember = fmt.Errorf("%w: member already in group", ErrValidation)
	ErrInvalidGroup    = fmt.Errorf("%w: invalid group", ErrValidation)

	// Plan errors
	ErrEmptyPlan       = fmt.Errorf("%w: settlement plan has no transfers", ErrValidation)
	ErrInvalidTransfer = fmt.Errorf("%w: invalid transfer", ErrValidation)
	ErrForeignTransfer = fmt.Errorf("%w: individual plan contains a transfer from another member", ErrValidation)
)

var (
	// ErrInsufficientDebt is returned when an individual settlement is
	// requested for a member that owes nothing in any currency.
	ErrInsufficientDebt = errors.New("member has no outstanding debt")

	// ErrAlreadyRecorded signals that a settlement with the same idempotency
	// key already exists. Callers treat it as a successful no-op.
	ErrAlreadyRecorded = errors.New("settlement already recorded")

	ErrGroupNotFound      = errors.New("group not found")
	ErrMemberNotFound     = errors.New("member not found")
	ErrSettlementNotFound = errors.New("settlement not found")
	ErrLockNotAcquired    = errors.New("settlement in progress for this member")
)
