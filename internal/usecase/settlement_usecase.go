package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/engine"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
)

// SettlementUseCase plans and records settlements.
type SettlementUseCase struct {
	balances BalanceReader
	groups   GroupStore
	store    SettlementStore
	locker   Locker
	planner  *engine.Planner
	idGen    IDGenerator
	clock    Clock
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// SettlementDeps groups the collaborators of SettlementUseCase.
type SettlementDeps struct {
	Balances BalanceReader
	Groups   GroupStore
	Store    SettlementStore
	Locker   Locker
	Planner  *engine.Planner
	IDGen    IDGenerator
	Clock    Clock
	Metrics  *metrics.Metrics
	Logger   zerolog.Logger
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(deps SettlementDeps) *SettlementUseCase {
	planner := deps.Planner
	if planner == nil {
		planner = engine.NewPlanner(domain.DefaultEpsilon)
	}

	return &SettlementUseCase{
		balances: deps.Balances,
		groups:   deps.Groups,
		store:    deps.Store,
		locker:   deps.Locker,
		planner:  planner,
		idGen:    deps.IDGen,
		clock:    deps.Clock,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
	}
}

// PlanSettlementInput represents input for planning a settlement.
type PlanSettlementInput struct {
	GroupID string
	Scope   domain.SettlementScope
}

// PlanSettlement computes the transfers that settle the scope. Planning
// has no side effects.
func (uc *SettlementUseCase) PlanSettlement(ctx context.Context, input PlanSettlementInput) (*domain.SettlementPlan, error) {
	sheet, err := uc.balances.GetBalances(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}

	if input.Scope.IsIndividual() && !sheet.HasMember(input.Scope.MemberID) {
		return nil, fmt.Errorf("%w: %s", domain.ErrMemberNotFound, input.Scope.MemberID)
	}

	plan, err := uc.planner.Plan(sheet, input.Scope)
	if err != nil {
		uc.countError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PlansCreated.WithLabelValues(string(input.Scope.Kind)).Inc()
		uc.metrics.PlanTransfers.Observe(float64(len(plan.Transfers)))
	}

	return plan, nil
}

// RecordSettlementInput represents input for recording a settlement.
type RecordSettlementInput struct {
	GroupID     string
	InitiatorID string
	Plan        *domain.SettlementPlan
}

// RecordSettlementResult is the outcome of recording a settlement.
type RecordSettlementResult struct {
	Record *domain.SettlementRecord
	// Notifications lists what was queued with the record. It is empty on replay.
	Notifications []domain.Notification
	// AlreadyRecorded is set when an identical settlement was recorded
	// before. Record then holds the stored original.
	AlreadyRecorded bool
}

// RecordSettlement records a settlement at most once and queues a notice for
// each recipient in the same write. Every party of the plan must belong to
// the group. Replaying an identical settlement returns the stored record
// with AlreadyRecorded set and queues nothing.
func (uc *SettlementUseCase) RecordSettlement(ctx context.Context, input RecordSettlementInput) (*RecordSettlementResult, error) {
	if input.Plan == nil {
		return nil, domain.ErrEmptyPlan
	}

	if input.Plan.GroupID != "" && input.Plan.GroupID != input.GroupID {
		return nil, fmt.Errorf("%w: plan belongs to group %s", domain.ErrValidation, input.Plan.GroupID)
	}

	if err := input.Plan.Validate(); err != nil {
		uc.countError(err)
		return nil, err
	}

	members, err := uc.requireMember(ctx, input.GroupID, input.InitiatorID)
	if err != nil {
		return nil, err
	}
	if err := input.Plan.CheckMembers(members); err != nil {
		uc.countError(err)
		return nil, err
	}

	record, notifications := engine.Record(input.Plan, input.InitiatorID, input.GroupID, uc.clock)
	record.ID = uc.idGen.Generate()

	storeCtx, cancel := context.WithTimeout(ctx, DefaultStoreTimeout)
	defer cancel()

	created, err := uc.store.Append(storeCtx, record, notifications)
	if err != nil {
		uc.countError(err)
		return nil, err
	}

	if !created {
		existing, err := uc.store.GetByKey(storeCtx, record.IdempotencyKey)
		if err != nil {
			return nil, err
		}

		uc.logger.Info().
			Str("group_id", input.GroupID).
			Str("initiator_id", input.InitiatorID).
			Str("idempotency_key", record.IdempotencyKey).
			Msg("settlement already recorded")
		if uc.metrics != nil {
			uc.metrics.SettlementsReplayed.Inc()
		}

		return &RecordSettlementResult{Record: existing, AlreadyRecorded: true}, nil
	}

	if uc.metrics != nil {
		uc.metrics.SettlementsRecorded.WithLabelValues(string(record.Scope.Kind)).Inc()
		uc.metrics.NotificationsEmitted.Add(float64(len(notifications)))
	}

	return &RecordSettlementResult{Record: record, Notifications: notifications}, nil
}

// SettleInput represents input for a plan-and-record settlement.
type SettleInput struct {
	GroupID     string
	InitiatorID string
	Scope       domain.SettlementScope
}

// Settle reads balances, plans and records under a lock keyed by group and
// initiator, so concurrent requests from the same initiator cannot record
// against different snapshots. A full scope with nothing owed returns
// ErrInsufficientDebt.
func (uc *SettlementUseCase) Settle(ctx context.Context, input SettleInput) (*RecordSettlementResult, error) {
	var result *RecordSettlementResult

	start := time.Now()
	err := uc.locker.WithLock(ctx, SettleLockKey(input.GroupID, input.InitiatorID), func(ctx context.Context) error {
		if uc.metrics != nil {
			uc.metrics.LockWaitDuration.Observe(time.Since(start).Seconds())
		}

		plan, err := uc.PlanSettlement(ctx, PlanSettlementInput{GroupID: input.GroupID, Scope: input.Scope})
		if err != nil {
			return err
		}

		if len(plan.Transfers) == 0 {
			return fmt.Errorf("%w: nothing to settle", domain.ErrInsufficientDebt)
		}

		result, err = uc.RecordSettlement(ctx, RecordSettlementInput{
			GroupID:     input.GroupID,
			InitiatorID: input.InitiatorID,
			Plan:        plan,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrLockNotAcquired) {
			uc.countError(err)
		}
		return nil, err
	}

	return result, nil
}

// ListSettlementsInput represents input for listing settlements.
type ListSettlementsInput struct {
	GroupID string
	Limit   int
	Offset  int
}

// ListSettlements lists the group's settlement records, oldest first.
func (uc *SettlementUseCase) ListSettlements(ctx context.Context, input ListSettlementsInput) ([]*domain.SettlementRecord, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.store.ListByGroup(ctx, input.GroupID, limit, offset)
}

func (uc *SettlementUseCase) requireMember(ctx context.Context, groupID, memberID string) (map[string]bool, error) {
	members, err := uc.groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	set := domain.MemberSet(members)
	if !set[memberID] {
		return nil, fmt.Errorf("%w: %s", domain.ErrMemberNotFound, memberID)
	}
	return set, nil
}

func (uc *SettlementUseCase) countError(err error) {
	if uc.metrics == nil {
		return
	}

	kind := "internal"
	switch {
	case errors.Is(err, domain.ErrInsufficientDebt):
		kind = "insufficient_debt"
	case errors.Is(err, domain.ErrLockNotAcquired):
		kind = "lock_not_acquired"
	case errors.Is(err, domain.ErrValidation):
		kind = "validation"
	}
	uc.metrics.SettlementErrors.WithLabelValues(kind).Inc()
}
