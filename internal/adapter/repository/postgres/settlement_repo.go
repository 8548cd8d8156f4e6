package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/postgres/generated"
)

var errNoOutbox = errors.New("settlement repository has no outbox for notifications")

// SettlementRepository implements usecase.SettlementStore. The unique
// idempotency_key column makes Append at-most-once per key.
type SettlementRepository struct {
	queries *generated.Queries
	tx      *TxManager
	outbox  *OutboxRepository
	retrier *Retrier
}

// NewSettlementRepository creates a new SettlementRepository. Notifications
// are queued through outbox. A nil retrier runs each append once.
func NewSettlementRepository(db DB, outbox *OutboxRepository, retrier *Retrier) *SettlementRepository {
	return &SettlementRepository{
		queries: generated.New(db),
		tx:      NewTxManager(db),
		outbox:  outbox,
		retrier: retrier,
	}
}

// Append inserts the record, its transfers and one payment-due outbox event
// per notification in one transaction. When the key already exists nothing
// is written and created is false.
func (r *SettlementRepository) Append(ctx context.Context, record *domain.SettlementRecord, notifications []domain.Notification) (bool, error) {
	if len(notifications) > 0 && r.outbox == nil {
		return false, errNoOutbox
	}

	var created bool

	op := func() error {
		created = false
		return r.tx.InTx(ctx, func(q *generated.Queries) error {
			inserted, err := q.InsertSettlement(ctx, generated.InsertSettlementParams{
				ID:             record.ID,
				IdempotencyKey: record.IdempotencyKey,
				GroupID:        record.GroupID,
				InitiatorID:    record.InitiatorMemberID,
				ScopeKind:      string(record.Scope.Kind),
				ScopeMemberID:  record.Scope.MemberID,
				Status:         string(record.Status),
				CreatedAt:      timeToPgTimestamptz(record.CreatedAt),
			})
			if err != nil {
				return err
			}
			if inserted == 0 {
				return nil
			}

			for i, t := range record.Transfers {
				if err := q.CreateSettlementTransfer(ctx, generated.CreateSettlementTransferParams{
					SettlementID: record.ID,
					Seq:          int32(i),
					FromID:       t.FromMemberID,
					ToID:         t.ToMemberID,
					AmountMinor:  int64(t.Amount),
					Currency:     t.Currency,
				}); err != nil {
					return err
				}
			}

			for _, n := range notifications {
				if err := createOutboxEvent(ctx, q, r.outbox.paymentDue(n)); err != nil {
					return err
				}
			}

			created = true
			return nil
		})
	}

	var err error
	if r.retrier != nil {
		err = r.retrier.Retry(ctx, "append settlement", op)
	} else {
		err = op()
	}
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, domain.ErrGroupNotFound
		}
		return false, err
	}

	return created, nil
}

// GetByKey retrieves a record and its transfers by idempotency key.
func (r *SettlementRepository) GetByKey(ctx context.Context, idempotencyKey string) (*domain.SettlementRecord, error) {
	row, err := r.queries.GetSettlementByKey(ctx, idempotencyKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettlementNotFound
		}
		return nil, err
	}

	records, err := r.withTransfers(ctx, []generated.Settlement{row})
	if err != nil {
		return nil, err
	}

	return records[0], nil
}

// ListByGroup returns one page of the group's records, oldest first.
func (r *SettlementRepository) ListByGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.SettlementRecord, error) {
	rows, err := r.queries.ListSettlementsByGroup(ctx, generated.ListSettlementsByGroupParams{
		GroupID: groupID,
		Limit:   int32(limit),
		Offset:  int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return r.withTransfers(ctx, rows)
}

func (r *SettlementRepository) withTransfers(ctx context.Context, rows []generated.Settlement) ([]*domain.SettlementRecord, error) {
	records := make([]*domain.SettlementRecord, 0, len(rows))
	if len(rows) == 0 {
		return records, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	transfers, err := r.queries.ListSettlementTransfers(ctx, ids)
	if err != nil {
		return nil, err
	}

	bySettlement := make(map[string][]domain.Transfer, len(rows))
	for _, t := range transfers {
		bySettlement[t.SettlementID] = append(bySettlement[t.SettlementID], domain.Transfer{
			FromMemberID: t.FromID,
			ToMemberID:   t.ToID,
			Amount:       domain.Amount(t.AmountMinor),
			Currency:     t.Currency,
		})
	}

	for _, row := range rows {
		records = append(records, &domain.SettlementRecord{
			ID:                row.ID,
			IdempotencyKey:    row.IdempotencyKey,
			GroupID:           row.GroupID,
			InitiatorMemberID: row.InitiatorID,
			Scope: domain.SettlementScope{
				Kind:     domain.ScopeKind(row.ScopeKind),
				MemberID: row.ScopeMemberID,
			},
			Transfers: bySettlement[row.ID],
			Status:    domain.SettlementStatus(row.Status),
			CreatedAt: row.CreatedAt.Time,
		})
	}

	return records, nil
}
