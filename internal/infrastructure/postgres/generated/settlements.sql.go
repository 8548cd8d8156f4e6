package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createSettlementTransfer = `-- name: CreateSettlementTransfer :exec
INSERT INTO settlement_transfers (settlement_id, seq, from_id, to_id, amount_minor, currency)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreateSettlementTransferParams struct {
	SettlementID string `json:"settlement_id"`
	Seq          int32  `json:"seq"`
	FromID       string `json:"from_id"`
	ToID         string `json:"to_id"`
	AmountMinor  int64  `json:"amount_minor"`
	Currency     string `json:"currency"`
}

func (q *Queries) CreateSettlementTransfer(ctx context.Context, arg CreateSettlementTransferParams) error {
	_, err := q.db.Exec(ctx, createSettlementTransfer,
		arg.SettlementID,
		arg.Seq,
		arg.FromID,
		arg.ToID,
		arg.AmountMinor,
		arg.Currency,
	)
	return err
}

const getSettlementByKey = `-- name: GetSettlementByKey :one
SELECT id, idempotency_key, group_id, initiator_id, scope_kind, scope_member_id, status, created_at
FROM settlements
WHERE idempotency_key = $1
`

func (q *Queries) GetSettlementByKey(ctx context.Context, idempotencyKey string) (Settlement, error) {
	row := q.db.QueryRow(ctx, getSettlementByKey, idempotencyKey)
	var i Settlement
	err := row.Scan(
		&i.ID,
		&i.IdempotencyKey,
		&i.GroupID,
		&i.InitiatorID,
		&i.ScopeKind,
		&i.ScopeMemberID,
		&i.Status,
		&i.CreatedAt,
	)
	return i, err
}

const insertSettlement = `-- name: InsertSettlement :execrows
INSERT INTO settlements (id, idempotency_key, group_id, initiator_id, scope_kind, scope_member_id, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (idempotency_key) DO NOTHING
`

type InsertSettlementParams struct {
	ID             string             `json:"id"`
	IdempotencyKey string             `json:"idempotency_key"`
	GroupID        string             `json:"group_id"`
	InitiatorID    string             `json:"initiator_id"`
	ScopeKind      string             `json:"scope_kind"`
	ScopeMemberID  string             `json:"scope_member_id"`
	Status         string             `json:"status"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) InsertSettlement(ctx context.Context, arg InsertSettlementParams) (int64, error) {
	result, err := q.db.Exec(ctx, insertSettlement,
		arg.ID,
		arg.IdempotencyKey,
		arg.GroupID,
		arg.InitiatorID,
		arg.ScopeKind,
		arg.ScopeMemberID,
		arg.Status,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listSettlementTransfers = `-- name: ListSettlementTransfers :many
SELECT settlement_id, seq, from_id, to_id, amount_minor, currency
FROM settlement_transfers
WHERE settlement_id = ANY($1::text[])
ORDER BY settlement_id, seq
`

func (q *Queries) ListSettlementTransfers(ctx context.Context, dollar_1 []string) ([]SettlementTransfer, error) {
	rows, err := q.db.Query(ctx, listSettlementTransfers, dollar_1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SettlementTransfer
	for rows.Next() {
		var i SettlementTransfer
		if err := rows.Scan(
			&i.SettlementID,
			&i.Seq,
			&i.FromID,
			&i.ToID,
			&i.AmountMinor,
			&i.Currency,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listSettlementsByGroup = `-- name: ListSettlementsByGroup :many
SELECT id, idempotency_key, group_id, initiator_id, scope_kind, scope_member_id, status, created_at
FROM settlements
WHERE group_id = $1
ORDER BY created_at, id
LIMIT $2 OFFSET $3
`

type ListSettlementsByGroupParams struct {
	GroupID string `json:"group_id"`
	Limit   int32  `json:"limit"`
	Offset  int32  `json:"offset"`
}

func (q *Queries) ListSettlementsByGroup(ctx context.Context, arg ListSettlementsByGroupParams) ([]Settlement, error) {
	rows, err := q.db.Query(ctx, listSettlementsByGroup, arg.GroupID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Settlement
	for rows.Next() {
		var i Settlement
		if err := rows.Scan(
			&i.ID,
			&i.IdempotencyKey,
			&i.GroupID,
			&i.InitiatorID,
			&i.ScopeKind,
			&i.ScopeMemberID,
			&i.Status,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
