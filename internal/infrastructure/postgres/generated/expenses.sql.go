package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createExpense = `-- name: CreateExpense :exec
INSERT INTO expenses (id, group_id, payer_id, amount_minor, currency, category, description, split_kind, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type CreateExpenseParams struct {
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

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) error {
	_, err := q.db.Exec(ctx, createExpense,
		arg.ID,
		arg.GroupID,
		arg.PayerID,
		arg.AmountMinor,
		arg.Currency,
		arg.Category,
		arg.Description,
		arg.SplitKind,
		arg.CreatedAt,
	)
	return err
}

const createExpenseParticipant = `-- name: CreateExpenseParticipant :exec
INSERT INTO expense_participants (expense_id, member_id, position, weight)
VALUES ($1, $2, $3, $4)
`

type CreateExpenseParticipantParams struct {
	ExpenseID string         `json:"expense_id"`
	MemberID  string         `json:"member_id"`
	Position  int32          `json:"position"`
	Weight    pgtype.Numeric `json:"weight"`
}

func (q *Queries) CreateExpenseParticipant(ctx context.Context, arg CreateExpenseParticipantParams) error {
	_, err := q.db.Exec(ctx, createExpenseParticipant,
		arg.ExpenseID,
		arg.MemberID,
		arg.Position,
		arg.Weight,
	)
	return err
}

const listExpensesByGroup = `-- name: ListExpensesByGroup :many
SELECT id, group_id, payer_id, amount_minor, currency, category, description, split_kind, created_at
FROM expenses
WHERE group_id = $1
ORDER BY created_at, id
`

func (q *Queries) ListExpensesByGroup(ctx context.Context, groupID string) ([]Expense, error) {
	rows, err := q.db.Query(ctx, listExpensesByGroup, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Expense
	for rows.Next() {
		var i Expense
		if err := rows.Scan(
			&i.ID,
			&i.GroupID,
			&i.PayerID,
			&i.AmountMinor,
			&i.Currency,
			&i.Category,
			&i.Description,
			&i.SplitKind,
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

const listExpensesByGroupPage = `-- name: ListExpensesByGroupPage :many
SELECT id, group_id, payer_id, amount_minor, currency, category, description, split_kind, created_at
FROM expenses
WHERE group_id = $1
ORDER BY created_at, id
LIMIT $2 OFFSET $3
`

type ListExpensesByGroupPageParams struct {
	GroupID string `json:"group_id"`
	Limit   int32  `json:"limit"`
	Offset  int32  `json:"offset"`
}

func (q *Queries) ListExpensesByGroupPage(ctx context.Context, arg ListExpensesByGroupPageParams) ([]Expense, error) {
	rows, err := q.db.Query(ctx, listExpensesByGroupPage, arg.GroupID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Expense
	for rows.Next() {
		var i Expense
		if err := rows.Scan(
			&i.ID,
			&i.GroupID,
			&i.PayerID,
			&i.AmountMinor,
			&i.Currency,
			&i.Category,
			&i.Description,
			&i.SplitKind,
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

const listParticipantsByExpenseIDs = `-- name: ListParticipantsByExpenseIDs :many
SELECT expense_id, member_id, position, weight
FROM expense_participants
WHERE expense_id = ANY($1::text[])
ORDER BY expense_id, position
`

func (q *Queries) ListParticipantsByExpenseIDs(ctx context.Context, dollar_1 []string) ([]ExpenseParticipant, error) {
	rows, err := q.db.Query(ctx, listParticipantsByExpenseIDs, dollar_1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ExpenseParticipant
	for rows.Next() {
		var i ExpenseParticipant
		if err := rows.Scan(
			&i.ExpenseID,
			&i.MemberID,
			&i.Position,
			&i.Weight,
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
