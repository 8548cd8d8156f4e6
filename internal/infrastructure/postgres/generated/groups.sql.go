package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createGroup = `-- name: CreateGroup :exec
INSERT INTO groups (id, name, created_at)
VALUES ($1, $2, $3)
`

type CreateGroupParams struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateGroup(ctx context.Context, arg CreateGroupParams) error {
	_, err := q.db.Exec(ctx, createGroup, arg.ID, arg.Name, arg.CreatedAt)
	return err
}

const createMember = `-- name: CreateMember :one
INSERT INTO members (id, group_id, display_name, payout_address, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING position
`

type CreateMemberParams struct {
	ID            string             `json:"id"`
	GroupID       string             `json:"group_id"`
	DisplayName   string             `json:"display_name"`
	PayoutAddress string             `json:"payout_address"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateMember(ctx context.Context, arg CreateMemberParams) (int64, error) {
	row := q.db.QueryRow(ctx, createMember,
		arg.ID,
		arg.GroupID,
		arg.DisplayName,
		arg.PayoutAddress,
		arg.CreatedAt,
	)
	var position int64
	err := row.Scan(&position)
	return position, err
}

const getGroup = `-- name: GetGroup :one
SELECT id, name, created_at FROM groups WHERE id = $1
`

func (q *Queries) GetGroup(ctx context.Context, id string) (Group, error) {
	row := q.db.QueryRow(ctx, getGroup, id)
	var i Group
	err := row.Scan(&i.ID, &i.Name, &i.CreatedAt)
	return i, err
}

const listMembers = `-- name: ListMembers :many
SELECT id, group_id, display_name, payout_address, position, created_at
FROM members
WHERE group_id = $1
ORDER BY position
`

func (q *Queries) ListMembers(ctx context.Context, groupID string) ([]Member, error) {
	rows, err := q.db.Query(ctx, listMembers, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Member
	for rows.Next() {
		var i Member
		if err := rows.Scan(
			&i.ID,
			&i.GroupID,
			&i.DisplayName,
			&i.PayoutAddress,
			&i.Position,
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
