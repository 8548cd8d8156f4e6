package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/postgres/generated"
)

// GroupRepository implements usecase.GroupStore.
type GroupRepository struct {
	queries *generated.Queries
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(db DB) *GroupRepository {
	return &GroupRepository{queries: generated.New(db)}
}

// CreateGroup inserts a group.
func (r *GroupRepository) CreateGroup(ctx context.Context, group *domain.Group) error {
	return r.queries.CreateGroup(ctx, generated.CreateGroupParams{
		ID:        group.ID,
		Name:      group.Name,
		CreatedAt: timeToPgTimestamptz(group.CreatedAt),
	})
}

// GetGroup retrieves a group by ID.
func (r *GroupRepository) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	row, err := r.queries.GetGroup(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, err
	}

	return &domain.Group{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt.Time,
	}, nil
}

// AddMember appends a member to the group's join order.
func (r *GroupRepository) AddMember(ctx context.Context, member *domain.Member) error {
	_, err := r.queries.CreateMember(ctx, generated.CreateMemberParams{
		ID:            member.ID,
		GroupID:       member.GroupID,
		DisplayName:   member.DisplayName,
		PayoutAddress: member.PayoutAddress,
		CreatedAt:     timeToPgTimestamptz(member.CreatedAt),
	})
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %s", domain.ErrDuplicateMember, member.DisplayName)
	case isForeignKeyViolation(err):
		return domain.ErrGroupNotFound
	default:
		return err
	}
}

// ListMembers returns members in join order. An unknown group yields
// domain.ErrGroupNotFound rather than an empty list.
func (r *GroupRepository) ListMembers(ctx context.Context, groupID string) ([]domain.Member, error) {
	rows, err := r.queries.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		if _, err := r.GetGroup(ctx, groupID); err != nil {
			return nil, err
		}
	}

	members := make([]domain.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, domain.Member{
			ID:            row.ID,
			GroupID:       row.GroupID,
			DisplayName:   row.DisplayName,
			PayoutAddress: row.PayoutAddress,
			CreatedAt:     row.CreatedAt.Time,
		})
	}

	return members, nil
}
