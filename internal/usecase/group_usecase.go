package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/splitledger/internal/domain"
)

// GroupUseCase handles groups and membership.
type GroupUseCase struct {
	groups GroupStore
	idGen  IDGenerator
	clock  Clock
	logger zerolog.Logger
}

// NewGroupUseCase creates a new GroupUseCase.
func NewGroupUseCase(groups GroupStore, idGen IDGenerator, clock Clock, logger zerolog.Logger) *GroupUseCase {
	return &GroupUseCase{
		groups: groups,
		idGen:  idGen,
		clock:  clock,
		logger: logger,
	}
}

// CreateGroupInput represents input for creating a group.
type CreateGroupInput struct {
	Name string
}

// CreateGroup creates an empty group.
func (uc *GroupUseCase) CreateGroup(ctx context.Context, input CreateGroupInput) (*domain.Group, error) {
	name := strings.TrimSpace(input.Name)
	if err := domain.ValidateGroupName(name); err != nil {
		return nil, err
	}

	group := &domain.Group{
		ID:        uc.idGen.Generate(),
		Name:      name,
		CreatedAt: uc.clock.Now().UTC(),
	}

	if err := uc.groups.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	uc.logger.Info().Str("group_id", group.ID).Msg("group created")

	return group, nil
}

// GetGroup retrieves a group by ID.
func (uc *GroupUseCase) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	return uc.groups.GetGroup(ctx, id)
}

// AddMemberInput represents input for adding a member.
type AddMemberInput struct {
	GroupID       string
	DisplayName   string
	PayoutAddress string
}

// AddMember appends a member to the group. Display names are unique within
// a group, compared case-insensitively.
func (uc *GroupUseCase) AddMember(ctx context.Context, input AddMemberInput) (*domain.Member, error) {
	name := strings.TrimSpace(input.DisplayName)
	if err := domain.ValidateDisplayName(name); err != nil {
		return nil, err
	}

	if err := domain.ValidatePayoutAddress(input.PayoutAddress); err != nil {
		return nil, err
	}

	members, err := uc.groups.ListMembers(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}

	for _, m := range members {
		if strings.EqualFold(m.DisplayName, name) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateMember, name)
		}
	}

	member := &domain.Member{
		ID:            uc.idGen.Generate(),
		GroupID:       input.GroupID,
		DisplayName:   name,
		PayoutAddress: input.PayoutAddress,
		CreatedAt:     uc.clock.Now().UTC(),
	}

	if err := uc.groups.AddMember(ctx, member); err != nil {
		return nil, err
	}

	return member, nil
}

// ListMembers lists current members in membership order.
func (uc *GroupUseCase) ListMembers(ctx context.Context, groupID string) ([]domain.Member, error) {
	return uc.groups.ListMembers(ctx, groupID)
}
