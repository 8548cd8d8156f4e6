package domain

import "time"

// Group is a set of members sharing expenses.
type Group struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Member belongs to exactly one group. Members are listed in the order they
// joined; that order drives every deterministic tie-break in the engine.
type Member struct {
	ID          string
	GroupID     string
	DisplayName string
	// PayoutAddress is owned by the external wallet collaborator.
	PayoutAddress string
	CreatedAt     time.Time
}

// MemberIDs returns member ids in membership order.
func MemberIDs(members []Member) []string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}

// MemberSet indexes member ids for membership checks.
func MemberSet(members []Member) map[string]bool {
	set := make(map[string]bool, len(members))
	for _, m := range members {
		set[m.ID] = true
	}
	return set
}
