// Package engine turns an expense history into balances and settlement plans.
//
// Everything here is pure: functions take immutable snapshots of expenses and
// members and return fresh values, so they are safe to call concurrently and
// to re-run at will. Money is integer minor units throughout; shares are
// allocated with the largest-remainder method so they always sum to the
// expense amount exactly.
package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
)

// Share is one participant's portion of an expense.
type Share struct {
	MemberID string
	Amount   domain.Amount
}

// Resolve determines who shares an expense and how much each owes.
// Shares are returned in membership order and sum to the expense amount,
// the payer's own share included. ok is false when no current member can
// be attributed, in which case shares is nil.
func Resolve(expense domain.Expense, members []domain.Member) (shares []Share, ok bool) {
	participants, weights := participantsOf(expense.Split, members)
	if len(participants) == 0 {
		return nil, false
	}

	amounts := allocate(expense.Amount, weights)

	shares = make([]Share, len(participants))
	for i, id := range participants {
		shares[i] = Share{MemberID: id, Amount: amounts[i]}
	}

	return shares, true
}

// Deltas drops the payer's own share and zero shares, leaving only what
// other participants owe the payer.
func Deltas(payerID string, shares []Share) []Share {
	out := make([]Share, 0, len(shares))
	for _, s := range shares {
		if s.MemberID == payerID || s.Amount == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

// participantsOf filters the split's participants to current members, in
// membership order, and returns their weights.
func participantsOf(split domain.SplitAssignment, members []domain.Member) ([]string, []decimal.Decimal) {
	if !split.IsExplicit() {
		ids := domain.MemberIDs(members)
		return ids, equalWeights(len(ids))
	}

	named := make(map[string]bool, len(split.ParticipantIDs))
	for _, id := range split.ParticipantIDs {
		named[id] = true
	}

	var ids []string
	for _, m := range members {
		if named[m.ID] {
			ids = append(ids, m.ID)
		}
	}

	weights := make([]decimal.Decimal, len(ids))
	total := decimal.Zero
	for i, id := range ids {
		if w, ok := split.Shares[id]; ok && w.IsPositive() {
			weights[i] = w
			total = total.Add(w)
		} else {
			weights[i] = decimal.Zero
		}
	}

	// No usable weight among the remaining participants: share equally.
	if total.IsZero() {
		return ids, equalWeights(len(ids))
	}

	return ids, weights
}

func equalWeights(n int) []decimal.Decimal {
	w := make([]decimal.Decimal, n)
	for i := range w {
		w[i] = decimal.NewFromInt(1)
	}
	return w
}

// allocate splits total proportionally to weights. Each part gets the floor
// of its exact share; the leftover minor units go one each to the parts
// with the largest remainders, earlier parts winning ties.
func allocate(total domain.Amount, weights []decimal.Decimal) []domain.Amount {
	sum := decimal.Zero
	for _, w := range weights {
		sum = sum.Add(w)
	}

	parts := make([]domain.Amount, len(weights))
	remainders := make([]decimal.Decimal, len(weights))
	t := decimal.NewFromInt(int64(total))

	var allocated domain.Amount
	for i, w := range weights {
		q, r := t.Mul(w).QuoRem(sum, 0)
		parts[i] = domain.Amount(q.IntPart())
		remainders[i] = r
		allocated += parts[i]
	}

	order := make([]int, len(weights))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]].GreaterThan(remainders[order[b]])
	})

	for k := 0; allocated < total; k++ {
		parts[order[k%len(order)]]++
		allocated++
	}

	return parts
}
