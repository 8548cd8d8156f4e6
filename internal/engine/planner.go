package engine

import (
	"github.com/shopspring/decimal"

	"github.com/iho/splitledger/internal/domain"
)

// Planner matches debtors to creditors, one currency at a time.
//
// Matching is greedy in membership order: the first unsettled debtor pays
// the first unsettled creditor as much as either side allows, and whichever
// side reaches zero is passed over. This yields at most
// debtors+creditors-1 transfers per currency. It is not a minimum-transfer
// solver; the output is stable for a given sheet, which keeps plans easy to
// audit.
type Planner struct {
	epsilon decimal.Decimal
}

// NewPlanner returns a planner that treats balances within epsilon
// currency units of zero as settled. A negative epsilon is treated as zero.
func NewPlanner(epsilon decimal.Decimal) *Planner {
	if epsilon.IsNegative() {
		epsilon = decimal.Zero
	}
	return &Planner{epsilon: epsilon}
}

// Epsilon returns the planner's tolerance in currency units.
func (p *Planner) Epsilon() decimal.Decimal {
	return p.epsilon
}

type party struct {
	id        string
	remaining domain.Amount
}

// Plan builds the transfers that settle the sheet within the given scope.
// For an individual scope it returns ErrInsufficientDebt when the member
// owes nothing beyond epsilon in any currency. A full scope with nothing
// to settle returns an empty plan.
func (p *Planner) Plan(sheet *domain.BalanceSheet, scope domain.SettlementScope) (*domain.SettlementPlan, error) {
	if scope.IsIndividual() && !p.owesAnything(sheet, scope.MemberID) {
		return nil, domain.ErrInsufficientDebt
	}

	plan := &domain.SettlementPlan{
		GroupID:         sheet.GroupID,
		Scope:           scope,
		Transfers:       []domain.Transfer{},
		TotalByCurrency: make(map[string]domain.Amount),
	}

	for _, cur := range sheet.Currencies {
		transfers := p.planCurrency(sheet, cur, scope)
		for _, t := range transfers {
			plan.TotalByCurrency[cur] += t.Amount
		}
		plan.Transfers = append(plan.Transfers, transfers...)
	}

	if scope.IsIndividual() && len(plan.Transfers) == 0 {
		return nil, domain.ErrInsufficientDebt
	}

	return plan, nil
}

func (p *Planner) owesAnything(sheet *domain.BalanceSheet, memberID string) bool {
	if !sheet.HasMember(memberID) {
		return false
	}
	for _, cur := range sheet.Currencies {
		if sheet.Get(memberID, cur).Net < -domain.Epsilon(p.epsilon, cur) {
			return true
		}
	}
	return false
}

func (p *Planner) planCurrency(sheet *domain.BalanceSheet, currency string, scope domain.SettlementScope) []domain.Transfer {
	eps := domain.Epsilon(p.epsilon, currency)

	var debtors, creditors []party
	for _, id := range sheet.Members {
		net := sheet.Get(id, currency).Net
		switch {
		case net < -eps:
			if scope.IsIndividual() && id != scope.MemberID {
				continue
			}
			debtors = append(debtors, party{id: id, remaining: -net})
		case net > eps:
			creditors = append(creditors, party{id: id, remaining: net})
		}
	}

	var transfers []domain.Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		d, c := &debtors[i], &creditors[j]

		amount := min(d.remaining, c.remaining)
		transfers = append(transfers, domain.Transfer{
			FromMemberID: d.id,
			ToMemberID:   c.id,
			Amount:       amount,
			Currency:     currency,
		})
		d.remaining -= amount
		c.remaining -= amount

		if d.remaining <= eps {
			i++
		}
		if c.remaining <= eps {
			j++
		}
	}

	return transfers
}
