package engine

import (
	"sort"

	"github.com/iho/splitledger/internal/domain"
)

// Aggregate folds a group's expenses into a balance sheet. Every member
// gets an entry in every currency seen, even when it stays zero. The fold
// only adds, so the result does not depend on the order of expenses.
func Aggregate(groupID string, expenses []domain.Expense, members []domain.Member) *domain.BalanceSheet {
	sheet := &domain.BalanceSheet{
		GroupID: groupID,
		Members: domain.MemberIDs(members),
		Entries: make(map[domain.BalanceKey]domain.Balance),
	}

	current := domain.MemberSet(members)
	currencies := make(map[string]bool)
	former := make(map[string]bool)

	for _, e := range expenses {
		currencies[domain.NormalizeCurrency(e.Currency)] = true
		if !current[e.PayerID] {
			former[e.PayerID] = true
		}
	}

	sheet.Members = append(sheet.Members, sortedKeys(former)...)
	sheet.Currencies = sortedKeys(currencies)

	for _, id := range sheet.Members {
		for _, cur := range sheet.Currencies {
			sheet.Entries[domain.BalanceKey{MemberID: id, Currency: cur}] = domain.Balance{}
		}
	}

	for _, e := range expenses {
		shares, ok := Resolve(e, members)
		if !ok {
			sheet.Unattributable = append(sheet.Unattributable, e.ID)
			continue
		}

		cur := domain.NormalizeCurrency(e.Currency)
		payer := domain.BalanceKey{MemberID: e.PayerID, Currency: cur}

		for _, s := range Deltas(e.PayerID, shares) {
			key := domain.BalanceKey{MemberID: s.MemberID, Currency: cur}

			b := sheet.Entries[key]
			b.Owes += s.Amount
			sheet.Entries[key] = b

			pb := sheet.Entries[payer]
			pb.Owed += s.Amount
			sheet.Entries[payer] = pb
		}
	}

	for k, b := range sheet.Entries {
		b.Net = b.Owed - b.Owes
		sheet.Entries[k] = b
	}

	sort.Strings(sheet.Unattributable)

	return sheet
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
