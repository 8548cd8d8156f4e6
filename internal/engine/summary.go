package engine

import (
	"sort"

	"github.com/iho/splitledger/internal/domain"
)

// SpendingTotal is what a group spent in one category and currency.
type SpendingTotal struct {
	Currency string
	Category domain.Category
	Amount   domain.Amount
	Count    int
}

// Summarize totals expenses by currency and category, sorted by both.
// Expenses without a category count as Other.
func Summarize(expenses []domain.Expense) []SpendingTotal {
	type key struct {
		currency string
		category domain.Category
	}

	totals := make(map[key]*SpendingTotal)
	for _, e := range expenses {
		category := e.Category
		if category == "" {
			category = domain.CategoryOther
		}
		k := key{currency: domain.NormalizeCurrency(e.Currency), category: category}
		t, ok := totals[k]
		if !ok {
			t = &SpendingTotal{Currency: k.currency, Category: k.category}
			totals[k] = t
		}
		t.Amount += e.Amount
		t.Count++
	}

	out := make([]SpendingTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Currency != out[b].Currency {
			return out[a].Currency < out[b].Currency
		}
		return out[a].Category < out[b].Category
	})

	return out
}
