package domain

// BalanceKey addresses one member's position in one currency.
type BalanceKey struct {
	MemberID string
	Currency string
}

// Balance is a member's position in a single currency.
// Net = Owed - Owes; positive means others owe this member.
type Balance struct {
	Owed Amount
	Owes Amount
	Net  Amount
}

// BalanceSheet is derived from a group's expenses on every read and never
// stored on its own.
type BalanceSheet struct {
	GroupID string
	// Members lists current members in membership order, followed by
	// former members still referenced as payers, sorted by id.
	Members []string
	// Currencies lists every currency seen, sorted.
	Currencies []string
	Entries    map[BalanceKey]Balance
	// Unattributable holds ids of expenses whose explicit participants have
	// all left the group. They contribute nothing to the sheet.
	Unattributable []string
}

// Get returns the balance for a member in a currency; missing pairs are zero.
func (s *BalanceSheet) Get(memberID, currency string) Balance {
	return s.Entries[BalanceKey{MemberID: memberID, Currency: currency}]
}

// HasMember reports whether the member appears on the sheet.
func (s *BalanceSheet) HasMember(memberID string) bool {
	for _, id := range s.Members {
		if id == memberID {
			return true
		}
	}
	return false
}

// WithTransfers returns a copy of the sheet with the transfers applied as
// completed payments: the sender's net rises and the recipient's falls.
func (s *BalanceSheet) WithTransfers(transfers []Transfer) *BalanceSheet {
	out := &BalanceSheet{
		GroupID:        s.GroupID,
		Members:        append([]string(nil), s.Members...),
		Currencies:     append([]string(nil), s.Currencies...),
		Entries:        make(map[BalanceKey]Balance, len(s.Entries)),
		Unattributable: append([]string(nil), s.Unattributable...),
	}
	for k, v := range s.Entries {
		out.Entries[k] = v
	}

	for _, t := range transfers {
		from := BalanceKey{MemberID: t.FromMemberID, Currency: t.Currency}
		to := BalanceKey{MemberID: t.ToMemberID, Currency: t.Currency}

		fb := out.Entries[from]
		fb.Owed += t.Amount
		fb.Net = fb.Owed - fb.Owes
		out.Entries[from] = fb

		tb := out.Entries[to]
		tb.Owes += t.Amount
		tb.Net = tb.Owed - tb.Owes
		out.Entries[to] = tb
	}

	return out
}
