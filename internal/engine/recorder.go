package engine

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"
	"strconv"
	"time"

	"github.com/iho/splitledger/internal/domain"
)

// keyVersion is mixed into every idempotency key so the encoding can change
// without colliding with keys already stored.
const keyVersion = "v1"

// Clock supplies the record's creation time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// IdempotencyKey hashes the identity of a settlement action. Transfers are
// sorted first, so the same transfers in a different order give the same key.
func IdempotencyKey(groupID, initiatorID string, scope domain.SettlementScope, transfers []domain.Transfer) string {
	sorted := append([]domain.Transfer(nil), transfers...)
	sort.Slice(sorted, func(a, b int) bool {
		x, y := sorted[a], sorted[b]
		if x.Currency != y.Currency {
			return x.Currency < y.Currency
		}
		if x.FromMemberID != y.FromMemberID {
			return x.FromMemberID < y.FromMemberID
		}
		if x.ToMemberID != y.ToMemberID {
			return x.ToMemberID < y.ToMemberID
		}
		return x.Amount < y.Amount
	})

	h := sha256.New()
	field := func(s string) {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(s)))
		h.Write(n[:])
		h.Write([]byte(s))
	}

	field(keyVersion)
	field(groupID)
	field(initiatorID)
	field(string(scope.Kind))
	field(scope.MemberID)
	field(strconv.Itoa(len(sorted)))
	for _, t := range sorted {
		field(t.Currency)
		field(t.FromMemberID)
		field(t.ToMemberID)
		field(strconv.FormatInt(int64(t.Amount), 10))
	}

	return hex.EncodeToString(h.Sum(nil))
}

// Record builds the settlement record for a plan together with the
// notifications owed to each recipient. It performs no I/O; persisting the
// record at most once per key is the store's job. Notifications are one per
// distinct recipient and currency, in order of first appearance.
func Record(plan *domain.SettlementPlan, initiatorID, groupID string, clock Clock) (*domain.SettlementRecord, []domain.Notification) {
	key := IdempotencyKey(groupID, initiatorID, plan.Scope, plan.Transfers)

	record := &domain.SettlementRecord{
		IdempotencyKey:    key,
		GroupID:           groupID,
		InitiatorMemberID: initiatorID,
		Scope:             plan.Scope,
		Transfers:         append([]domain.Transfer(nil), plan.Transfers...),
		Status:            domain.SettlementStatusCompleted,
		CreatedAt:         clock.Now().UTC(),
	}

	return record, Notifications(record)
}

// Notifications derives the payment-due notices for a record.
func Notifications(record *domain.SettlementRecord) []domain.Notification {
	type recipient struct {
		id       string
		currency string
	}

	index := make(map[recipient]int)
	var out []domain.Notification

	for _, t := range record.Transfers {
		r := recipient{id: t.ToMemberID, currency: t.Currency}
		if i, ok := index[r]; ok {
			out[i].Amount += t.Amount
			continue
		}
		index[r] = len(out)
		out = append(out, domain.Notification{
			RecipientID:   t.ToMemberID,
			Amount:        t.Amount,
			Currency:      t.Currency,
			InitiatorID:   record.InitiatorMemberID,
			GroupID:       record.GroupID,
			SettlementKey: record.IdempotencyKey,
		})
	}

	return out
}
