package dataframe

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"
)

// Direction says which side of a debt the user is on.
type Direction string

const (
	OwedToUser Direction = "OwedToUser"
	OwedByUser Direction = "OwedByUser"
)

// DebtRecord is the running balance with one counterparty.
type DebtRecord struct {
	ID        string    `json:"id"`
	Balance   float64   `json:"balance"`
	Paid      bool      `json:"paid"`
	Direction Direction `json:"direction"`
}

type debtEntry struct {
	key     string
	id      string
	balance decimal.Decimal
}

func (e *debtEntry) record() DebtRecord {
	dir := OwedToUser
	if e.balance.IsNegative() {
		dir = OwedByUser
	}
	return DebtRecord{
		ID:        e.id,
		Balance:   e.balance.InexactFloat64(),
		Paid:      e.balance.IsZero(),
		Direction: dir,
	}
}

// indexDebtors groups debt-like rows by normalized identity, keeping the
// order in which each identity first appears.
func indexDebtors(s *Store, c Classifier) []*debtEntry {
	var entries []*debtEntry
	byKey := make(map[string]*debtEntry)
	s.each(func(t Transaction) {
		id, ok := c.Classify(t)
		if !ok {
			return
		}
		key := normalizeIdentity(id)
		if key == "" {
			return
		}
		e, seen := byKey[key]
		if !seen {
			e = &debtEntry{key: key, id: id}
			byKey[key] = e
			entries = append(entries, e)
		}
		e.balance = e.balance.Add(t.Exact())
	})
	return entries
}

func searchDebtors(entries []*debtEntry, query string, fuzzy int) []DebtRecord {
	q := normalizeIdentity(query)
	out := make([]DebtRecord, 0, len(entries))
	for _, e := range entries {
		if q == "" || strings.Contains(e.key, q) || fuzzyMatch(e.key, q, fuzzy) {
			out = append(out, e.record())
		}
	}
	return out
}

// fuzzyMatch reports whether every query word is within maxDist edits of some
// word of the identity.
func fuzzyMatch(key, query string, maxDist int) bool {
	if maxDist <= 0 {
		return false
	}
	words := strings.Fields(key)
	for _, qw := range strings.Fields(query) {
		matched := false
		for _, w := range words {
			if levenshtein.ComputeDistance(qw, w) <= maxDist {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
