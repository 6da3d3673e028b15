package dataframe

import (
	"strings"
)

// Role is the meaning of a CSV column.
type Role string

const (
	RoleDate         Role = "date"
	RoleAmount       Role = "amount"
	RoleDescription  Role = "description"
	RoleCategory     Role = "category"
	RoleCounterparty Role = "counterparty"
	RoleRemarks      Role = "remarks"
	RoleDebit        Role = "debit"
	RoleCredit       Role = "credit"
)

// roleOrder fixes which role claims a column first when aliases overlap.
var roleOrder = []Role{
	RoleDate, RoleAmount, RoleDebit, RoleCredit,
	RoleDescription, RoleCategory, RoleCounterparty, RoleRemarks,
}

// Strategy records how columns were resolved.
type Strategy string

const (
	StrategyNamed      Strategy = "named"
	StrategyPositional Strategy = "positional"
)

// Aliases maps each role to the header names that identify it.
type Aliases map[Role][]string

// DefaultAliases returns the built-in header alias sets.
func DefaultAliases() Aliases {
	return Aliases{
		RoleDate:         {"date", "transaction date", "posted date", "posting date", "value date", "booking date"},
		RoleAmount:       {"amount", "value", "amt", "transaction amount"},
		RoleDescription:  {"description", "memo", "payee", "transaction", "details", "narrative", "particulars"},
		RoleCategory:     {"category", "tags", "tag"},
		RoleCounterparty: {"id", "counterparty", "debtor", "creditor", "person", "contact"},
		RoleRemarks:      {"remarks", "notes", "note", "comment"},
		RoleDebit:        {"debit", "withdrawal", "withdrawals", "money out", "paid out"},
		RoleCredit:       {"credit", "deposit", "deposits", "money in", "paid in"},
	}
}

// Merge overlays non-empty alias lists from other onto a copy of a.
func (a Aliases) Merge(other Aliases) Aliases {
	out := make(Aliases, len(a))
	for role, names := range a {
		out[role] = append([]string(nil), names...)
	}
	for role, names := range other {
		if len(names) > 0 {
			out[role] = append([]string(nil), names...)
		}
	}
	return out
}

// ColumnMap is the outcome of column detection.
type ColumnMap struct {
	Strategy Strategy     `json:"strategy"`
	Columns  map[Role]int `json:"columns"`
}

// Index returns the column index assigned to role.
func (m ColumnMap) Index(role Role) (int, bool) {
	i, ok := m.Columns[role]
	return i, ok
}

// HeaderDetected reports whether the first record was consumed as a header.
func (m ColumnMap) HeaderDetected() bool { return m.Strategy == StrategyNamed }

// DetectColumns resolves column roles from the first non-blank record: a
// named match against aliases when it finds a date and an amount source,
// otherwise the positional layout date, amount, description.
func DetectColumns(first []string, aliases Aliases) ColumnMap {
	if len(aliases) == 0 {
		aliases = DefaultAliases()
	}
	if m, ok := matchNamed(first, aliases); ok {
		return m
	}
	return positionalColumns()
}

func matchNamed(header []string, aliases Aliases) (ColumnMap, bool) {
	lookup := make(map[string]Role)
	for _, role := range roleOrder {
		for _, name := range aliases[role] {
			key := normalizeHeader(name)
			if _, taken := lookup[key]; !taken && key != "" {
				lookup[key] = role
			}
		}
	}

	cols := make(map[Role]int)
	for i, cell := range header {
		role, ok := lookup[normalizeHeader(cell)]
		if !ok {
			continue
		}
		if _, seen := cols[role]; !seen {
			cols[role] = i
		}
	}

	_, hasDate := cols[RoleDate]
	_, hasAmount := cols[RoleAmount]
	_, hasDebit := cols[RoleDebit]
	_, hasCredit := cols[RoleCredit]
	if !hasDate || !(hasAmount || hasDebit || hasCredit) {
		return ColumnMap{}, false
	}
	return ColumnMap{Strategy: StrategyNamed, Columns: cols}, true
}

func positionalColumns() ColumnMap {
	return ColumnMap{
		Strategy: StrategyPositional,
		Columns: map[Role]int{
			RoleDate:        0,
			RoleAmount:      1,
			RoleDescription: 2,
		},
	}
}

// normalizeHeader lower-cases, drops a parenthesised suffix such as
// "Amount (PHP)" and collapses inner whitespace.
func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	if i := strings.Index(s, "("); i > 0 {
		s = s[:i]
	}
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
