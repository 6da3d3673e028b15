package dataframe

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// SkipReason classifies why a record was left out of the store.
type SkipReason string

const (
	SkipDate      SkipReason = "date"
	SkipAmount    SkipReason = "amount"
	SkipMalformed SkipReason = "malformed"
)

// DefaultMaxSkipDiagnostics caps ParseReport.Skips.
const DefaultMaxSkipDiagnostics = 20

// SkipDiagnostic describes one skipped record.
type SkipDiagnostic struct {
	Line   int        `json:"line"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}

// ParseReport summarises a ParseCSV call.
type ParseReport struct {
	RowsParsed     int                `json:"rows_parsed"`
	RowsSkipped    int                `json:"rows_skipped"`
	BlankLines     int                `json:"blank_lines"`
	Skipped        map[SkipReason]int `json:"skipped"`
	HeaderDetected bool               `json:"header_detected"`
	Strategy       Strategy           `json:"strategy"`
	Columns        map[Role]int       `json:"columns"`
	Skips          []SkipDiagnostic   `json:"skips,omitempty"`
}

func (r *ParseReport) skip(line int, reason SkipReason, detail string, limit int) {
	r.RowsSkipped++
	r.Skipped[reason]++
	if len(r.Skips) < limit {
		r.Skips = append(r.Skips, SkipDiagnostic{Line: line, Reason: reason, Detail: detail})
	}
}

// ParseOptions controls how cells are interpreted.
type ParseOptions struct {
	DateLayouts        []string
	StripChars         string
	Aliases            Aliases
	MaxSkipDiagnostics int
}

// DefaultParseOptions returns the built-in parser settings.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		DateLayouts:        DefaultDateLayouts,
		StripChars:         DefaultStripChars,
		Aliases:            DefaultAliases(),
		MaxSkipDiagnostics: DefaultMaxSkipDiagnostics,
	}
}

func (o ParseOptions) withDefaults() ParseOptions {
	def := DefaultParseOptions()
	if len(o.DateLayouts) == 0 {
		o.DateLayouts = def.DateLayouts
	}
	if o.StripChars == "" {
		o.StripChars = def.StripChars
	}
	o.Aliases = def.Aliases.Merge(o.Aliases)
	if o.MaxSkipDiagnostics <= 0 {
		o.MaxSkipDiagnostics = def.MaxSkipDiagnostics
	}
	return o
}

// normalizeText drops a leading BOM and turns bare CR line endings into LF.
// A CR inside a quoted field is field content and stays.
func normalizeText(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	if !strings.Contains(text, "\r") {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	quoted := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"':
			quoted = !quoted
		case c == '\r' && !quoted:
			if i+1 < len(text) && text[i+1] == '\n' {
				continue
			}
			c = '\n'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// parseRecords reads text into transactions. The report is always filled in;
// callers decide what zero usable rows means.
func parseRecords(text string, opts ParseOptions) ([]Transaction, ParseReport) {
	report := ParseReport{Skipped: make(map[SkipReason]int)}

	r := csv.NewReader(strings.NewReader(normalizeText(text)))
	r.FieldsPerRecord = -1

	var (
		rows    []Transaction
		cols    ColumnMap
		decided bool
	)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			line := 0
			if errors.As(err, &pe) {
				line = pe.StartLine
			}
			report.skip(line, SkipMalformed, err.Error(), opts.MaxSkipDiagnostics)
			continue
		}
		line, _ := r.FieldPos(0)
		if isBlankRecord(rec) {
			report.BlankLines++
			continue
		}
		if !decided {
			decided = true
			cols = DetectColumns(rec, opts.Aliases)
			if cols.HeaderDetected() {
				continue
			}
		}

		t, reason, detail := buildTransaction(rec, cols, opts)
		if reason != "" {
			report.skip(line, reason, detail, opts.MaxSkipDiagnostics)
			continue
		}
		t.Line = line
		rows = append(rows, t)
	}

	if !decided {
		cols = positionalColumns()
	}
	report.RowsParsed = len(rows)
	report.HeaderDetected = cols.HeaderDetected()
	report.Strategy = cols.Strategy
	report.Columns = cols.Columns
	return rows, report
}

func buildTransaction(rec []string, cols ColumnMap, opts ParseOptions) (Transaction, SkipReason, string) {
	dateIdx, _ := cols.Index(RoleDate)
	if dateIdx >= len(rec) {
		return Transaction{}, SkipMalformed, "missing date field"
	}
	date, err := ParseDate(rec[dateIdx], opts.DateLayouts)
	if err != nil {
		return Transaction{}, SkipDate, err.Error()
	}

	amount, reason, detail := recordAmount(rec, cols, opts.StripChars)
	if reason != "" {
		return Transaction{}, reason, detail
	}

	t := newTransaction(date, amount)
	t.Description = cell(rec, cols, RoleDescription)
	t.Category = cell(rec, cols, RoleCategory)
	t.Counterparty = cell(rec, cols, RoleCounterparty)
	t.Remarks = cell(rec, cols, RoleRemarks)
	return t, "", ""
}

// recordAmount reads the amount column, or credit minus debit when the sheet
// splits money in and out.
func recordAmount(rec []string, cols ColumnMap, strip string) (decimal.Decimal, SkipReason, string) {
	if idx, ok := cols.Index(RoleAmount); ok {
		if idx >= len(rec) {
			return decimal.Zero, SkipMalformed, "missing amount field"
		}
		d, err := ParseAmount(rec[idx], strip)
		if err != nil {
			return decimal.Zero, SkipAmount, err.Error()
		}
		return d, "", ""
	}

	var (
		total decimal.Decimal
		found bool
	)
	for _, role := range []Role{RoleCredit, RoleDebit} {
		raw := cell(rec, cols, role)
		if raw == "" {
			continue
		}
		d, err := ParseAmount(raw, strip)
		if err != nil {
			return decimal.Zero, SkipAmount, err.Error()
		}
		found = true
		if role == RoleDebit {
			total = total.Sub(d.Abs())
		} else {
			total = total.Add(d.Abs())
		}
	}
	if !found {
		return decimal.Zero, SkipAmount, errEmptyAmount.Error()
	}
	return total, "", ""
}

func cell(rec []string, cols ColumnMap, role Role) string {
	idx, ok := cols.Index(role)
	if !ok || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}
