// Package dataframe ingests transaction CSV exports and answers aggregate,
// monthly and debt queries over the rows of one sheet.
//
// A DataFrame is not safe for concurrent use. Open one per sheet.
package dataframe

import (
	"github.com/rs/zerolog"
)

// DataFrame owns the transaction store for a single sheet.
type DataFrame struct {
	store      *Store
	parser     ParseOptions
	classifier Classifier
	fuzzy      int
	log        zerolog.Logger
}

// Option configures a DataFrame.
type Option func(*DataFrame)

// WithParser overrides parser settings. Empty fields keep their defaults.
func WithParser(opts ParseOptions) Option {
	return func(df *DataFrame) { df.parser = opts.withDefaults() }
}

// WithClassifier replaces the debt classifier.
func WithClassifier(c Classifier) Option {
	return func(df *DataFrame) {
		if c != nil {
			df.classifier = c
		}
	}
}

// WithFuzzyDistance enables fuzzy debtor search up to n edits per word.
// Zero turns it off.
func WithFuzzyDistance(n int) Option {
	return func(df *DataFrame) {
		if n < 0 {
			n = 0
		}
		df.fuzzy = n
	}
}

// WithLogger sets the logger used for parse summaries.
func WithLogger(l zerolog.Logger) Option {
	return func(df *DataFrame) { df.log = l }
}

// New returns an empty, ready DataFrame.
func New(opts ...Option) *DataFrame {
	df := &DataFrame{
		store:      &Store{},
		parser:     DefaultParseOptions(),
		classifier: NewKeywordClassifier(nil, nil),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(df)
	}
	return df
}

func (df *DataFrame) mustOpen() {
	if df.store == nil {
		panic("dataframe: use of closed DataFrame")
	}
}

// ParseCSV replaces the store with the rows of text. It returns nil when no
// row was usable; the store is empty in that case.
func (df *DataFrame) ParseCSV(text string) *ParseReport {
	df.mustOpen()
	rows, report := parseRecords(text, df.parser)
	df.store.replace(rows)

	df.log.Debug().
		Int("rows_parsed", report.RowsParsed).
		Int("rows_skipped", report.RowsSkipped).
		Int("blank_lines", report.BlankLines).
		Str("strategy", string(report.Strategy)).
		Msg("parsed csv")

	if report.RowsParsed == 0 {
		return nil
	}
	return &report
}

// TotalEarnedVsSpent returns lifetime totals for the current store.
func (df *DataFrame) TotalEarnedVsSpent() AggregateStats {
	df.mustOpen()
	return aggregate(df.store)
}

// InflowsVsOutflows returns per-month inflow and outflow sums.
func (df *DataFrame) InflowsVsOutflows() MonthlySeries {
	df.mustOpen()
	return bucketMonths(df.store)
}

// SearchDebtors returns debt balances whose counterparty matches query.
// An empty query returns every debtor.
func (df *DataFrame) SearchDebtors(query string) []DebtRecord {
	df.mustOpen()
	return searchDebtors(indexDebtors(df.store, df.classifier), query, df.fuzzy)
}

// Transactions returns a copy of the stored rows in source order.
func (df *DataFrame) Transactions() []Transaction {
	df.mustOpen()
	return df.store.Rows()
}

// Len returns the number of stored rows.
func (df *DataFrame) Len() int {
	df.mustOpen()
	return df.store.Len()
}

// Close releases the store. Any later call panics.
func (df *DataFrame) Close() {
	df.mustOpen()
	df.store = nil
}
