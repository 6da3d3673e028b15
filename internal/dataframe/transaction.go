package dataframe

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one parsed CSV row.
type Transaction struct {
	Date         time.Time
	Amount       float64
	Description  string
	Category     string
	Counterparty string
	Remarks      string
	Line         int

	exact decimal.Decimal
}

// Exact returns the amount as parsed, before float conversion.
func (t Transaction) Exact() decimal.Decimal { return t.exact }

// MonthKey returns the "YYYY-MM" bucket for the transaction date.
func (t Transaction) MonthKey() string {
	return monthKey(t.Date.Year(), t.Date.Month())
}

func newTransaction(date time.Time, amount decimal.Decimal) Transaction {
	return Transaction{
		Date:   date,
		Amount: amount.InexactFloat64(),
		exact:  amount,
	}
}
