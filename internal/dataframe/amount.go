package dataframe

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// DefaultStripChars are removed from amount cells before parsing. Unicode
// currency symbols are always removed, this list adds separators and the
// symbols some exports write as letters-adjacent glyphs.
const DefaultStripChars = ",₱$€£¥'"

// maxAmount bounds a single cell so sums stay finite.
var maxAmount = decimal.New(1, 18)

var (
	errEmptyAmount    = errors.New("empty amount")
	errAmountTooLarge = errors.New("amount out of range")
)

// ParseAmount converts a bank-export amount cell into a signed decimal.
// "(12.50)" and "12.50-" are read as negative.
func ParseAmount(raw, stripChars string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, errEmptyAmount
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Sc, r), unicode.IsSpace(r):
			continue
		case strings.ContainsRune(stripChars, r):
			continue
		}
		b.WriteRune(r)
	}
	s = strings.TrimFunc(b.String(), unicode.IsLetter)
	if len(s) > 1 && strings.HasSuffix(s, "-") {
		neg = !neg
		s = strings.TrimSuffix(s, "-")
	}
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return decimal.Zero, errEmptyAmount
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if d.Abs().GreaterThan(maxAmount) {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, errAmountTooLarge)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// FormatAmount renders d rounded to cents with the currency symbol after the
// sign and commas between thousands.
func FormatAmount(d decimal.Decimal, symbol string) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole, frac, _ := strings.Cut(d.StringFixed(2), ".")

	var b strings.Builder
	b.Grow(len(sign) + len(symbol) + len(whole) + len(whole)/3 + 3)
	b.WriteString(sign)
	b.WriteString(symbol)
	for i := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(whole[i])
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
