package dataframe

import (
	"strings"
	"unicode"
)

// Classifier decides whether a transaction belongs to a borrower/lender
// relationship and, if so, who the other party is.
type Classifier interface {
	Classify(t Transaction) (identity string, ok bool)
}

// DefaultDebtTerms are the tags and keywords KeywordClassifier uses when none
// are configured.
var DefaultDebtTerms = []string{
	"debt", "loan", "lend", "lent", "borrow", "borrowed", "utang", "owe", "owed", "iou",
}

// KeywordClassifier marks a row as debt-like when its category carries one of
// Tags or its description or remarks mention one of Keywords. Terms match
// whole words, case-insensitively.
type KeywordClassifier struct {
	Tags     []string
	Keywords []string
}

// NewKeywordClassifier builds a classifier, falling back to DefaultDebtTerms
// for an empty list.
func NewKeywordClassifier(tags, keywords []string) KeywordClassifier {
	if len(tags) == 0 {
		tags = DefaultDebtTerms
	}
	if len(keywords) == 0 {
		keywords = DefaultDebtTerms
	}
	return KeywordClassifier{Tags: tags, Keywords: keywords}
}

// Classify implements Classifier. The identity is the counterparty column when
// present, otherwise the description.
func (c KeywordClassifier) Classify(t Transaction) (string, bool) {
	if !containsTerm(t.Category, c.Tags) &&
		!containsTerm(t.Description, c.Keywords) &&
		!containsTerm(t.Remarks, c.Keywords) {
		return "", false
	}
	id := strings.TrimSpace(t.Counterparty)
	if id == "" {
		id = strings.TrimSpace(t.Description)
	}
	if id == "" {
		return "", false
	}
	return id, true
}

func containsTerm(text string, terms []string) bool {
	if text == "" {
		return false
	}
	haystack := " " + strings.Join(wordTokens(text), " ") + " "
	for _, term := range terms {
		words := wordTokens(term)
		if len(words) == 0 {
			continue
		}
		if strings.Contains(haystack, " "+strings.Join(words, " ")+" ") {
			return true
		}
	}
	return false
}

func wordTokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// normalizeIdentity is the grouping key for a counterparty.
func normalizeIdentity(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
