package dataframe

import "sort"

// MonthlySeries holds aligned per-month sums. Months are "YYYY-MM" keys in
// calendar order and only months with transactions appear.
type MonthlySeries struct {
	Months   []string  `json:"months"`
	Inflows  []float64 `json:"inflows"`
	Outflows []float64 `json:"outflows"`
}

// Len returns the number of months in the series.
func (m MonthlySeries) Len() int { return len(m.Months) }

type monthBucket struct {
	in, out float64
}

func bucketMonths(s *Store) MonthlySeries {
	buckets := make(map[string]*monthBucket)
	s.each(func(t Transaction) {
		key := t.MonthKey()
		b, ok := buckets[key]
		if !ok {
			b = &monthBucket{}
			buckets[key] = b
		}
		if t.Amount > 0 {
			b.in += t.Amount
		} else {
			b.out += t.Amount
		}
	})

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	// Zero-padded keys sort lexically in calendar order.
	sort.Strings(keys)

	series := MonthlySeries{
		Months:   keys,
		Inflows:  make([]float64, len(keys)),
		Outflows: make([]float64, len(keys)),
	}
	for i, k := range keys {
		series.Inflows[i] = buckets[k].in
		series.Outflows[i] = buckets[k].out
	}
	return series
}
