package dataframe

// AggregateStats are lifetime totals over the whole store.
type AggregateStats struct {
	TotalEarned            float64 `json:"total_earned"`
	TotalSpent             float64 `json:"total_spent"`
	NetIncome              float64 `json:"net_income"`
	LifetimeSavingsDecimal float64 `json:"lifetime_savings_decimal"`
}

func aggregate(s *Store) AggregateStats {
	var stats AggregateStats
	s.each(func(t Transaction) {
		if t.Amount > 0 {
			stats.TotalEarned += t.Amount
		} else {
			stats.TotalSpent += t.Amount
		}
	})
	stats.NetIncome = stats.TotalEarned + stats.TotalSpent
	if stats.TotalEarned != 0 {
		stats.LifetimeSavingsDecimal = stats.NetIncome / stats.TotalEarned
	}
	return stats
}
