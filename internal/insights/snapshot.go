package insights

import (
	"github.com/jask/quarta/internal/dataframe"
)

// Query selects what a Snapshot shows.
type Query struct {
	Debtors  string `json:"debtors"`
	MinMonth string `json:"min_month,omitempty"`
	MaxMonth string `json:"max_month,omitempty"`
}

// Snapshot is everything the insights view renders for one sheet.
type Snapshot struct {
	Stats   dataframe.AggregateStats `json:"stats"`
	Series  dataframe.MonthlySeries  `json:"series"`
	Window  WindowResult             `json:"window"`
	Debtors []dataframe.DebtRecord   `json:"debtors"`
}

// Source is the read side of a DataFrame.
type Source interface {
	TotalEarnedVsSpent() dataframe.AggregateStats
	InflowsVsOutflows() dataframe.MonthlySeries
	SearchDebtors(query string) []dataframe.DebtRecord
}

// Build queries src once for each part of the snapshot.
func Build(src Source, q Query) Snapshot {
	series := src.InflowsVsOutflows()
	return Snapshot{
		Stats:   src.TotalEarnedVsSpent(),
		Series:  series,
		Window:  Window(series, q.MinMonth, q.MaxMonth),
		Debtors: src.SearchDebtors(q.Debtors),
	}
}
