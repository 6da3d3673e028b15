// Package insights shapes engine output for charts and tables.
package insights

import (
	"math"

	"github.com/jask/quarta/internal/dataframe"
)

// WindowResult is an inclusive month slice of a series with its averages.
type WindowResult struct {
	dataframe.MonthlySeries
	SavingsAverage float64 `json:"savings_average"`
	AverageIn      float64 `json:"average_in"`
	AverageOut     float64 `json:"average_out"`
}

// Window slices series to [minMonth, maxMonth]. An empty or unknown bound
// leaves that side at the series edge; a start past the end yields an empty
// window.
func Window(series dataframe.MonthlySeries, minMonth, maxMonth string) WindowResult {
	start, end := 0, series.Len()-1
	if i := indexOf(series.Months, minMonth); i >= 0 {
		start = i
	}
	if i := indexOf(series.Months, maxMonth); i >= 0 {
		end = i
	}

	res := WindowResult{MonthlySeries: dataframe.MonthlySeries{
		Months:   []string{},
		Inflows:  []float64{},
		Outflows: []float64{},
	}}
	if start > end {
		return res
	}
	res.Months = append(res.Months, series.Months[start:end+1]...)
	res.Inflows = append(res.Inflows, series.Inflows[start:end+1]...)
	res.Outflows = append(res.Outflows, series.Outflows[start:end+1]...)

	var in, out float64
	for i := range res.Months {
		in += res.Inflows[i]
		out += math.Abs(res.Outflows[i])
	}
	n := float64(res.Len())
	if in > 0 {
		res.SavingsAverage = (in - out) / in
	}
	res.AverageIn = in / n
	res.AverageOut = out / n
	return res
}

func indexOf(months []string, key string) int {
	if key == "" {
		return -1
	}
	for i, m := range months {
		if m == key {
			return i
		}
	}
	return -1
}
