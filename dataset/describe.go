package dataset

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnSummary holds describe()-style statistics for one numeric column.
type ColumnSummary struct {
	Name   string
	Count  int
	Mean   float64
	Std    float64 // sample standard deviation (n-1)
	Min    float64
	Q25    float64
	Median float64
	Q75    float64
	Max    float64
}

// Describe summarises every numeric column of ds in file order.
func Describe(ds *Dataset) []ColumnSummary {
	cols := ds.NumericColumns()
	out := make([]ColumnSummary, 0, len(cols))
	for _, name := range cols {
		values, _ := ds.Column(name)
		out = append(out, Summarize(name, values))
	}
	return out
}

// Summarize computes the statistics for a single column. An empty column
// yields NaN for every statistic except Count.
func Summarize(name string, values []float64) ColumnSummary {
	s := ColumnSummary{Name: name, Count: len(values)}
	if len(values) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Median, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s.Mean, s.Std = stat.MeanStdDev(sorted, nil)
	if len(sorted) == 1 {
		s.Std = math.NaN()
	}
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.Q25 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.5)
	s.Q75 = quantile(sorted, 0.75)
	return s
}

// quantile interpolates linearly between order statistics at (n-1)p, the
// convention used by pandas' describe(). sorted must be ascending.
func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	hi := math.Ceil(h)
	if lo == hi {
		return sorted[int(lo)]
	}
	return sorted[int(lo)] + (h-lo)*(sorted[int(hi)]-sorted[int(lo)])
}
