// Package analytics provides the small numerical toolkit behind the metric
// layer: trend classification, least-squares forecasting, z-score anomaly
// detection, Pearson correlation, and rule-based insight text.
//
// All functions operate on bounded in-memory series and guard every division
// so degenerate inputs (empty series, zero variance, zero previous value)
// produce neutral results instead of NaN.
package analytics

import (
	"sort"
	"time"
)

// DataPoint is the universal unit for historical series, predictions, and
// anomaly flags.
type DataPoint struct {
	Timestamp time.Time         `json:"timestamp"`
	Value     float64           `json:"value"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// SortByTime returns a copy of the series ordered chronologically.
// The input slice is never mutated.
func SortByTime(series []DataPoint) []DataPoint {
	sorted := make([]DataPoint, len(series))
	copy(sorted, series)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	return sorted
}

// Values extracts the value column of a series
func Values(series []DataPoint) []float64 {
	values := make([]float64, len(series))
	for i, point := range series {
		values[i] = point.Value
	}
	return values
}
