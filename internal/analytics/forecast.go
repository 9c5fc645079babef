package analytics

import (
	"math"
	"time"
)

// ForecastPoint is one projected future value with its confidence
type ForecastPoint struct {
	Timestamp  time.Time `json:"timestamp"`
	Value      float64   `json:"value"`
	Confidence float64   `json:"confidence"`
}

// defaultStep is the projection spacing when the series has fewer than two
// points and no observed interval exists
const defaultStep = 24 * time.Hour

// Forecast projects future values with an ordinary least-squares regression
// over the index/value pairs of the time-sorted series. Projected points are
// spaced at the last observed interval, values are floored at 0 (KPIs are
// never negative), and confidence decays per step as
// max(0.5, 0.95 − 0.05×stepsAhead).
func Forecast(series []DataPoint, periods int) []ForecastPoint {
	if len(series) == 0 || periods <= 0 {
		return nil
	}

	sorted := SortByTime(series)
	slope, intercept := linearRegression(Values(sorted))

	step := defaultStep
	if len(sorted) >= 2 {
		step = sorted[len(sorted)-1].Timestamp.Sub(sorted[len(sorted)-2].Timestamp)
	}

	last := sorted[len(sorted)-1]
	n := len(sorted)

	forecast := make([]ForecastPoint, 0, periods)
	for ahead := 1; ahead <= periods; ahead++ {
		value := intercept + slope*float64(n-1+ahead)
		if value < 0 {
			value = 0
		}

		forecast = append(forecast, ForecastPoint{
			Timestamp:  last.Timestamp.Add(time.Duration(ahead) * step),
			Value:      value,
			Confidence: math.Max(0.5, 0.95-0.05*float64(ahead)),
		})
	}

	return forecast
}

// linearRegression fits y = slope*x + intercept over x = 0..n-1.
// A degenerate fit (fewer than two points) yields a flat line.
func linearRegression(values []float64) (slope, intercept float64) {
	n := float64(len(values))
	if n == 0 {
		return 0, 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denominator := n*sumXX - sumX*sumX
	if denominator == 0 {
		return 0, sumY / n
	}

	slope = (n*sumXY - sumX*sumY) / denominator
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
