package analytics

import (
	"math"
	"testing"
	"time"
)

func series(values ...float64) []DataPoint {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]DataPoint, len(values))
	for i, v := range values {
		points[i] = DataPoint{
			Timestamp: base.AddDate(0, 0, i),
			Value:     v,
		}
	}
	return points
}

func TestComputeTrend_Classification(t *testing.T) {
	tests := []struct {
		name        string
		values      []float64
		expectedDir TrendDirection
		expectedPct float64
	}{
		{"small rise is stable", []float64{1000, 1005}, TrendStable, 0.5},
		{"small dip is stable", []float64{1000, 995}, TrendStable, -0.5},
		{"moderate rise is up", []float64{100, 110}, TrendUp, 10},
		{"moderate drop is down", []float64{100, 90}, TrendDown, -10},
		{"large swing up is volatile", []float64{100, 125}, TrendVolatile, 25},
		{"large swing down is volatile", []float64{100, 70}, TrendVolatile, -30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trend := ComputeTrend(series(tt.values...), "month")

			if trend.Direction != tt.expectedDir {
				t.Errorf("Expected direction %s, got %s", tt.expectedDir, trend.Direction)
			}

			if math.Abs(trend.ChangePct-tt.expectedPct) > 1e-9 {
				t.Errorf("Expected change %.2f%%, got %.2f%%", tt.expectedPct, trend.ChangePct)
			}

			if trend.Granularity != "month" {
				t.Errorf("Expected granularity to be carried, got %q", trend.Granularity)
			}
		})
	}
}

func TestComputeTrend_UsesLatestTwoPoints(t *testing.T) {
	// Only the two chronologically latest points matter
	trend := ComputeTrend(series(500, 9999, 100, 110), "snapshot")
	if trend.Direction != TrendUp {
		t.Errorf("Expected up, got %s", trend.Direction)
	}
	if math.Abs(trend.ChangePct-10) > 1e-9 {
		t.Errorf("Expected 10%%, got %.2f%%", trend.ChangePct)
	}
}

func TestComputeTrend_UnsortedInput(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	points := []DataPoint{
		{Timestamp: base.AddDate(0, 0, 2), Value: 110},
		{Timestamp: base, Value: 500},
		{Timestamp: base.AddDate(0, 0, 1), Value: 100},
	}

	trend := ComputeTrend(points, "snapshot")
	if trend.Direction != TrendUp || math.Abs(trend.ChangePct-10) > 1e-9 {
		t.Errorf("Expected chronological ordering before comparison, got %+v", trend)
	}
}

func TestComputeTrend_ShortSeries(t *testing.T) {
	for _, s := range [][]DataPoint{nil, series(42)} {
		trend := ComputeTrend(s, "snapshot")
		if trend.Direction != TrendStable || trend.ChangePct != 0 {
			t.Errorf("Expected stable 0%% for short series, got %+v", trend)
		}
	}
}

func TestComputeTrend_ZeroPrevious(t *testing.T) {
	// Division guard: a zero previous value classifies as stable
	trend := ComputeTrend(series(0, 100), "snapshot")
	if trend.Direction != TrendStable || trend.ChangePct != 0 {
		t.Errorf("Expected stable 0%% for zero previous value, got %+v", trend)
	}
}
