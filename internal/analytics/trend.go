package analytics

import "math"

// TrendDirection classifies how a metric is moving
type TrendDirection string

const (
	TrendUp       TrendDirection = "up"
	TrendDown     TrendDirection = "down"
	TrendStable   TrendDirection = "stable"
	TrendVolatile TrendDirection = "volatile"
)

// Trend holds the direction and magnitude of the latest movement in a series
type Trend struct {
	Direction   TrendDirection `json:"direction"`
	ChangePct   float64        `json:"change_pct"`
	Granularity string         `json:"granularity"`
}

// Classification bounds for the percentage change between the two latest
// points. Below StableBandPct the movement is noise; above VolatileBandPct it
// is a swing rather than a trend.
const (
	StableBandPct   = 1.0
	VolatileBandPct = 20.0
)

// ComputeTrend compares the two chronologically latest points of a series.
// Series with fewer than two points, or a zero previous value, classify as
// stable with 0% change.
func ComputeTrend(series []DataPoint, granularity string) Trend {
	trend := Trend{
		Direction:   TrendStable,
		Granularity: granularity,
	}

	if len(series) < 2 {
		return trend
	}

	sorted := SortByTime(series)
	latest := sorted[len(sorted)-1].Value
	previous := sorted[len(sorted)-2].Value

	if previous == 0 {
		return trend
	}

	changePct := (latest - previous) / previous * 100
	trend.ChangePct = changePct

	switch {
	case math.Abs(changePct) < StableBandPct:
		trend.Direction = TrendStable
	case math.Abs(changePct) > VolatileBandPct:
		trend.Direction = TrendVolatile
	case changePct > 0:
		trend.Direction = TrendUp
	default:
		trend.Direction = TrendDown
	}

	return trend
}
