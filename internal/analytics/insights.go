package analytics

import "fmt"

// InsightInput bundles what the insight rules evaluate for one metric
type InsightInput struct {
	MetricName string
	Trend      Trend
	Current    float64
	Target     float64 // 0 means no target configured
	Anomalies  int
}

// Rule thresholds for insight generation
const (
	insightTrendPct    = 10.0
	insightAheadRatio  = 110.0
	insightBehindRatio = 80.0
)

// GenerateInsights produces natural-language observations for a metric by
// evaluating simple rule thresholds over its trend, target attainment, and
// detected anomalies. Pure rule evaluation; no side effects beyond the
// returned text.
func GenerateInsights(input InsightInput) []string {
	var insights []string

	if input.Trend.ChangePct > insightTrendPct {
		insights = append(insights, fmt.Sprintf(
			"%s is trending up %.1f%% versus the previous %s",
			input.MetricName, input.Trend.ChangePct, granularityLabel(input.Trend.Granularity)))
	} else if input.Trend.ChangePct < -insightTrendPct {
		insights = append(insights, fmt.Sprintf(
			"%s is trending down %.1f%% versus the previous %s",
			input.MetricName, -input.Trend.ChangePct, granularityLabel(input.Trend.Granularity)))
	}

	if input.Target != 0 {
		ratio := input.Current / input.Target * 100
		if ratio > insightAheadRatio {
			insights = append(insights, fmt.Sprintf(
				"%s is at %.0f%% of target, well ahead of plan",
				input.MetricName, ratio))
		} else if ratio < insightBehindRatio {
			insights = append(insights, fmt.Sprintf(
				"%s is at %.0f%% of target and needs attention",
				input.MetricName, ratio))
		}
	}

	if input.Anomalies > 0 {
		insights = append(insights, fmt.Sprintf(
			"%d anomalous data point(s) detected in %s history",
			input.Anomalies, input.MetricName))
	}

	return insights
}

func granularityLabel(granularity string) string {
	if granularity == "" {
		return "period"
	}
	return granularity
}
