package analytics

import "math"

// DefaultAnomalyThreshold is the z-score bound above which a point is flagged
const DefaultAnomalyThreshold = 2.0

// Anomaly is a data point whose distance from the series mean, measured in
// standard deviations, exceeded the detection threshold.
type Anomaly struct {
	Point  DataPoint `json:"point"`
	ZScore float64   `json:"z_score"`
}

// DetectAnomalies flags points with |value−mean|/stddev above the threshold,
// using the population standard deviation. Series with fewer than three
// points carry too little signal and yield no anomalies, as does a constant
// series (zero standard deviation). A non-positive threshold selects the
// default of 2.
func DetectAnomalies(series []DataPoint, threshold float64) []Anomaly {
	if threshold <= 0 {
		threshold = DefaultAnomalyThreshold
	}

	if len(series) < 3 {
		return nil
	}

	values := Values(series)
	mean := meanOf(values)
	stddev := populationStdDev(values, mean)

	if stddev == 0 {
		return nil
	}

	var anomalies []Anomaly
	for _, point := range series {
		z := (point.Value - mean) / stddev
		if math.Abs(z) > threshold {
			anomalies = append(anomalies, Anomaly{Point: point, ZScore: z})
		}
	}

	return anomalies
}

// Correlation computes the Pearson correlation coefficient between the value
// columns of two series. Unequal lengths, empty series, or zero variance in
// either series yield 0.
func Correlation(a, b []DataPoint) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	n := float64(len(a))
	var sumX, sumY, sumXY, sumXX, sumYY float64

	for i := range a {
		x := a[i].Value
		y := b[i].Value
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
		sumYY += y * y
	}

	denominator := math.Sqrt((n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY))
	if denominator == 0 {
		return 0
	}

	return (n*sumXY - sumX*sumY) / denominator
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func populationStdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}
