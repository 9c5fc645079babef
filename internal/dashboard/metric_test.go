package dashboard

import (
	"testing"
)

func band(excellent, good, warning, critical float64) *ThresholdBand {
	return &ThresholdBand{
		Excellent: excellent,
		Good:      good,
		Warning:   warning,
		Critical:  critical,
	}
}

func TestStatusFor(t *testing.T) {
	b := band(100, 80, 60, 40)

	tests := []struct {
		name     string
		value    float64
		expected MetricStatus
	}{
		{"at excellent bound", 100, StatusExcellent},
		{"above excellent", 150, StatusExcellent},
		{"at good bound", 80, StatusGood},
		{"between good and excellent", 95, StatusGood},
		{"at warning bound", 60, StatusWarning},
		{"below warning", 50, StatusCritical},
		{"at critical bound", 40, StatusCritical},
		{"below critical bound", 10, StatusCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.value, b); got != tt.expected {
				t.Errorf("StatusFor(%.0f) = %s, expected %s", tt.value, got, tt.expected)
			}
		})
	}
}

func TestStatusFor_NoThresholds(t *testing.T) {
	// A metric without thresholds always reports unknown
	for _, value := range []float64{0, 50, 1e9} {
		if got := StatusFor(value, nil); got != StatusUnknown {
			t.Errorf("StatusFor(%.0f, nil) = %s, expected unknown", value, got)
		}
	}
}

func TestNewMetric_Defaults(t *testing.T) {
	metric := NewMetric(MetricDefinition{
		ID:   "exposure",
		Name: "Outstanding Exposure",
	})

	if metric.Status != StatusUnknown {
		t.Errorf("Expected unknown status without thresholds, got %s", metric.Status)
	}

	if metric.Granularity != "snapshot" {
		t.Errorf("Expected default granularity, got %q", metric.Granularity)
	}

	if len(metric.History) != 0 {
		t.Errorf("Expected empty history, got %d points", len(metric.History))
	}
}

func TestMetricDefinition_Validate(t *testing.T) {
	if err := (&MetricDefinition{ID: "x", Name: "X"}).Validate(); err != nil {
		t.Errorf("Expected valid definition, got %v", err)
	}

	if err := (&MetricDefinition{Name: "X"}).Validate(); err == nil {
		t.Error("Expected error for empty id")
	}

	if err := (&MetricDefinition{ID: "x"}).Validate(); err == nil {
		t.Error("Expected error for empty name")
	}
}

func TestDashboard_AddMetric(t *testing.T) {
	d := NewDashboard("exec", "Executive Dashboard")

	if _, err := d.AddMetric(MetricDefinition{ID: "a", Name: "A"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := d.AddMetric(MetricDefinition{ID: "b", Name: "B"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Duplicate ids are rejected
	if _, err := d.AddMetric(MetricDefinition{ID: "a", Name: "A again"}); err == nil {
		t.Error("Expected error for duplicate metric id")
	}

	// Insertion order is preserved
	metrics := d.Metrics()
	if len(metrics) != 2 || metrics[0].ID != "a" || metrics[1].ID != "b" {
		t.Errorf("Expected ordered metrics [a b], got %d entries", len(metrics))
	}
}

func TestDashboard_Metric(t *testing.T) {
	d := NewDashboard("exec", "Executive Dashboard")
	d.AddMetric(MetricDefinition{ID: "a", Name: "A"})

	if d.Metric("a") == nil {
		t.Error("Expected metric lookup to succeed")
	}

	if d.Metric("missing") != nil {
		t.Error("Expected nil for absent metric")
	}
}
