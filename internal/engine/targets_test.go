package engine

import "testing"

func TestProgress(t *testing.T) {
	tests := []struct {
		name     string
		actual   float64
		target   float64
		expected int
	}{
		{"rounds up from fraction", 761000, 780000, 98},
		{"exact target is 100", 500, 500, 100},
		{"zero target yields zero", 123456, 0, 0},
		{"zero actual", 0, 1000, 0},
		{"over target", 1200, 1000, 120},
		{"rounds half up", 1005, 2000, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.actual, tt.target); got != tt.expected {
				t.Errorf("Progress(%v, %v) = %d, expected %d", tt.actual, tt.target, got, tt.expected)
			}
		})
	}
}

func TestTargets_Validate(t *testing.T) {
	valid := &Targets{
		OutstandingExposure: 780000,
		WeightedAPR:         0.085,
		TenorMix:            map[string]float64{"0-12": 200000},
		NPLCeilingPct:       5,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid targets, got %v", err)
	}

	// Zero targets are legal
	if err := (&Targets{}).Validate(); err != nil {
		t.Errorf("Expected zero targets to be valid, got %v", err)
	}

	negative := &Targets{OutstandingExposure: -1}
	if err := negative.Validate(); err == nil {
		t.Error("Expected error for negative target")
	}

	negativeBucket := &Targets{TenorMix: map[string]float64{"0-12": -5}}
	if err := negativeBucket.Validate(); err == nil {
		t.Error("Expected error for negative tenor mix target")
	}
}
