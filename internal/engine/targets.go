package engine

import (
	"fmt"
	"math"
)

// Targets holds the per-KPI goals and ceilings the executive dashboard
// measures progress against. Rate targets are fractions (0.085 = 8.5% APR);
// ceiling values are the level at which the KPI fully consumes its budget.
type Targets struct {
	OutstandingExposure     float64            `mapstructure:"outstanding_exposure"`
	WeightedAPR             float64            `mapstructure:"weighted_apr"`
	TenorMix                map[string]float64 `mapstructure:"tenor_mix"`
	ConcentrationCeilingPct float64            `mapstructure:"concentration_ceiling_pct"`
	NPLCeilingPct           float64            `mapstructure:"npl_ceiling_pct"`
	DPDCeilingDays          float64            `mapstructure:"dpd_ceiling_days"`
	Cohort                  CohortTargets      `mapstructure:"cohort"`
}

// CohortTargets holds the goal counts for the customer cohorts
type CohortTargets struct {
	Total     int `mapstructure:"total"`
	New       int `mapstructure:"new"`
	Recurring int `mapstructure:"recurring"`
	Recovered int `mapstructure:"recovered"`
}

// Validate checks that no target is negative. Zero targets are legal and
// simply yield zero progress.
func (t *Targets) Validate() error {
	checks := map[string]float64{
		"outstanding_exposure":      t.OutstandingExposure,
		"weighted_apr":              t.WeightedAPR,
		"concentration_ceiling_pct": t.ConcentrationCeilingPct,
		"npl_ceiling_pct":           t.NPLCeilingPct,
		"dpd_ceiling_days":          t.DPDCeilingDays,
	}

	for name, value := range checks {
		if value < 0 {
			return fmt.Errorf("target %s cannot be negative, got %v", name, value)
		}
	}

	for bucket, value := range t.TenorMix {
		if value < 0 {
			return fmt.Errorf("tenor mix target for bucket %s cannot be negative, got %v", bucket, value)
		}
	}

	return nil
}

// Progress expresses an actual value against its target as a rounded integer
// percentage. A zero target yields 0, not an error, so composed pipelines
// never crash on an unconfigured goal.
func Progress(actual, target float64) int {
	if target == 0 {
		return 0
	}
	return int(math.Round(actual / target * 100))
}
