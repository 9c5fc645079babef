// Package dashboard owns named dashboards of named metrics: registration,
// lookup, snapshot updates, threshold-derived health status, and JSON export
// for the rendering/API collaborator.
package dashboard

import (
	"fmt"
	"time"

	"golang-lending-kpi-service/internal/analytics"
)

// MetricStatus is the derived health classification of a metric
type MetricStatus string

const (
	StatusExcellent MetricStatus = "excellent"
	StatusGood      MetricStatus = "good"
	StatusWarning   MetricStatus = "warning"
	StatusCritical  MetricStatus = "critical"
	StatusUnknown   MetricStatus = "unknown"
)

// ThresholdBand holds the descending status bounds for a metric.
// Values are assumed ordered excellent ≥ good ≥ warning ≥ critical.
type ThresholdBand struct {
	Excellent float64 `json:"excellent"`
	Good      float64 `json:"good"`
	Warning   float64 `json:"warning"`
	Critical  float64 `json:"critical"`
}

// StatusFor derives a status from a value and an optional threshold band.
// Status is a pure function of these two inputs: without thresholds the
// status is always unknown, and values below the critical bound still
// classify as critical — no "below critical" state exists.
func StatusFor(value float64, band *ThresholdBand) MetricStatus {
	if band == nil {
		return StatusUnknown
	}

	switch {
	case value >= band.Excellent:
		return StatusExcellent
	case value >= band.Good:
		return StatusGood
	case value >= band.Warning:
		return StatusWarning
	default:
		return StatusCritical
	}
}

// MetricDefinition describes a metric at registration time
type MetricDefinition struct {
	ID          string
	Name        string
	Category    string
	Unit        string
	Target      *float64
	Thresholds  *ThresholdBand
	Granularity string
	Tags        []string
}

// Validate checks the definition before registration
func (d *MetricDefinition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("metric id cannot be empty")
	}

	if d.Name == "" {
		return fmt.Errorf("metric name cannot be empty")
	}

	return nil
}

// Metric is one dashboard tile: a current value with its history, trend, and
// derived status. Metrics are created once at registration and then mutated
// in place through Registry.UpdateMetric only.
type Metric struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Category    string                `json:"category"`
	Unit        string                `json:"unit,omitempty"`
	Current     float64               `json:"current"`
	Target      *float64              `json:"target,omitempty"`
	Thresholds  *ThresholdBand        `json:"thresholds,omitempty"`
	Trend       analytics.Trend       `json:"trend"`
	History     []analytics.DataPoint `json:"history"`
	Status      MetricStatus          `json:"status"`
	Granularity string                `json:"granularity,omitempty"`
	Tags        []string              `json:"tags,omitempty"`
}

// NewMetric creates a metric from its definition with empty history and
// unknown-or-derived initial status.
func NewMetric(def MetricDefinition) *Metric {
	granularity := def.Granularity
	if granularity == "" {
		granularity = "snapshot"
	}

	return &Metric{
		ID:          def.ID,
		Name:        def.Name,
		Category:    def.Category,
		Unit:        def.Unit,
		Target:      def.Target,
		Thresholds:  def.Thresholds,
		Granularity: granularity,
		Tags:        def.Tags,
		Trend: analytics.Trend{
			Direction:   analytics.TrendStable,
			Granularity: granularity,
		},
		Status: StatusFor(0, def.Thresholds),
	}
}

// record applies a new observation: append to history, move the current
// value, and recompute trend and status.
func (m *Metric) record(point analytics.DataPoint) {
	m.History = append(m.History, point)
	m.Current = point.Value
	m.Trend = analytics.ComputeTrend(m.History, m.Granularity)
	m.Status = StatusFor(m.Current, m.Thresholds)
}

// TargetValue returns the configured target or 0 when none is set
func (m *Metric) TargetValue() float64 {
	if m.Target == nil {
		return 0
	}
	return *m.Target
}

// Dashboard is an ordered collection of metrics with unique ids
type Dashboard struct {
	ID              string
	Name            string
	RefreshInterval time.Duration // optional hint for the rendering layer
	Layout          string        // optional layout hint

	metrics []*Metric
	index   map[string]*Metric
}

// NewDashboard creates an empty dashboard
func NewDashboard(id, name string) *Dashboard {
	return &Dashboard{
		ID:    id,
		Name:  name,
		index: make(map[string]*Metric),
	}
}

// AddMetric registers a metric on the dashboard, preserving insertion order
func (d *Dashboard) AddMetric(def MetricDefinition) (*Metric, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	if _, exists := d.index[def.ID]; exists {
		return nil, fmt.Errorf("metric already registered: %s", def.ID)
	}

	metric := NewMetric(def)
	d.metrics = append(d.metrics, metric)
	d.index[def.ID] = metric
	return metric, nil
}

// Metric returns the metric with the given id, or nil if absent
func (d *Dashboard) Metric(id string) *Metric {
	return d.index[id]
}

// Metrics returns the dashboard's metrics in registration order
func (d *Dashboard) Metrics() []*Metric {
	return d.metrics
}
