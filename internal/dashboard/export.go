package dashboard

import (
	"encoding/json"
	"time"

	"golang-lending-kpi-service/internal/analytics"
	"golang-lending-kpi-service/pkg/logger"

	"github.com/google/uuid"
)

// ExportedMetric is the serialized form of one metric tile
type ExportedMetric struct {
	ID         string                    `json:"id"`
	Name       string                    `json:"name"`
	Category   string                    `json:"category"`
	Unit       string                    `json:"unit,omitempty"`
	Current    float64                   `json:"current"`
	Target     *float64                  `json:"target,omitempty"`
	Thresholds *ThresholdBand            `json:"thresholds,omitempty"`
	Trend      analytics.Trend           `json:"trend"`
	Status     MetricStatus              `json:"status"`
	History    []analytics.DataPoint     `json:"history"`
	Forecast   []analytics.ForecastPoint `json:"forecast,omitempty"`
	Insights   []string                  `json:"insights,omitempty"`
	Tags       []string                  `json:"tags,omitempty"`
}

// ExportOptions tunes what an export includes beyond the metric state
type ExportOptions struct {
	// ForecastPeriods projects each metric forward this many periods.
	// Zero disables forecasting.
	ForecastPeriods int
}

// DashboardExport is a point-in-time serialized snapshot of a dashboard for
// downstream consumption.
type DashboardExport struct {
	SnapshotID      string           `json:"snapshot_id"`
	DashboardID     string           `json:"dashboard_id"`
	Name            string           `json:"name"`
	GeneratedAt     time.Time        `json:"generated_at"`
	RefreshInterval string           `json:"refresh_interval,omitempty"`
	Layout          string           `json:"layout,omitempty"`
	Metrics         []ExportedMetric `json:"metrics"`
}

// ExportDashboard serializes a dashboard's current state: every metric with
// its value, trend, status, full history, and rule-generated insights.
func (r *Registry) ExportDashboard(dashboardID string, generatedAt time.Time) (*DashboardExport, error) {
	return r.ExportDashboardWithOptions(dashboardID, generatedAt, ExportOptions{})
}

// ExportDashboardWithOptions serializes a dashboard with per-metric forecasts
// when options request them
func (r *Registry) ExportDashboardWithOptions(dashboardID string, generatedAt time.Time, options ExportOptions) (*DashboardExport, error) {
	d, err := r.Dashboard(dashboardID)
	if err != nil {
		return nil, err
	}

	export := &DashboardExport{
		SnapshotID:  uuid.NewString(),
		DashboardID: d.ID,
		Name:        d.Name,
		GeneratedAt: generatedAt,
		Layout:      d.Layout,
		Metrics:     make([]ExportedMetric, 0, len(d.Metrics())),
	}

	if d.RefreshInterval > 0 {
		export.RefreshInterval = d.RefreshInterval.String()
	}

	for _, metric := range d.Metrics() {
		anomalies := analytics.DetectAnomalies(metric.History, analytics.DefaultAnomalyThreshold)

		insights := analytics.GenerateInsights(analytics.InsightInput{
			MetricName: metric.Name,
			Trend:      metric.Trend,
			Current:    metric.Current,
			Target:     metric.TargetValue(),
			Anomalies:  len(anomalies),
		})

		var forecast []analytics.ForecastPoint
		if options.ForecastPeriods > 0 {
			forecast = analytics.Forecast(metric.History, options.ForecastPeriods)
		}

		export.Metrics = append(export.Metrics, ExportedMetric{
			ID:         metric.ID,
			Name:       metric.Name,
			Category:   metric.Category,
			Unit:       metric.Unit,
			Current:    metric.Current,
			Target:     metric.Target,
			Thresholds: metric.Thresholds,
			Trend:      metric.Trend,
			Status:     metric.Status,
			History:    metric.History,
			Forecast:   forecast,
			Insights:   insights,
			Tags:       metric.Tags,
		})
	}

	r.logger.WithFields(logger.Fields{
		"dashboard_id": dashboardID,
		"snapshot_id":  export.SnapshotID,
		"metrics":      len(export.Metrics),
	}).Info("Dashboard exported")

	return export, nil
}

// JSON serializes the export with indentation for downstream consumers
func (e *DashboardExport) JSON() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}
