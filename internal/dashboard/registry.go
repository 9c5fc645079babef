package dashboard

import (
	"golang-lending-kpi-service/internal/analytics"
	"golang-lending-kpi-service/pkg/errors"
	"golang-lending-kpi-service/pkg/logger"
)

// Registry owns named dashboards. It is an explicit object held by the
// caller, never a package-level singleton, so independent registries can
// coexist and be tested in isolation.
//
// The registry assumes a single caller: its maps are mutated without
// locking. A concurrent host must serialize access externally.
type Registry struct {
	dashboards map[string]*Dashboard
	order      []string
	logger     logger.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(log logger.Logger) *Registry {
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	return &Registry{
		dashboards: make(map[string]*Dashboard),
		logger:     log.WithComponent("registry"),
	}
}

// Register adds a dashboard. Registering an id that is already present is a
// caller error and fails fast.
func (r *Registry) Register(d *Dashboard) error {
	if _, exists := r.dashboards[d.ID]; exists {
		return errors.DuplicateDashboard(d.ID)
	}

	r.dashboards[d.ID] = d
	r.order = append(r.order, d.ID)

	r.logger.WithFields(logger.Fields{
		"dashboard_id": d.ID,
		"metrics":      len(d.Metrics()),
	}).Info("Dashboard registered")

	return nil
}

// Dashboard returns the dashboard with the given id. A missing id indicates
// a programming or configuration error and raises a not-found condition.
func (r *Registry) Dashboard(id string) (*Dashboard, error) {
	d, exists := r.dashboards[id]
	if !exists {
		return nil, errors.DashboardNotFound(id)
	}
	return d, nil
}

// Dashboards returns all dashboards in registration order
func (r *Registry) Dashboards() []*Dashboard {
	result := make([]*Dashboard, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.dashboards[id])
	}
	return result
}

// Metric returns a metric by dashboard and metric id, failing fast when
// either is absent.
func (r *Registry) Metric(dashboardID, metricID string) (*Metric, error) {
	d, err := r.Dashboard(dashboardID)
	if err != nil {
		return nil, err
	}

	metric := d.Metric(metricID)
	if metric == nil {
		return nil, errors.MetricNotFound(dashboardID, metricID)
	}

	return metric, nil
}

// UpdateMetric applies a new observation to a metric: the point is appended
// to history, the current value becomes the point's value, and trend and
// status are recomputed.
func (r *Registry) UpdateMetric(dashboardID, metricID string, point analytics.DataPoint) error {
	metric, err := r.Metric(dashboardID, metricID)
	if err != nil {
		return err
	}

	metric.record(point)

	r.logger.WithFields(logger.Fields{
		"dashboard_id": dashboardID,
		"metric_id":    metricID,
		"value":        point.Value,
		"status":       string(metric.Status),
		"trend":        string(metric.Trend.Direction),
	}).Debug("Metric updated")

	return nil
}

// MetricsByCategory returns a dashboard's metrics matching a category,
// in registration order.
func (r *Registry) MetricsByCategory(dashboardID, category string) ([]*Metric, error) {
	d, err := r.Dashboard(dashboardID)
	if err != nil {
		return nil, err
	}

	var matched []*Metric
	for _, metric := range d.Metrics() {
		if metric.Category == category {
			matched = append(matched, metric)
		}
	}

	return matched, nil
}

// MetricsByStatus returns a dashboard's metrics matching a derived status,
// in registration order.
func (r *Registry) MetricsByStatus(dashboardID string, status MetricStatus) ([]*Metric, error) {
	d, err := r.Dashboard(dashboardID)
	if err != nil {
		return nil, err
	}

	var matched []*Metric
	for _, metric := range d.Metrics() {
		if metric.Status == status {
			matched = append(matched, metric)
		}
	}

	return matched, nil
}
