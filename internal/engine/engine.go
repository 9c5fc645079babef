// Package engine orchestrates a full KPI computation pass: it runs the
// portfolio, risk, and cohort calculators over a normalized snapshot,
// assembles the result bundle, measures progress against targets, and feeds
// the executive dashboard.
package engine

import (
	"fmt"
	"time"

	"golang-lending-kpi-service/internal/analytics"
	"golang-lending-kpi-service/internal/cohort"
	"golang-lending-kpi-service/internal/dashboard"
	"golang-lending-kpi-service/internal/models"
	"golang-lending-kpi-service/internal/portfolio"
	"golang-lending-kpi-service/internal/risk"
	"golang-lending-kpi-service/pkg/logger"

	"github.com/shopspring/decimal"
)

// Snapshot is one ingestion batch of normalized records, treated as
// read-only for the duration of the computation pass.
type Snapshot struct {
	Loans    []models.LoanRecord
	Schedule []models.ScheduleEntry
	Payments []models.PaymentHistoryEntry
}

// Config holds tuning options for the engine
type Config struct {
	// TopConcentration is the number of counterparties in the ranking
	TopConcentration int

	// Granularity labels the comparison window of metric trends
	Granularity string

	// DashboardID and DashboardName identify the registered dashboard
	DashboardID   string
	DashboardName string
}

// DefaultConfig returns a default engine configuration
func DefaultConfig() *Config {
	return &Config{
		TopConcentration: risk.DefaultTopN,
		Granularity:      "snapshot",
		DashboardID:      "executive",
		DashboardName:    "Executive Lending Dashboard",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.TopConcentration <= 0 {
		return fmt.Errorf("top concentration must be positive, got %d", c.TopConcentration)
	}

	if c.DashboardID == "" {
		return fmt.Errorf("dashboard id is required")
	}

	return nil
}

// Result is the KPI bundle for one snapshot
type Result struct {
	AsOf time.Time `json:"as_of"`

	OutstandingExposure decimal.Decimal                        `json:"outstanding_exposure"`
	WeightedAPR         decimal.Decimal                        `json:"weighted_apr"`
	TenorMix            map[models.TenorBucket]decimal.Decimal `json:"tenor_mix"`
	Concentration       []risk.CustomerExposure                `json:"concentration"`
	NPL                 risk.NPLSummary                        `json:"npl"`
	Delinquency         risk.DelinquencySummary                `json:"delinquency"`
	Cohort              cohort.Summary                         `json:"cohort"`

	RecordCounts RecordCounts `json:"record_counts"`
}

// RecordCounts reports how many records the pass covered
type RecordCounts struct {
	Loans    int `json:"loans"`
	Schedule int `json:"schedule"`
	Payments int `json:"payments"`
}

// TopConcentrationPct returns the largest counterparty's share of exposure,
// or 0 for an empty portfolio.
func (r *Result) TopConcentrationPct() float64 {
	if len(r.Concentration) == 0 {
		return 0
	}
	return r.Concentration[0].Percentage
}

// Engine computes KPI result bundles. All computations are pure and
// synchronous; recomputing over an unchanged snapshot yields an identical
// bundle.
type Engine struct {
	config *Config
	logger logger.Logger
}

// NewEngine creates an engine with the given configuration
func NewEngine(config *Config) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Engine{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("engine"),
	}, nil
}

// Compute runs one full KPI pass over a snapshot
func (e *Engine) Compute(snapshot *Snapshot, asOf time.Time) *Result {
	phases := logger.NewPhaseTracker("kpi_compute", e.logger)

	result := &Result{
		AsOf: asOf,
		RecordCounts: RecordCounts{
			Loans:    len(snapshot.Loans),
			Schedule: len(snapshot.Schedule),
			Payments: len(snapshot.Payments),
		},
	}

	phases.Begin("portfolio")
	result.OutstandingExposure = portfolio.OutstandingExposure(snapshot.Schedule)
	result.WeightedAPR = portfolio.WeightedInterestRate(snapshot.Loans)
	result.TenorMix = portfolio.TenorMix(snapshot.Loans)
	phases.EndWithCount(len(snapshot.Loans) + len(snapshot.Schedule))

	phases.Begin("risk")
	result.Concentration = risk.Concentration(snapshot.Schedule, e.config.TopConcentration)
	result.NPL = risk.NonPerformingRate(snapshot.Payments)
	result.Delinquency = risk.DelinquencyStats(snapshot.Payments)
	phases.EndWithCount(len(snapshot.Payments))

	phases.Begin("cohort")
	result.Cohort = cohort.Track(snapshot.Loans, asOf)
	phases.EndWithCount(len(snapshot.Loans))

	phases.Complete()
	return result
}

// ProgressReport expresses each KPI against its target as a rounded integer
// percentage. Ceiling-type KPIs (concentration, NPL, DPD) report utilization
// of their budget.
func (e *Engine) ProgressReport(result *Result, targets *Targets) map[string]int {
	exposure, _ := result.OutstandingExposure.Float64()
	apr, _ := result.WeightedAPR.Float64()

	progress := map[string]int{
		"outstanding_exposure": Progress(exposure, targets.OutstandingExposure),
		"weighted_apr":         Progress(apr, targets.WeightedAPR),
		"concentration":        Progress(result.TopConcentrationPct(), targets.ConcentrationCeilingPct),
		"npl_rate":             Progress(result.NPL.Percentage, targets.NPLCeilingPct),
		"average_dpd":          Progress(result.Delinquency.AverageDPD, targets.DPDCeilingDays),
		"customers_total":      Progress(float64(result.Cohort.Total), float64(targets.Cohort.Total)),
		"customers_new":        Progress(float64(result.Cohort.New), float64(targets.Cohort.New)),
		"customers_recurring":  Progress(float64(result.Cohort.Recurring), float64(targets.Cohort.Recurring)),
		"customers_recovered":  Progress(float64(result.Cohort.Recovered), float64(targets.Cohort.Recovered)),
	}

	for _, bucket := range models.TenorBuckets() {
		actual, _ := result.TenorMix[bucket].Float64()
		progress["tenor_"+string(bucket)] = Progress(actual, targets.TenorMix[string(bucket)])
	}

	return progress
}

// Metric ids of the executive dashboard
const (
	MetricExposure           = "outstanding_exposure"
	MetricWeightedAPR        = "weighted_apr"
	MetricConcentration      = "top_counterparty_share"
	MetricNPLRate            = "npl_rate"
	MetricAverageDPD         = "average_dpd"
	MetricCustomersTotal     = "customers_total"
	MetricCustomersNew       = "customers_new"
	MetricCustomersRecurring = "customers_recurring"
	MetricCustomersRecovered = "customers_recovered"
)

// TenorMetricID returns the dashboard metric id for a maturity bucket
func TenorMetricID(bucket models.TenorBucket) string {
	return "tenor_" + string(bucket)
}

// RegisterDashboard registers the standard executive dashboard on a registry.
// Exposure carries attainment thresholds derived from its target; ceiling
// KPIs carry no thresholds because lower is better and the band ordering
// assumes the opposite.
func (e *Engine) RegisterDashboard(registry *dashboard.Registry, targets *Targets) error {
	d := dashboard.NewDashboard(e.config.DashboardID, e.config.DashboardName)
	d.RefreshInterval = 24 * time.Hour

	exposureTarget := targets.OutstandingExposure
	aprTargetPct := targets.WeightedAPR * 100

	definitions := []dashboard.MetricDefinition{
		{
			ID:       MetricExposure,
			Name:     "Outstanding Exposure",
			Category: "portfolio",
			Unit:     "USD",
			Target:   &exposureTarget,
			Thresholds: &dashboard.ThresholdBand{
				Excellent: exposureTarget,
				Good:      exposureTarget * 0.75,
				Warning:   exposureTarget * 0.50,
				Critical:  exposureTarget * 0.25,
			},
			Granularity: e.config.Granularity,
		},
		{
			ID:          MetricWeightedAPR,
			Name:        "Weighted Average APR",
			Category:    "portfolio",
			Unit:        "%",
			Target:      &aprTargetPct,
			Granularity: e.config.Granularity,
		},
		{
			ID:          MetricConcentration,
			Name:        "Top Counterparty Share",
			Category:    "risk",
			Unit:        "%",
			Granularity: e.config.Granularity,
		},
		{
			ID:          MetricNPLRate,
			Name:        "Non-Performing Loan Rate",
			Category:    "risk",
			Unit:        "%",
			Granularity: e.config.Granularity,
		},
		{
			ID:          MetricAverageDPD,
			Name:        "Average Days Past Due",
			Category:    "risk",
			Unit:        "days",
			Granularity: e.config.Granularity,
		},
		{
			ID:          MetricCustomersTotal,
			Name:        "Total Customers",
			Category:    "customers",
			Granularity: e.config.Granularity,
		},
		{
			ID:          MetricCustomersNew,
			Name:        "New Customers",
			Category:    "customers",
			Granularity: e.config.Granularity,
		},
		{
			ID:          MetricCustomersRecurring,
			Name:        "Recurring Customers",
			Category:    "customers",
			Granularity: e.config.Granularity,
		},
		{
			ID:          MetricCustomersRecovered,
			Name:        "Recovered Customers",
			Category:    "customers",
			Granularity: e.config.Granularity,
		},
	}

	for _, bucket := range models.TenorBuckets() {
		bucketTarget := targets.TenorMix[string(bucket)]
		definitions = append(definitions, dashboard.MetricDefinition{
			ID:          TenorMetricID(bucket),
			Name:        fmt.Sprintf("Tenor %s Months", bucket),
			Category:    "portfolio",
			Unit:        "USD",
			Target:      &bucketTarget,
			Granularity: e.config.Granularity,
		})
	}

	for _, def := range definitions {
		if _, err := d.AddMetric(def); err != nil {
			return fmt.Errorf("failed to add metric %s: %w", def.ID, err)
		}
	}

	return registry.Register(d)
}

// PublishResult feeds one computed result bundle into the dashboard,
// appending a history point to every metric.
func (e *Engine) PublishResult(registry *dashboard.Registry, result *Result) error {
	exposure, _ := result.OutstandingExposure.Float64()
	apr, _ := result.WeightedAPR.Float64()

	values := map[string]float64{
		MetricExposure:           exposure,
		MetricWeightedAPR:        apr * 100,
		MetricConcentration:      result.TopConcentrationPct(),
		MetricNPLRate:            result.NPL.Percentage,
		MetricAverageDPD:         result.Delinquency.AverageDPD,
		MetricCustomersTotal:     float64(result.Cohort.Total),
		MetricCustomersNew:       float64(result.Cohort.New),
		MetricCustomersRecurring: float64(result.Cohort.Recurring),
		MetricCustomersRecovered: float64(result.Cohort.Recovered),
	}

	for _, bucket := range models.TenorBuckets() {
		value, _ := result.TenorMix[bucket].Float64()
		values[TenorMetricID(bucket)] = value
	}

	for _, metricID := range e.metricOrder() {
		point := analytics.DataPoint{
			Timestamp: result.AsOf,
			Value:     values[metricID],
		}
		if err := registry.UpdateMetric(e.config.DashboardID, metricID, point); err != nil {
			return err
		}
	}

	return nil
}

// metricOrder returns the update order, matching registration order
func (e *Engine) metricOrder() []string {
	order := []string{
		MetricExposure,
		MetricWeightedAPR,
		MetricConcentration,
		MetricNPLRate,
		MetricAverageDPD,
		MetricCustomersTotal,
		MetricCustomersNew,
		MetricCustomersRecurring,
		MetricCustomersRecovered,
	}
	for _, bucket := range models.TenorBuckets() {
		order = append(order, TenorMetricID(bucket))
	}
	return order
}
