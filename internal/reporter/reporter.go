// Package reporter renders computed KPI bundles for human and programmatic
// consumption.
//
// Supported output formats:
//   - Console: sectioned tabular output for terminal display
//   - JSON: the full result bundle plus target progress
//   - Export: the dashboard export snapshot, for downstream BI tools
//
// Example usage:
//
//	generator, err := reporter.NewReportGenerator(nil)
//	err = generator.GenerateReport(result, progress, os.Stdout)
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"golang-lending-kpi-service/internal/dashboard"
	"golang-lending-kpi-service/internal/engine"
	"golang-lending-kpi-service/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatExport  OutputFormat = "export"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatExport:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	Format OutputFormat `json:"format"`

	// Detail level options
	IncludeConcentration bool `json:"include_concentration"`
	IncludeProgress      bool `json:"include_progress"`
	IncludeRecordCounts  bool `json:"include_record_counts"`

	// Console formatting options
	MaxConcentrationRows int `json:"max_concentration_rows"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:               FormatConsole,
		IncludeConcentration: true,
		IncludeProgress:      true,
		IncludeRecordCounts:  true,
		MaxConcentrationRows: 10,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}

	if c.MaxConcentrationRows < 1 {
		return fmt.Errorf("max concentration rows must be at least 1, got %d", c.MaxConcentrationRows)
	}

	return nil
}

// ReportGenerator renders KPI results in the configured format
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a report generator with the specified configuration
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &ReportGenerator{
		config: config,
	}, nil
}

// GenerateReport renders a KPI result bundle and its target progress to the
// writer. Progress may be nil when no targets are configured.
func (rg *ReportGenerator) GenerateReport(result *engine.Result, progress map[string]int, writer io.Writer) error {
	if result == nil {
		return fmt.Errorf("result cannot be nil")
	}

	switch rg.config.Format {
	case FormatConsole:
		return rg.generateConsoleReport(result, progress, writer)
	case FormatJSON:
		return rg.generateJSONReport(result, progress, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

// GenerateExport renders a dashboard export snapshot as indented JSON
func (rg *ReportGenerator) GenerateExport(export *dashboard.DashboardExport, writer io.Writer) error {
	if export == nil {
		return fmt.Errorf("export cannot be nil")
	}

	data, err := export.JSON()
	if err != nil {
		return fmt.Errorf("failed to serialize export: %w", err)
	}

	_, err = writer.Write(append(data, '\n'))
	return err
}

// generateConsoleReport renders a human-readable console report
func (rg *ReportGenerator) generateConsoleReport(result *engine.Result, progress map[string]int, writer io.Writer) error {
	fmt.Fprintf(writer, "PORTFOLIO KPI REPORT\n")
	fmt.Fprintf(writer, "As of: %s\n\n", result.AsOf.Format(time.RFC3339))

	fmt.Fprintf(writer, "=== PORTFOLIO ===\n")
	rg.printPortfolioSection(result, writer)
	fmt.Fprintf(writer, "\n")

	fmt.Fprintf(writer, "=== RISK ===\n")
	rg.printRiskSection(result, writer)
	fmt.Fprintf(writer, "\n")

	if rg.config.IncludeConcentration && len(result.Concentration) > 0 {
		fmt.Fprintf(writer, "=== TOP COUNTERPARTIES ===\n")
		rg.printConcentrationTable(result, writer)
		fmt.Fprintf(writer, "\n")
	}

	fmt.Fprintf(writer, "=== CUSTOMERS ===\n")
	rg.printCohortSection(result, writer)
	fmt.Fprintf(writer, "\n")

	if rg.config.IncludeProgress && len(progress) > 0 {
		fmt.Fprintf(writer, "=== TARGET PROGRESS ===\n")
		rg.printProgressTable(progress, writer)
		fmt.Fprintf(writer, "\n")
	}

	if rg.config.IncludeRecordCounts {
		fmt.Fprintf(writer, "=== RECORD COUNTS ===\n")
		rg.printRecordCounts(result, writer)
	}

	return nil
}

// generateJSONReport renders the result bundle plus progress as indented JSON
func (rg *ReportGenerator) generateJSONReport(result *engine.Result, progress map[string]int, writer io.Writer) error {
	output := map[string]interface{}{
		"result": result,
	}

	if rg.config.IncludeProgress && len(progress) > 0 {
		output["target_progress"] = progress
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	return encoder.Encode(output)
}

// Helper methods for console output formatting

func (rg *ReportGenerator) printPortfolioSection(result *engine.Result, writer io.Writer) {
	fmt.Fprintf(writer, "Outstanding Exposure: %s\n", result.OutstandingExposure.StringFixed(2))

	aprPct := result.WeightedAPR.Mul(hundred)
	fmt.Fprintf(writer, "Weighted APR:         %s%%\n", aprPct.StringFixed(2))

	fmt.Fprintf(writer, "\nTenor Mix (months):\n")
	for _, bucket := range models.TenorBuckets() {
		fmt.Fprintf(writer, "  %-6s %s\n", bucket, result.TenorMix[bucket].StringFixed(2))
	}
}

func (rg *ReportGenerator) printRiskSection(result *engine.Result, writer io.Writer) {
	fmt.Fprintf(writer, "Top Counterparty Share: %.1f%%\n", result.TopConcentrationPct())
	fmt.Fprintf(writer, "Non-Performing Loans:   %d (%.1f%%)\n", result.NPL.Count, result.NPL.Percentage)
	fmt.Fprintf(writer, "Payments Current:       %d\n", result.Delinquency.Current)
	fmt.Fprintf(writer, "Payments Late:          %d\n", result.Delinquency.Late)
	fmt.Fprintf(writer, "Average Days Past Due:  %.1f\n", result.Delinquency.AverageDPD)
}

func (rg *ReportGenerator) printConcentrationTable(result *engine.Result, writer io.Writer) {
	for i, exposure := range result.Concentration {
		fmt.Fprintf(writer, "  %2d. %-16s %14s  %5.1f%%\n",
			i+1,
			exposure.CustomerID,
			exposure.Balance.StringFixed(2),
			exposure.Percentage)

		if i+1 >= rg.config.MaxConcentrationRows {
			remaining := len(result.Concentration) - rg.config.MaxConcentrationRows
			if remaining > 0 {
				fmt.Fprintf(writer, "  ... and %d more\n", remaining)
			}
			break
		}
	}
}

func (rg *ReportGenerator) printCohortSection(result *engine.Result, writer io.Writer) {
	fmt.Fprintf(writer, "Total:     %d\n", result.Cohort.Total)
	fmt.Fprintf(writer, "New:       %d\n", result.Cohort.New)
	fmt.Fprintf(writer, "Recurring: %d\n", result.Cohort.Recurring)
	fmt.Fprintf(writer, "Recovered: %d\n", result.Cohort.Recovered)
}

func (rg *ReportGenerator) printProgressTable(progress map[string]int, writer io.Writer) {
	keys := make([]string, 0, len(progress))
	for key := range progress {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(writer, "  %-24s %d%%\n", key, progress[key])
	}
}

func (rg *ReportGenerator) printRecordCounts(result *engine.Result, writer io.Writer) {
	fmt.Fprintf(writer, "Loans:    %d\n", result.RecordCounts.Loans)
	fmt.Fprintf(writer, "Schedule: %d\n", result.RecordCounts.Schedule)
	fmt.Fprintf(writer, "Payments: %d\n", result.RecordCounts.Payments)
}

// GetConfiguration returns the current configuration
func (rg *ReportGenerator) GetConfiguration() *ReportConfig {
	return rg.config
}
