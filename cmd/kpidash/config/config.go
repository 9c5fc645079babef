// Package config builds the runtime configurations the compute command wires
// together: snapshot loader column mappings, KPI targets, engine tuning, and
// report rendering options.
package config

import (
	"fmt"

	"golang-lending-kpi-service/internal/engine"
	"golang-lending-kpi-service/internal/parsers"
	"golang-lending-kpi-service/internal/reporter"
	"golang-lending-kpi-service/pkg/errors"

	"github.com/spf13/viper"
)

// LoadTargets reads KPI targets from a YAML or JSON file. An empty path
// yields zero targets, which report zero progress for every KPI.
func LoadTargets(path string) (*engine.Targets, error) {
	targets := &engine.Targets{}
	if path == "" {
		return targets, nil
	}

	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "targets-file", path, err)
	}

	if err := v.Unmarshal(targets); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "targets-file", path, err)
	}

	if err := targets.Validate(); err != nil {
		return nil, errors.ConfigurationError(errors.CodeInvalidConfig, "targets-file", path, err)
	}

	return targets, nil
}

// CreateLoaderConfig builds the snapshot loader configuration, applying any
// column overrides from the main configuration file. Overrides live under
// columns.<file>.<field>, e.g. columns.loan_tape.loan_id: facility_ref.
func CreateLoaderConfig() *parsers.SnapshotLoaderConfig {
	config := &parsers.SnapshotLoaderConfig{
		LoanTape: parsers.DefaultLoanTapeConfig(),
		Schedule: parsers.DefaultScheduleConfig(),
		Payments: parsers.DefaultPaymentsConfig(),
	}

	applyColumnOverrides(config.LoanTape, "columns.loan_tape")
	applyColumnOverrides(config.Schedule, "columns.schedule")
	applyColumnOverrides(config.Payments, "columns.payments")

	return config
}

func applyColumnOverrides(fc *parsers.FileConfig, key string) {
	overrides := viper.GetStringMapString(key)
	if len(overrides) == 0 {
		return
	}

	if fc.ColumnAliases == nil {
		fc.ColumnAliases = make(map[string]string, len(overrides))
	}
	for field, column := range overrides {
		fc.ColumnAliases[field] = column
	}
}

// CreateEngineConfig creates an engine configuration with CLI overrides
func CreateEngineConfig(topN int) *engine.Config {
	config := engine.DefaultConfig()
	config.TopConcentration = topN
	return config
}

// CreateReportConfig creates a report configuration for the specified output format
func CreateReportConfig(format string) *reporter.ReportConfig {
	config := reporter.DefaultReportConfig()

	switch format {
	case "console":
		config.Format = reporter.FormatConsole
		config.IncludeConcentration = true
		config.IncludeProgress = true
		config.IncludeRecordCounts = true
	case "json":
		config.Format = reporter.FormatJSON
		config.IncludeProgress = true
		config.IncludeRecordCounts = false // Counts ride inside the result bundle
	case "export":
		config.Format = reporter.FormatExport
	}

	return config
}

// ValidateConfig validates that all loader configurations are consistent
func ValidateConfig(config *parsers.SnapshotLoaderConfig) error {
	for name, fc := range map[string]*parsers.FileConfig{
		"loan_tape": config.LoanTape,
		"schedule":  config.Schedule,
		"payments":  config.Payments,
	} {
		if fc == nil {
			continue
		}
		if err := fc.Validate(); err != nil {
			return fmt.Errorf("invalid %s config: %w", name, err)
		}
	}

	return nil
}
