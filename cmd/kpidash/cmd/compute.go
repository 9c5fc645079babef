package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang-lending-kpi-service/cmd/kpidash/config"
	"golang-lending-kpi-service/internal/dashboard"
	"golang-lending-kpi-service/internal/engine"
	"golang-lending-kpi-service/internal/parsers"
	"golang-lending-kpi-service/internal/reporter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the compute command
var (
	loanFile        string
	scheduleFile    string
	paymentsFile    string
	targetsFile     string
	outputFormat    string
	outputFile      string
	asOfDate        string
	forecastPeriods int
	topCounterparty int
)

// computeCmd represents the compute command
var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute portfolio KPIs from a snapshot",
	Long: `Compute runs one full KPI pass over a portfolio snapshot: the loan tape,
the repayment schedule, and the payment history.

This command requires:
- A loan tape file (CSV format)
- Optionally a repayment schedule and a payment history file

Examples:
  # Full snapshot with all three files
  kpidash compute --loan-file loans.csv --schedule-file schedule.csv --payments-file payments.csv

  # Measure against targets and write JSON
  kpidash compute --loan-file loans.csv --schedule-file schedule.csv \
    --targets-file targets.yaml --output-format json --output-file report.json

  # Export the executive dashboard with a 4-period forecast
  kpidash compute --loan-file loans.csv --schedule-file schedule.csv \
    --payments-file payments.csv --output-format export --forecast-periods 4

  # Compute as of a fixed reporting date
  kpidash compute --loan-file loans.csv --as-of 2026-06-30`,

	PreRunE: validateComputeFlags,
	RunE:    runCompute,
}

func init() {
	rootCmd.AddCommand(computeCmd)

	// Required flags
	computeCmd.Flags().StringVarP(&loanFile, "loan-file", "l", "", "path to loan tape CSV file (required)")

	// Optional snapshot files
	computeCmd.Flags().StringVarP(&scheduleFile, "schedule-file", "s", "", "path to repayment schedule CSV file")
	computeCmd.Flags().StringVarP(&paymentsFile, "payments-file", "p", "", "path to payment history CSV file")

	// Target configuration
	computeCmd.Flags().StringVarP(&targetsFile, "targets-file", "t", "", "path to KPI targets file (YAML or JSON)")

	// Output flags
	computeCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, export")
	computeCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")

	// Computation flags
	computeCmd.Flags().StringVar(&asOfDate, "as-of", "", "reporting date (YYYY-MM-DD, default: today)")
	computeCmd.Flags().IntVar(&forecastPeriods, "forecast-periods", 0, "forecast periods in dashboard export (0 disables)")
	computeCmd.Flags().IntVar(&topCounterparty, "top-n", 10, "counterparties in the concentration ranking")

	// Mark required flags
	computeCmd.MarkFlagRequired("loan-file")

	// Bind flags to viper
	viper.BindPFlag("loan-file", computeCmd.Flags().Lookup("loan-file"))
	viper.BindPFlag("schedule-file", computeCmd.Flags().Lookup("schedule-file"))
	viper.BindPFlag("payments-file", computeCmd.Flags().Lookup("payments-file"))
	viper.BindPFlag("targets-file", computeCmd.Flags().Lookup("targets-file"))
	viper.BindPFlag("output-format", computeCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", computeCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("as-of", computeCmd.Flags().Lookup("as-of"))
	viper.BindPFlag("forecast-periods", computeCmd.Flags().Lookup("forecast-periods"))
	viper.BindPFlag("top-n", computeCmd.Flags().Lookup("top-n"))
}

func validateComputeFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file)
	loanFile = viper.GetString("loan-file")
	scheduleFile = viper.GetString("schedule-file")
	paymentsFile = viper.GetString("payments-file")
	targetsFile = viper.GetString("targets-file")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")
	asOfDate = viper.GetString("as-of")
	forecastPeriods = viper.GetInt("forecast-periods")
	topCounterparty = viper.GetInt("top-n")

	// Validate required flags
	if loanFile == "" {
		return fmt.Errorf("loan-file is required")
	}

	// Validate file existence
	if err := validateFileExists(loanFile, "loan tape file"); err != nil {
		return err
	}
	if scheduleFile != "" {
		if err := validateFileExists(scheduleFile, "repayment schedule file"); err != nil {
			return err
		}
	}
	if paymentsFile != "" {
		if err := validateFileExists(paymentsFile, "payment history file"); err != nil {
			return err
		}
	}
	if targetsFile != "" {
		if err := validateFileExists(targetsFile, "targets file"); err != nil {
			return err
		}
	}

	// Validate output format
	if !reporter.OutputFormat(outputFormat).IsValid() {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, export", outputFormat)
	}

	// Validate reporting date
	if asOfDate != "" {
		if _, err := parseAsOf(asOfDate); err != nil {
			return err
		}
	}

	// Validate computation options
	if forecastPeriods < 0 {
		return fmt.Errorf("forecast periods cannot be negative")
	}
	if topCounterparty < 1 {
		return fmt.Errorf("top-n must be at least 1")
	}

	// Validate output file directory exists if specified
	if outputFile != "" {
		dir := filepath.Dir(outputFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func parseAsOf(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid as-of date format. Use YYYY-MM-DD: %w", err)
	}
	return t, nil
}

func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return fmt.Errorf("%s path cannot be empty", description)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", description, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}

	// Check if file is readable
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("%s is not readable: %w", description, err)
	}
	file.Close()

	return nil
}

func runCompute(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting KPI computation...\n")
		fmt.Fprintf(os.Stderr, "Loan tape: %s\n", loanFile)
		if scheduleFile != "" {
			fmt.Fprintf(os.Stderr, "Schedule: %s\n", scheduleFile)
		}
		if paymentsFile != "" {
			fmt.Fprintf(os.Stderr, "Payments: %s\n", paymentsFile)
		}
		fmt.Fprintf(os.Stderr, "Output format: %s\n", outputFormat)
	}

	// Resolve the reporting date
	asOf := time.Now().UTC()
	if asOfDate != "" {
		parsed, err := parseAsOf(asOfDate)
		if err != nil {
			return err
		}
		asOf = parsed
	}

	// Load targets
	targets, err := config.LoadTargets(targetsFile)
	if err != nil {
		return fmt.Errorf("failed to load targets: %w", err)
	}

	// Load the snapshot
	loader, err := parsers.NewSnapshotLoader(config.CreateLoaderConfig())
	if err != nil {
		return fmt.Errorf("failed to create snapshot loader: %w", err)
	}

	data, err := loader.Load(ctx, parsers.SnapshotFiles{
		LoanTape: loanFile,
		Schedule: scheduleFile,
		Payments: paymentsFile,
	})
	if err != nil {
		return err
	}

	// Compute the KPI bundle
	engineConfig := config.CreateEngineConfig(topCounterparty)
	kpiEngine, err := engine.NewEngine(engineConfig)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	result := kpiEngine.Compute(&engine.Snapshot{
		Loans:    data.Loans,
		Schedule: data.Schedule,
		Payments: data.Payments,
	}, asOf)

	progress := kpiEngine.ProgressReport(result, targets)

	// Feed the executive dashboard
	registry := dashboard.NewRegistry(nil)
	if err := kpiEngine.RegisterDashboard(registry, targets); err != nil {
		return fmt.Errorf("failed to register dashboard: %w", err)
	}
	if err := kpiEngine.PublishResult(registry, result); err != nil {
		return fmt.Errorf("failed to publish result: %w", err)
	}

	// Determine output destination
	output := os.Stdout
	if outputFile != "" {
		output, err = os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	}

	// Render
	reportConfig := config.CreateReportConfig(outputFormat)
	generator, err := reporter.NewReportGenerator(reportConfig)
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	if reportConfig.Format == reporter.FormatExport {
		export, err := registry.ExportDashboardWithOptions(engineConfig.DashboardID, asOf, dashboard.ExportOptions{
			ForecastPeriods: forecastPeriods,
		})
		if err != nil {
			return fmt.Errorf("failed to export dashboard: %w", err)
		}
		if err := generator.GenerateExport(export, output); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
	} else {
		if err := generator.GenerateReport(result, progress, output); err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}
	}

	// Show completion message
	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nKPI computation completed successfully.\n")
		fmt.Fprintf(os.Stderr, "Processed %d loans, %d schedule rows, %d payments.\n",
			result.RecordCounts.Loans, result.RecordCounts.Schedule, result.RecordCounts.Payments)
		fmt.Fprintf(os.Stderr, "Outstanding exposure: %s, NPL rate: %.1f%%.\n",
			result.OutstandingExposure.StringFixed(2), result.NPL.Percentage)
	}

	return nil
}
