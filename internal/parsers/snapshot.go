package parsers

import (
	"context"
	"fmt"
	"io"

	"golang-lending-kpi-service/internal/models"
	"golang-lending-kpi-service/pkg/logger"
)

// LoanTapeLoader loads the loan tape file into loan records
type LoanTapeLoader struct {
	base   *baseReader
	config *FileConfig
}

// NewLoanTapeLoader creates a loan tape loader. A nil config uses the
// standard column mapping.
func NewLoanTapeLoader(config *FileConfig, parseConfig *ParseConfig) (*LoanTapeLoader, error) {
	if config == nil {
		config = DefaultLoanTapeConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid loan tape config: %w", err)
	}

	return &LoanTapeLoader{
		base:   newBaseReader(parseConfig, "loan_tape_loader"),
		config: config,
	}, nil
}

// Load reads the loan tape file. Rows failing structural validation are
// skipped and counted in the stats.
func (l *LoanTapeLoader) Load(ctx context.Context, filePath string) ([]models.LoanRecord, *ParseStats, error) {
	fields := []string{
		models.FieldLoanID, models.FieldCustomerID, models.FieldStatus,
		models.FieldBalance, models.FieldRate, models.FieldTenor,
		models.FieldFirstSeen, models.FieldRecurring,
	}

	var loans []models.LoanRecord
	stats, err := loadRows(ctx, l.base, l.config, filePath, fields, func(row models.Row, line int, stats *ParseStats) {
		loan := models.NormalizeLoanRecord(row)
		if err := loan.Validate(); err != nil {
			stats.AddRowError(line, err.Error())
			return
		}
		loans = append(loans, loan)
		stats.RecordsValid++
	})
	if err != nil {
		return nil, nil, err
	}

	return loans, stats, nil
}

// ScheduleLoader loads the repayment schedule file into schedule entries
type ScheduleLoader struct {
	base   *baseReader
	config *FileConfig
}

// NewScheduleLoader creates a schedule loader
func NewScheduleLoader(config *FileConfig, parseConfig *ParseConfig) (*ScheduleLoader, error) {
	if config == nil {
		config = DefaultScheduleConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schedule config: %w", err)
	}

	return &ScheduleLoader{
		base:   newBaseReader(parseConfig, "schedule_loader"),
		config: config,
	}, nil
}

// Load reads the repayment schedule file. Rows with no loan id are skipped.
func (l *ScheduleLoader) Load(ctx context.Context, filePath string) ([]models.ScheduleEntry, *ParseStats, error) {
	fields := []string{
		models.FieldLoanID, models.FieldCustomerID,
		models.FieldPeriodEnd, models.FieldEndingBalance,
	}

	var entries []models.ScheduleEntry
	stats, err := loadRows(ctx, l.base, l.config, filePath, fields, func(row models.Row, line int, stats *ParseStats) {
		entry := models.NormalizeScheduleEntry(row)
		if entry.LoanID == "" {
			stats.AddRowError(line, "loan id is required")
			return
		}
		entries = append(entries, entry)
		stats.RecordsValid++
	})
	if err != nil {
		return nil, nil, err
	}

	return entries, stats, nil
}

// PaymentsLoader loads the payment history file into payment entries
type PaymentsLoader struct {
	base   *baseReader
	config *FileConfig
}

// NewPaymentsLoader creates a payment history loader
func NewPaymentsLoader(config *FileConfig, parseConfig *ParseConfig) (*PaymentsLoader, error) {
	if config == nil {
		config = DefaultPaymentsConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid payments config: %w", err)
	}

	return &PaymentsLoader{
		base:   newBaseReader(parseConfig, "payments_loader"),
		config: config,
	}, nil
}

// Load reads the payment history file. Rows with no loan id are skipped;
// negative days-past-due values are already clamped by the normalizer.
func (l *PaymentsLoader) Load(ctx context.Context, filePath string) ([]models.PaymentHistoryEntry, *ParseStats, error) {
	fields := []string{
		models.FieldLoanID, models.FieldDaysPastDue, models.FieldPaymentDate,
	}

	var payments []models.PaymentHistoryEntry
	stats, err := loadRows(ctx, l.base, l.config, filePath, fields, func(row models.Row, line int, stats *ParseStats) {
		payment := models.NormalizePaymentEntry(row)
		if payment.LoanID == "" {
			stats.AddRowError(line, "loan id is required")
			return
		}
		payments = append(payments, payment)
		stats.RecordsValid++
	})
	if err != nil {
		return nil, nil, err
	}

	return payments, stats, nil
}

// loadRows runs the shared read loop: open, read headers, map each record's
// cells onto stable field names, and hand the row to the collector.
func loadRows(ctx context.Context, base *baseReader, config *FileConfig, filePath string, fields []string, collect func(models.Row, int, *ParseStats)) (*ParseStats, error) {
	file, reader, err := base.openFile(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	state := newReaderState(ctx)
	if err := base.readHeaders(reader, state, filePath, config.requiredColumns()); err != nil {
		return nil, err
	}

	stats := &ParseStats{}
	for {
		record, err := base.readRecord(reader, state)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(models.Row, len(fields))
		for _, field := range fields {
			row[field] = state.fieldValue(record, config.ColumnName(field))
		}

		stats.RecordsParsed++
		collect(row, state.lineNumber, stats)
	}

	stats.TotalLines = state.lineNumber

	if stats.HasErrors() {
		base.logger.WithFields(logger.Fields{
			"file_path":     filePath,
			"skipped_rows":  stats.SkippedRows,
			"sample_errors": stats.SampleErrors(3),
		}).Warn("Some snapshot rows were skipped")
	}

	return stats, nil
}

// SnapshotFiles names the three files of one portfolio snapshot
type SnapshotFiles struct {
	LoanTape string
	Schedule string
	Payments string
}

// SnapshotData is the loaded content of one snapshot
type SnapshotData struct {
	Loans    []models.LoanRecord
	Schedule []models.ScheduleEntry
	Payments []models.PaymentHistoryEntry

	LoanStats     *ParseStats
	ScheduleStats *ParseStats
	PaymentStats  *ParseStats
}

// SnapshotLoader loads a complete snapshot from its three files
type SnapshotLoader struct {
	loanTape *LoanTapeLoader
	schedule *ScheduleLoader
	payments *PaymentsLoader
	logger   logger.Logger
}

// SnapshotLoaderConfig carries the per-file configurations. Nil entries use
// the standard mappings.
type SnapshotLoaderConfig struct {
	LoanTape *FileConfig
	Schedule *FileConfig
	Payments *FileConfig
	Parse    *ParseConfig
}

// NewSnapshotLoader creates a loader for all three snapshot files
func NewSnapshotLoader(config *SnapshotLoaderConfig) (*SnapshotLoader, error) {
	if config == nil {
		config = &SnapshotLoaderConfig{}
	}

	loanTape, err := NewLoanTapeLoader(config.LoanTape, config.Parse)
	if err != nil {
		return nil, err
	}

	schedule, err := NewScheduleLoader(config.Schedule, config.Parse)
	if err != nil {
		return nil, err
	}

	payments, err := NewPaymentsLoader(config.Payments, config.Parse)
	if err != nil {
		return nil, err
	}

	return &SnapshotLoader{
		loanTape: loanTape,
		schedule: schedule,
		payments: payments,
		logger:   logger.GetGlobalLogger().WithComponent("snapshot_loader"),
	}, nil
}

// Load reads all three snapshot files. The schedule and payments files are
// optional: an empty path yields empty slices, so a loan-tape-only snapshot
// still computes the KPIs that need no schedule or history.
func (sl *SnapshotLoader) Load(ctx context.Context, files SnapshotFiles) (*SnapshotData, error) {
	data := &SnapshotData{}

	loans, loanStats, err := sl.loanTape.Load(ctx, files.LoanTape)
	if err != nil {
		return nil, err
	}
	data.Loans = loans
	data.LoanStats = loanStats

	if files.Schedule != "" {
		schedule, scheduleStats, err := sl.schedule.Load(ctx, files.Schedule)
		if err != nil {
			return nil, err
		}
		data.Schedule = schedule
		data.ScheduleStats = scheduleStats
	}

	if files.Payments != "" {
		payments, paymentStats, err := sl.payments.Load(ctx, files.Payments)
		if err != nil {
			return nil, err
		}
		data.Payments = payments
		data.PaymentStats = paymentStats
	}

	sl.logger.WithFields(logger.Fields{
		"loans":    len(data.Loans),
		"schedule": len(data.Schedule),
		"payments": len(data.Payments),
	}).Info("Snapshot loaded")

	return data, nil
}
