package parsers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"golang-lending-kpi-service/internal/models"
	"golang-lending-kpi-service/pkg/errors"

	"github.com/shopspring/decimal"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return path
}

func TestLoanTapeLoader_Load(t *testing.T) {
	content := `loan_id,customer_id,status,current_balance,interest_rate,tenor_months,first_seen,recurring
L1,C1,Active,"$10,000.00",0.085,24,2025-03-01,false
L2,C2,closed,0,0.10,12,2024-01-15,true
`
	path := writeTempCSV(t, "loans.csv", content)

	loader, err := NewLoanTapeLoader(nil, nil)
	if err != nil {
		t.Fatalf("Failed to create loader: %v", err)
	}

	loans, stats, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loans) != 2 {
		t.Fatalf("Expected 2 loans, got %d", len(loans))
	}
	if stats.RecordsValid != 2 || stats.SkippedRows != 0 {
		t.Errorf("Unexpected stats: %s", stats)
	}

	first := loans[0]
	if first.LoanID != "L1" || first.CustomerID != "C1" {
		t.Errorf("Unexpected identifiers: %s/%s", first.LoanID, first.CustomerID)
	}
	if first.Status != models.LoanStatusActive {
		t.Errorf("Expected active status, got %s", first.Status)
	}
	if !first.CurrentBalance.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("Expected balance 10000 after stripping symbols, got %s", first.CurrentBalance)
	}
	if first.TenorMonths != 24 {
		t.Errorf("Expected tenor 24, got %d", first.TenorMonths)
	}

	if !loans[1].Recurring {
		t.Error("Expected second loan flagged recurring")
	}
}

func TestLoanTapeLoader_SkipsInvalidRows(t *testing.T) {
	content := `loan_id,customer_id,status,current_balance,interest_rate,tenor_months,first_seen,recurring
L1,C1,active,5000,0.08,12,2025-01-01,false
,C2,active,3000,0.09,12,2025-01-01,false
`
	path := writeTempCSV(t, "loans.csv", content)

	loader, _ := NewLoanTapeLoader(nil, nil)
	loans, stats, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loans) != 1 {
		t.Errorf("Expected 1 valid loan, got %d", len(loans))
	}
	if stats.SkippedRows != 1 {
		t.Errorf("Expected 1 skipped row, got %d", stats.SkippedRows)
	}
	if samples := stats.SampleErrors(5); len(samples) != 1 {
		t.Errorf("Expected 1 sample error, got %d", len(samples))
	}
}

func TestLoanTapeLoader_MalformedCellsCoerce(t *testing.T) {
	content := `loan_id,customer_id,status,current_balance,interest_rate,tenor_months,first_seen,recurring
L1,C1,active,not-a-number,garbage,oops,not-a-date,maybe
`
	path := writeTempCSV(t, "loans.csv", content)

	loader, _ := NewLoanTapeLoader(nil, nil)
	loans, _, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loans) != 1 {
		t.Fatalf("Expected lenient coercion to keep the row, got %d loans", len(loans))
	}

	loan := loans[0]
	if !loan.CurrentBalance.IsZero() || !loan.InterestRate.IsZero() {
		t.Error("Expected malformed numerics to coerce to zero")
	}
	if loan.TenorMonths != 0 || !loan.FirstSeen.IsZero() || loan.Recurring {
		t.Error("Expected malformed tenor, date, and flag to coerce to neutral values")
	}
}

func TestLoanTapeLoader_ColumnAliases(t *testing.T) {
	content := `facility_ref,obligor,status,current_balance,interest_rate,tenor_months,first_seen,recurring
L9,C9,active,1200,0.07,36,2025-06-01,false
`
	path := writeTempCSV(t, "loans.csv", content)

	config := DefaultLoanTapeConfig()
	config.ColumnAliases = map[string]string{
		models.FieldLoanID:     "facility_ref",
		models.FieldCustomerID: "obligor",
	}

	loader, err := NewLoanTapeLoader(config, nil)
	if err != nil {
		t.Fatalf("Failed to create loader: %v", err)
	}

	loans, _, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loans) != 1 || loans[0].LoanID != "L9" || loans[0].CustomerID != "C9" {
		t.Errorf("Expected aliases resolved, got %+v", loans)
	}
}

func TestLoanTapeLoader_FileNotFound(t *testing.T) {
	loader, _ := NewLoanTapeLoader(nil, nil)

	_, _, err := loader.Load(context.Background(), "/nonexistent/loans.csv")
	if err == nil {
		t.Fatal("Expected error for missing file")
	}

	engineErr, ok := errors.AsEngineError(err)
	if !ok || engineErr.Code != errors.CodeFileNotFound {
		t.Errorf("Expected file_not_found code, got %v", err)
	}
}

func TestLoanTapeLoader_MissingColumns(t *testing.T) {
	content := `some_column,other_column
a,b
`
	path := writeTempCSV(t, "loans.csv", content)

	loader, _ := NewLoanTapeLoader(nil, nil)
	_, _, err := loader.Load(context.Background(), path)
	if err == nil {
		t.Fatal("Expected error for missing required columns")
	}

	engineErr, ok := errors.AsEngineError(err)
	if !ok || engineErr.Code != errors.CodeMissingColumn {
		t.Errorf("Expected missing_column code, got %v", err)
	}
}

func TestLoanTapeLoader_EmptyFile(t *testing.T) {
	path := writeTempCSV(t, "loans.csv", "")

	loader, _ := NewLoanTapeLoader(nil, nil)
	_, _, err := loader.Load(context.Background(), path)
	if err == nil {
		t.Fatal("Expected error for empty file")
	}

	engineErr, ok := errors.AsEngineError(err)
	if !ok || engineErr.Code != errors.CodeEmptyFile {
		t.Errorf("Expected empty_file code, got %v", err)
	}
}

func TestScheduleLoader_Load(t *testing.T) {
	content := `loan_id,customer_id,period_end,ending_balance
L1,C1,2026-01-31,"1,000.00"
L1,C1,2026-02-28,4000
,C1,2026-03-31,2000
`
	path := writeTempCSV(t, "schedule.csv", content)

	loader, err := NewScheduleLoader(nil, nil)
	if err != nil {
		t.Fatalf("Failed to create loader: %v", err)
	}

	entries, stats, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if stats.SkippedRows != 1 {
		t.Errorf("Expected row without loan id skipped, got %d skips", stats.SkippedRows)
	}
	if !entries[0].EndingBalance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected balance 1000 after stripping separators, got %s", entries[0].EndingBalance)
	}
}

func TestPaymentsLoader_Load(t *testing.T) {
	content := `loan_id,days_past_due,payment_date
L1,0,2026-03-01
L2,95,2026-04-01
L3,-5,2026-04-01
`
	path := writeTempCSV(t, "payments.csv", content)

	loader, err := NewPaymentsLoader(nil, nil)
	if err != nil {
		t.Fatalf("Failed to create loader: %v", err)
	}

	payments, _, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(payments) != 3 {
		t.Fatalf("Expected 3 payments, got %d", len(payments))
	}
	if payments[1].DaysPastDue != 95 {
		t.Errorf("Expected 95 DPD, got %d", payments[1].DaysPastDue)
	}
	if payments[2].DaysPastDue != 0 {
		t.Errorf("Expected negative DPD clamped to 0, got %d", payments[2].DaysPastDue)
	}
}

func TestSnapshotLoader_Load(t *testing.T) {
	loans := writeTempCSV(t, "loans.csv", `loan_id,customer_id,status,current_balance,interest_rate,tenor_months,first_seen,recurring
L1,C1,active,10000,0.08,12,2026-02-01,false
`)
	schedule := writeTempCSV(t, "schedule.csv", `loan_id,customer_id,period_end,ending_balance
L1,C1,2026-02-28,4000
`)
	payments := writeTempCSV(t, "payments.csv", `loan_id,days_past_due,payment_date
L1,0,2026-03-01
`)

	loader, err := NewSnapshotLoader(nil)
	if err != nil {
		t.Fatalf("Failed to create snapshot loader: %v", err)
	}

	data, err := loader.Load(context.Background(), SnapshotFiles{
		LoanTape: loans,
		Schedule: schedule,
		Payments: payments,
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(data.Loans) != 1 || len(data.Schedule) != 1 || len(data.Payments) != 1 {
		t.Errorf("Unexpected record counts: %d/%d/%d", len(data.Loans), len(data.Schedule), len(data.Payments))
	}
}

func TestSnapshotLoader_OptionalFiles(t *testing.T) {
	loans := writeTempCSV(t, "loans.csv", `loan_id,customer_id,status,current_balance,interest_rate,tenor_months,first_seen,recurring
L1,C1,active,10000,0.08,12,2026-02-01,false
`)

	loader, _ := NewSnapshotLoader(nil)
	data, err := loader.Load(context.Background(), SnapshotFiles{LoanTape: loans})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(data.Loans) != 1 {
		t.Errorf("Expected 1 loan, got %d", len(data.Loans))
	}
	if data.Schedule != nil || data.Payments != nil {
		t.Error("Expected empty schedule and payments for loan-tape-only snapshot")
	}
}

func TestSnapshotLoader_Cancellation(t *testing.T) {
	loans := writeTempCSV(t, "loans.csv", `loan_id,customer_id,status,current_balance,interest_rate,tenor_months,first_seen,recurring
L1,C1,active,10000,0.08,12,2026-02-01,false
`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader, _ := NewSnapshotLoader(nil)
	if _, err := loader.Load(ctx, SnapshotFiles{LoanTape: loans}); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestFileConfig_Validate(t *testing.T) {
	config := &FileConfig{
		Columns:  map[string]string{models.FieldLoanID: "loan_id"},
		Required: []string{models.FieldLoanID},
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}

	missing := &FileConfig{
		Columns:  map[string]string{models.FieldLoanID: "  "},
		Required: []string{models.FieldLoanID},
	}
	if err := missing.Validate(); err == nil {
		t.Error("Expected error for blank column mapping")
	}
}
