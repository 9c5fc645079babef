// Command snapshot_generator produces synthetic portfolio snapshot CSVs for
// testing and demos: a loan tape, a repayment schedule, and a payment history
// that describe the same portfolio.
//
// Usage:
//
//	go run snapshot_generator.go -loans=500 -output-dir=../generated
//	go run snapshot_generator.go -loans=100 -npl-ratio=0.1 -seed=42
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var statuses = []string{"active", "active", "active", "closed", "recovered"}

func main() {
	var (
		loanCount   = flag.Int("loans", 100, "number of loans to generate")
		customers   = flag.Int("customers", 0, "number of customers (default: loans/3)")
		nplRatio    = flag.Float64("npl-ratio", 0.05, "fraction of loans with >90 days past due")
		periods     = flag.Int("periods", 6, "schedule periods per loan")
		payments    = flag.Int("payments", 4, "payment history rows per loan")
		seed        = flag.Int64("seed", time.Now().UnixNano(), "random seed for reproducible output")
		outputDir   = flag.String("output-dir", "../generated", "output directory")
		asOf        = flag.String("as-of", "2026-08-30", "snapshot date (YYYY-MM-DD)")
	)
	flag.Parse()

	asOfDate, err := time.Parse("2006-01-02", *asOf)
	if err != nil {
		log.Fatalf("Invalid as-of date: %v", err)
	}

	if *customers <= 0 {
		*customers = *loanCount/3 + 1
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	rng := rand.New(rand.NewSource(*seed))

	if err := generateSnapshot(rng, *outputDir, *loanCount, *customers, *nplRatio, *periods, *payments, asOfDate); err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	fmt.Printf("Generated snapshot with %d loans across %d customers in %s\n", *loanCount, *customers, *outputDir)
}

func generateSnapshot(rng *rand.Rand, dir string, loanCount, customers int, nplRatio float64, periods, payments int, asOf time.Time) error {
	loanFile, err := newWriter(filepath.Join(dir, "loans.csv"),
		[]string{"loan_id", "customer_id", "status", "current_balance", "interest_rate", "tenor_months", "first_seen", "recurring"})
	if err != nil {
		return err
	}
	defer loanFile.close()

	scheduleFile, err := newWriter(filepath.Join(dir, "schedule.csv"),
		[]string{"loan_id", "customer_id", "period_end", "ending_balance"})
	if err != nil {
		return err
	}
	defer scheduleFile.close()

	paymentFile, err := newWriter(filepath.Join(dir, "payments.csv"),
		[]string{"loan_id", "days_past_due", "payment_date"})
	if err != nil {
		return err
	}
	defer paymentFile.close()

	for i := 1; i <= loanCount; i++ {
		loanID := fmt.Sprintf("L%05d", i)
		customerID := fmt.Sprintf("C%04d", rng.Intn(customers)+1)
		status := statuses[rng.Intn(len(statuses))]
		balance := 5000 + rng.Float64()*495000
		rate := 0.04 + rng.Float64()*0.14
		tenor := []int{6, 12, 18, 24, 36, 48, 60}[rng.Intn(7)]
		firstSeen := asOf.AddDate(0, -rng.Intn(48), -rng.Intn(28))
		recurring := rng.Float64() < 0.3

		if err := loanFile.write([]string{
			loanID,
			customerID,
			status,
			fmt.Sprintf("%.2f", balance),
			fmt.Sprintf("%.4f", rate),
			strconv.Itoa(tenor),
			firstSeen.Format("2006-01-02"),
			strconv.FormatBool(recurring),
		}); err != nil {
			return err
		}

		// Amortizing balances, most recent period last
		remaining := balance
		for p := periods; p >= 1; p-- {
			periodEnd := asOf.AddDate(0, -p+1, 0)
			if err := scheduleFile.write([]string{
				loanID,
				customerID,
				periodEnd.Format("2006-01-02"),
				fmt.Sprintf("%.2f", remaining),
			}); err != nil {
				return err
			}
			remaining *= 0.92 + rng.Float64()*0.05
		}

		nonPerforming := rng.Float64() < nplRatio
		for p := 0; p < payments; p++ {
			dpd := 0
			if nonPerforming && p == payments-1 {
				dpd = 91 + rng.Intn(90)
			} else if rng.Float64() < 0.2 {
				dpd = 1 + rng.Intn(60)
			}

			paymentDate := asOf.AddDate(0, -(payments - p - 1), 0)
			if err := paymentFile.write([]string{
				loanID,
				strconv.Itoa(dpd),
				paymentDate.Format("2006-01-02"),
			}); err != nil {
				return err
			}
		}
	}

	return nil
}

type csvFile struct {
	file   *os.File
	writer *csv.Writer
}

func newWriter(path string, headers []string) (*csvFile, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write headers to %s: %w", path, err)
	}

	return &csvFile{file: file, writer: writer}, nil
}

func (f *csvFile) write(record []string) error {
	return f.writer.Write(record)
}

func (f *csvFile) close() {
	f.writer.Flush()
	f.file.Close()
}
