package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus represents the lifecycle status of a loan
type LoanStatus string

const (
	// LoanStatusActive represents a loan that is currently outstanding
	LoanStatusActive LoanStatus = "active"
	// LoanStatusClosed represents a loan that has been fully repaid or written off
	LoanStatusClosed LoanStatus = "closed"
	// LoanStatusRecovered represents a loan brought back from default
	LoanStatusRecovered LoanStatus = "recovered"
)

// String returns the string representation of LoanStatus
func (s LoanStatus) String() string {
	return string(s)
}

// IsValid checks if the loan status is one of the known lifecycle states
func (s LoanStatus) IsValid() bool {
	return s == LoanStatusActive || s == LoanStatusClosed || s == LoanStatusRecovered
}

// LoanRecord represents one loan from the snapshot loan tape.
// Records are immutable for the duration of a computation pass.
type LoanRecord struct {
	LoanID         string          `json:"loan_id"`
	CustomerID     string          `json:"customer_id"`
	Status         LoanStatus      `json:"status"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	InterestRate   decimal.Decimal `json:"interest_rate"` // APR as a fraction, e.g. 0.08
	TenorMonths    int             `json:"tenor_months"`
	FirstSeen      time.Time       `json:"first_seen"`
	Recurring      bool            `json:"recurring"`
}

// IsActive returns true if the loan is currently outstanding
func (l *LoanRecord) IsActive() bool {
	return l.Status == LoanStatusActive
}

// IsRecovered returns true if the loan was brought back from default
func (l *LoanRecord) IsRecovered() bool {
	return l.Status == LoanStatusRecovered
}

// Validate performs strict validation on the LoanRecord. The normalizer is
// deliberately lenient, so this is for callers that need integrity checking
// on top of lenient coercion.
func (l *LoanRecord) Validate() error {
	if strings.TrimSpace(l.LoanID) == "" {
		return fmt.Errorf("loan ID cannot be empty")
	}

	if strings.TrimSpace(l.CustomerID) == "" {
		return fmt.Errorf("customer ID cannot be empty")
	}

	if !l.Status.IsValid() {
		return fmt.Errorf("invalid loan status: %s", l.Status)
	}

	if l.CurrentBalance.IsNegative() {
		return fmt.Errorf("current balance cannot be negative")
	}

	if l.InterestRate.IsNegative() {
		return fmt.Errorf("interest rate cannot be negative")
	}

	if l.TenorMonths < 0 {
		return fmt.Errorf("tenor cannot be negative")
	}

	if l.FirstSeen.IsZero() {
		return fmt.Errorf("first-seen date cannot be zero")
	}

	return nil
}

// String returns a string representation of the LoanRecord
func (l *LoanRecord) String() string {
	return fmt.Sprintf("LoanRecord{ID: %s, Customer: %s, Status: %s, Balance: %s, Rate: %s, Tenor: %dm}",
		l.LoanID, l.CustomerID, l.Status, l.CurrentBalance.String(), l.InterestRate.String(), l.TenorMonths)
}

// ScheduleEntry represents one end-of-period balance observation from the
// payment schedule. A loan has one or more entries.
type ScheduleEntry struct {
	LoanID        string          `json:"loan_id"`
	CustomerID    string          `json:"customer_id"`
	PeriodEnd     time.Time       `json:"period_end"`
	EndingBalance decimal.Decimal `json:"ending_balance"`
}

// Validate performs strict validation on the ScheduleEntry
func (e *ScheduleEntry) Validate() error {
	if strings.TrimSpace(e.LoanID) == "" {
		return fmt.Errorf("loan ID cannot be empty")
	}

	if strings.TrimSpace(e.CustomerID) == "" {
		return fmt.Errorf("customer ID cannot be empty")
	}

	if e.PeriodEnd.IsZero() {
		return fmt.Errorf("period-end date cannot be zero")
	}

	if e.EndingBalance.IsNegative() {
		return fmt.Errorf("ending balance cannot be negative")
	}

	return nil
}

// String returns a string representation of the ScheduleEntry
func (e *ScheduleEntry) String() string {
	return fmt.Sprintf("ScheduleEntry{Loan: %s, PeriodEnd: %s, Balance: %s}",
		e.LoanID, e.PeriodEnd.Format("2006-01-02"), e.EndingBalance.String())
}

// PaymentHistoryEntry represents one observed payment with its delinquency
// measured in days past due.
type PaymentHistoryEntry struct {
	LoanID      string    `json:"loan_id"`
	DaysPastDue int       `json:"days_past_due"`
	PaymentDate time.Time `json:"payment_date"`
}

// IsCurrent returns true if the payment was made on time
func (p *PaymentHistoryEntry) IsCurrent() bool {
	return p.DaysPastDue == 0
}

// Validate performs strict validation on the PaymentHistoryEntry
func (p *PaymentHistoryEntry) Validate() error {
	if strings.TrimSpace(p.LoanID) == "" {
		return fmt.Errorf("loan ID cannot be empty")
	}

	if p.DaysPastDue < 0 {
		return fmt.Errorf("days past due cannot be negative")
	}

	if p.PaymentDate.IsZero() {
		return fmt.Errorf("payment date cannot be zero")
	}

	return nil
}

// String returns a string representation of the PaymentHistoryEntry
func (p *PaymentHistoryEntry) String() string {
	return fmt.Sprintf("PaymentHistoryEntry{Loan: %s, DPD: %d, Date: %s}",
		p.LoanID, p.DaysPastDue, p.PaymentDate.Format("2006-01-02"))
}

// TenorBucket identifies one of the four fixed maturity buckets
type TenorBucket string

const (
	TenorBucketShort    TenorBucket = "0-12"
	TenorBucketMedium   TenorBucket = "13-24"
	TenorBucketLong     TenorBucket = "25-36"
	TenorBucketExtended TenorBucket = "37+"
)

// TenorBuckets returns the four fixed buckets in ascending maturity order
func TenorBuckets() []TenorBucket {
	return []TenorBucket{TenorBucketShort, TenorBucketMedium, TenorBucketLong, TenorBucketExtended}
}

// BucketForTenor maps a tenor in months to its maturity bucket. The buckets
// are non-overlapping and exhaustive: [0,12], [13,24], [25,36], [37,∞).
func BucketForTenor(tenorMonths int) TenorBucket {
	switch {
	case tenorMonths <= 12:
		return TenorBucketShort
	case tenorMonths <= 24:
		return TenorBucketMedium
	case tenorMonths <= 36:
		return TenorBucketLong
	default:
		return TenorBucketExtended
	}
}
