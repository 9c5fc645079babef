package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Stable field names for snapshot row mappings. The loaders resolve column
// aliases to these names before handing rows to the normalizer.
const (
	FieldLoanID        = "loan_id"
	FieldCustomerID    = "customer_id"
	FieldStatus        = "status"
	FieldBalance       = "balance"
	FieldRate          = "rate"
	FieldTenor         = "tenor_months"
	FieldFirstSeen     = "first_seen"
	FieldRecurring     = "recurring"
	FieldPeriodEnd     = "period_end"
	FieldEndingBalance = "ending_balance"
	FieldDaysPastDue   = "days_past_due"
	FieldPaymentDate   = "payment_date"
)

// Row is a raw row mapping from the record-loading collaborator,
// keyed by stable field names.
type Row map[string]string

// Get returns the trimmed value for a field, or "" if absent
func (r Row) Get(field string) string {
	return strings.TrimSpace(r[field])
}

// The normalizer is deliberately lenient: a malformed cell coerces to a
// neutral value instead of aborting the batch, so one bad row never sinks a
// whole portfolio snapshot. Callers needing strict validation run the
// records' Validate methods afterwards.

// LenientDecimal parses a monetary or rate value, resolving malformed input
// to zero. Currency symbols and thousands separators are stripped first.
func LenientDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	return d
}

// LenientInt parses an integer value, resolving malformed input to 0.
// Fractional representations like "12.0" are truncated.
func LenientInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if n, err := strconv.Atoi(s); err == nil {
		return n
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}

	return 0
}

// LenientBool parses a boolean flag, resolving anything unrecognized to false
func LenientBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1":
		return true
	default:
		return false
	}
}

// dateFormats are the formats commonly seen in snapshot exports
var dateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
	"2006/01/02",
	"Jan 2, 2006",
}

// LenientDate parses a date value, resolving malformed input to the zero
// time.Time sentinel rather than aborting.
func LenientDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}

	return time.Time{}
}

// ParseLoanStatus normalizes a status cell. Known statuses map to their
// canonical constants; anything else is carried through lowercased so the
// record simply never counts as active or recovered.
func ParseLoanStatus(s string) LoanStatus {
	return LoanStatus(strings.ToLower(strings.TrimSpace(s)))
}

// NormalizeLoanRecord converts a raw row mapping into a typed LoanRecord
func NormalizeLoanRecord(row Row) LoanRecord {
	return LoanRecord{
		LoanID:         row.Get(FieldLoanID),
		CustomerID:     row.Get(FieldCustomerID),
		Status:         ParseLoanStatus(row.Get(FieldStatus)),
		CurrentBalance: LenientDecimal(row.Get(FieldBalance)),
		InterestRate:   LenientDecimal(row.Get(FieldRate)),
		TenorMonths:    LenientInt(row.Get(FieldTenor)),
		FirstSeen:      LenientDate(row.Get(FieldFirstSeen)),
		Recurring:      LenientBool(row.Get(FieldRecurring)),
	}
}

// NormalizeScheduleEntry converts a raw row mapping into a typed ScheduleEntry
func NormalizeScheduleEntry(row Row) ScheduleEntry {
	return ScheduleEntry{
		LoanID:        row.Get(FieldLoanID),
		CustomerID:    row.Get(FieldCustomerID),
		PeriodEnd:     LenientDate(row.Get(FieldPeriodEnd)),
		EndingBalance: LenientDecimal(row.Get(FieldEndingBalance)),
	}
}

// NormalizePaymentEntry converts a raw row mapping into a typed
// PaymentHistoryEntry. Negative DPD values are clamped to 0.
func NormalizePaymentEntry(row Row) PaymentHistoryEntry {
	dpd := LenientInt(row.Get(FieldDaysPastDue))
	if dpd < 0 {
		dpd = 0
	}

	return PaymentHistoryEntry{
		LoanID:      row.Get(FieldLoanID),
		DaysPastDue: dpd,
		PaymentDate: LenientDate(row.Get(FieldPaymentDate)),
	}
}
