package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoanStatus_IsValid(t *testing.T) {
	tests := []struct {
		status   LoanStatus
		expected bool
	}{
		{LoanStatusActive, true},
		{LoanStatusClosed, true},
		{LoanStatusRecovered, true},
		{LoanStatus("defaulted"), false},
		{LoanStatus(""), false},
	}

	for _, tt := range tests {
		if got := tt.status.IsValid(); got != tt.expected {
			t.Errorf("IsValid(%q) = %v, expected %v", tt.status, got, tt.expected)
		}
	}
}

func TestLoanRecord_Validate(t *testing.T) {
	valid := LoanRecord{
		LoanID:         "L001",
		CustomerID:     "C001",
		Status:         LoanStatusActive,
		CurrentBalance: decimal.NewFromInt(10000),
		InterestRate:   decimal.NewFromFloat(0.08),
		TenorMonths:    24,
		FirstSeen:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid record, got error: %v", err)
	}

	tests := []struct {
		name   string
		modify func(*LoanRecord)
	}{
		{"empty loan id", func(l *LoanRecord) { l.LoanID = "" }},
		{"empty customer id", func(l *LoanRecord) { l.CustomerID = " " }},
		{"unknown status", func(l *LoanRecord) { l.Status = "defaulted" }},
		{"negative balance", func(l *LoanRecord) { l.CurrentBalance = decimal.NewFromInt(-1) }},
		{"negative rate", func(l *LoanRecord) { l.InterestRate = decimal.NewFromFloat(-0.01) }},
		{"negative tenor", func(l *LoanRecord) { l.TenorMonths = -6 }},
		{"zero first seen", func(l *LoanRecord) { l.FirstSeen = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := valid
			tt.modify(&record)
			if err := record.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestScheduleEntry_Validate(t *testing.T) {
	valid := ScheduleEntry{
		LoanID:        "L001",
		CustomerID:    "C001",
		PeriodEnd:     time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		EndingBalance: decimal.NewFromInt(4000),
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid entry, got error: %v", err)
	}

	missing := valid
	missing.PeriodEnd = time.Time{}
	if err := missing.Validate(); err == nil {
		t.Error("Expected error for zero period end")
	}
}

func TestPaymentHistoryEntry_IsCurrent(t *testing.T) {
	current := PaymentHistoryEntry{LoanID: "L001", DaysPastDue: 0}
	if !current.IsCurrent() {
		t.Error("Expected zero DPD to be current")
	}

	late := PaymentHistoryEntry{LoanID: "L001", DaysPastDue: 15}
	if late.IsCurrent() {
		t.Error("Expected nonzero DPD to be late")
	}
}

func TestBucketForTenor(t *testing.T) {
	tests := []struct {
		tenor    int
		expected TenorBucket
	}{
		{0, TenorBucketShort},
		{6, TenorBucketShort},
		{12, TenorBucketShort},
		{13, TenorBucketMedium},
		{24, TenorBucketMedium},
		{25, TenorBucketLong},
		{36, TenorBucketLong},
		{37, TenorBucketExtended},
		{120, TenorBucketExtended},
	}

	for _, tt := range tests {
		if got := BucketForTenor(tt.tenor); got != tt.expected {
			t.Errorf("BucketForTenor(%d) = %s, expected %s", tt.tenor, got, tt.expected)
		}
	}
}

func TestTenorBuckets_Order(t *testing.T) {
	buckets := TenorBuckets()
	if len(buckets) != 4 {
		t.Fatalf("Expected 4 buckets, got %d", len(buckets))
	}

	expected := []TenorBucket{TenorBucketShort, TenorBucketMedium, TenorBucketLong, TenorBucketExtended}
	for i, b := range expected {
		if buckets[i] != b {
			t.Errorf("Expected bucket %d to be %s, got %s", i, b, buckets[i])
		}
	}
}
