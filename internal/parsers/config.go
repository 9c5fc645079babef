package parsers

import (
	"fmt"
	"strings"

	"golang-lending-kpi-service/internal/models"
)

// FileConfig maps the stable field names of one snapshot file to the column
// names the exporting system actually uses. ColumnAliases override individual
// mappings without redefining the whole set, which is how per-servicer format
// quirks are configured.
type FileConfig struct {
	Columns       map[string]string `json:"columns"`
	ColumnAliases map[string]string `json:"column_aliases,omitempty"`
	Required      []string          `json:"required"`
	Description   string            `json:"description,omitempty"`
}

// Validate checks that every required field has a column mapping
func (fc *FileConfig) Validate() error {
	for _, field := range fc.Required {
		if strings.TrimSpace(fc.ColumnName(field)) == "" {
			return fmt.Errorf("no column mapped for required field %s", field)
		}
	}
	return nil
}

// ColumnName returns the source column for a stable field name,
// checking aliases first
func (fc *FileConfig) ColumnName(field string) string {
	if alias, exists := fc.ColumnAliases[field]; exists {
		return alias
	}
	if column, exists := fc.Columns[field]; exists {
		return column
	}
	return field
}

// requiredColumns resolves the required fields to source column names
func (fc *FileConfig) requiredColumns() []string {
	columns := make([]string, len(fc.Required))
	for i, field := range fc.Required {
		columns[i] = fc.ColumnName(field)
	}
	return columns
}

// DefaultLoanTapeConfig returns the standard loan tape column mapping
func DefaultLoanTapeConfig() *FileConfig {
	return &FileConfig{
		Columns: map[string]string{
			models.FieldLoanID:     "loan_id",
			models.FieldCustomerID: "customer_id",
			models.FieldStatus:     "status",
			models.FieldBalance:    "current_balance",
			models.FieldRate:       "interest_rate",
			models.FieldTenor:      "tenor_months",
			models.FieldFirstSeen:  "first_seen",
			models.FieldRecurring:  "recurring",
		},
		Required:    []string{models.FieldLoanID, models.FieldCustomerID},
		Description: "Loan tape export, one row per loan",
	}
}

// DefaultScheduleConfig returns the standard repayment schedule column mapping
func DefaultScheduleConfig() *FileConfig {
	return &FileConfig{
		Columns: map[string]string{
			models.FieldLoanID:        "loan_id",
			models.FieldCustomerID:    "customer_id",
			models.FieldPeriodEnd:     "period_end",
			models.FieldEndingBalance: "ending_balance",
		},
		Required:    []string{models.FieldLoanID, models.FieldEndingBalance},
		Description: "Repayment schedule export, one row per loan-period",
	}
}

// DefaultPaymentsConfig returns the standard payment history column mapping
func DefaultPaymentsConfig() *FileConfig {
	return &FileConfig{
		Columns: map[string]string{
			models.FieldLoanID:      "loan_id",
			models.FieldDaysPastDue: "days_past_due",
			models.FieldPaymentDate: "payment_date",
		},
		Required:    []string{models.FieldLoanID, models.FieldDaysPastDue},
		Description: "Payment history export, one row per observed payment",
	}
}
