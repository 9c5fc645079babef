// Package portfolio computes the exposure-side KPIs of a lending portfolio
// snapshot: outstanding exposure, exposure-weighted interest rate, and the
// maturity (tenor) mix.
//
// All computations are pure, single-pass functions over in-memory record
// slices. Degenerate inputs never raise: empty slices yield all-zero outputs
// and zero denominators resolve to zero rather than NaN.
package portfolio

import (
	"sort"

	"golang-lending-kpi-service/internal/models"

	"github.com/shopspring/decimal"
)

// LoanBalance is the selected balance for one loan, used for exposure and
// counterparty concentration math.
type LoanBalance struct {
	LoanID     string
	CustomerID string
	Balance    decimal.Decimal
}

// LatestLoanBalances selects one balance per loan from its schedule entries.
//
// Selection takes the maximum observed end-of-period balance, not the
// chronologically latest one. This mirrors the upstream system's behavior;
// recency-based selection is the domain-correct semantic but changing it
// needs business sign-off.
//
// Results are ordered by loan id ascending so downstream output is
// deterministic.
func LatestLoanBalances(schedule []models.ScheduleEntry) []LoanBalance {
	balances := make(map[string]decimal.Decimal)
	customers := make(map[string]string)

	for _, entry := range schedule {
		current, seen := balances[entry.LoanID]
		if !seen || entry.EndingBalance.GreaterThan(current) {
			balances[entry.LoanID] = entry.EndingBalance
		}
		if _, ok := customers[entry.LoanID]; !ok {
			customers[entry.LoanID] = entry.CustomerID
		}
	}

	result := make([]LoanBalance, 0, len(balances))
	for loanID, balance := range balances {
		result = append(result, LoanBalance{
			LoanID:     loanID,
			CustomerID: customers[loanID],
			Balance:    balance,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].LoanID < result[j].LoanID
	})

	return result
}

// OutstandingExposure sums each loan's selected balance across the whole
// schedule. Empty input yields zero.
func OutstandingExposure(schedule []models.ScheduleEntry) decimal.Decimal {
	total := decimal.Zero
	for _, lb := range LatestLoanBalances(schedule) {
		total = total.Add(lb.Balance)
	}
	return total
}

// WeightedInterestRate computes the exposure-weighted average APR over active
// loans: Σ(rate_i × balance_i) / Σ(balance_i) using each loan's current
// balance from the loan tape. Loans with non-positive balances are excluded
// from both numerator and denominator; a zero eligible balance yields 0.
func WeightedInterestRate(loans []models.LoanRecord) decimal.Decimal {
	weighted := decimal.Zero
	total := decimal.Zero

	for _, loan := range loans {
		if !loan.IsActive() || !loan.CurrentBalance.IsPositive() {
			continue
		}

		weighted = weighted.Add(loan.InterestRate.Mul(loan.CurrentBalance))
		total = total.Add(loan.CurrentBalance)
	}

	if total.IsZero() {
		return decimal.Zero
	}

	return weighted.Div(total)
}

// TenorMix groups active-loan current balances into the four fixed maturity
// buckets. Buckets with no loans still appear with a zero balance.
func TenorMix(loans []models.LoanRecord) map[models.TenorBucket]decimal.Decimal {
	mix := make(map[models.TenorBucket]decimal.Decimal, 4)
	for _, bucket := range models.TenorBuckets() {
		mix[bucket] = decimal.Zero
	}

	for _, loan := range loans {
		if !loan.IsActive() {
			continue
		}

		bucket := models.BucketForTenor(loan.TenorMonths)
		mix[bucket] = mix[bucket].Add(loan.CurrentBalance)
	}

	return mix
}
