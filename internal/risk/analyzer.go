// Package risk computes the risk-side KPIs of a lending portfolio snapshot:
// counterparty concentration, the non-performing-loan rate, and delinquency
// statistics over payment history.
package risk

import (
	"sort"

	"golang-lending-kpi-service/internal/models"
	"golang-lending-kpi-service/internal/portfolio"

	"github.com/shopspring/decimal"
)

const (
	// DefaultTopN is the number of counterparties reported in the
	// concentration ranking
	DefaultTopN = 10

	// NPLThresholdDays is the days-past-due bound for non-performing
	// classification. A loan is non-performing when its maximum observed
	// DPD strictly exceeds this value; exactly 90 days is still performing.
	NPLThresholdDays = 90
)

// CustomerExposure is one entry in the counterparty concentration ranking
type CustomerExposure struct {
	CustomerID string          `json:"customer_id"`
	Balance    decimal.Decimal `json:"balance"`
	Percentage float64         `json:"percentage"`
}

// Concentration ranks counterparties by summed loan balance and returns the
// top N with each one's share of total exposure. Per-loan balances follow the
// same max-value selection as outstanding exposure. Ties in balance are
// broken by customer id ascending so the ranking is deterministic.
func Concentration(schedule []models.ScheduleEntry, topN int) []CustomerExposure {
	if topN <= 0 {
		topN = DefaultTopN
	}

	byCustomer := make(map[string]decimal.Decimal)
	total := decimal.Zero

	for _, lb := range portfolio.LatestLoanBalances(schedule) {
		byCustomer[lb.CustomerID] = byCustomer[lb.CustomerID].Add(lb.Balance)
		total = total.Add(lb.Balance)
	}

	ranking := make([]CustomerExposure, 0, len(byCustomer))
	for customerID, balance := range byCustomer {
		exposure := CustomerExposure{
			CustomerID: customerID,
			Balance:    balance,
		}
		if total.IsPositive() {
			exposure.Percentage, _ = balance.Div(total).Mul(decimal.NewFromInt(100)).Float64()
		}
		ranking = append(ranking, exposure)
	}

	sort.Slice(ranking, func(i, j int) bool {
		if !ranking[i].Balance.Equal(ranking[j].Balance) {
			return ranking[i].Balance.GreaterThan(ranking[j].Balance)
		}
		return ranking[i].CustomerID < ranking[j].CustomerID
	})

	if len(ranking) > topN {
		ranking = ranking[:topN]
	}

	return ranking
}

// NPLSummary reports the count and percentage of non-performing loans
type NPLSummary struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// MaxDPDByLoan returns the maximum days-past-due ever observed per loan
func MaxDPDByLoan(history []models.PaymentHistoryEntry) map[string]int {
	maxDPD := make(map[string]int)
	for _, entry := range history {
		if current, seen := maxDPD[entry.LoanID]; !seen || entry.DaysPastDue > current {
			maxDPD[entry.LoanID] = entry.DaysPastDue
		}
	}
	return maxDPD
}

// NonPerformingRate classifies loans by maximum observed DPD against the
// standard 90-day threshold. The denominator is the number of distinct loans
// observed in payment history, not the loan tape.
func NonPerformingRate(history []models.PaymentHistoryEntry) NPLSummary {
	return NonPerformingRateWithThreshold(history, NPLThresholdDays)
}

// NonPerformingRateWithThreshold classifies against a caller-supplied DPD
// threshold. Loans with max DPD strictly greater than the threshold are
// non-performing.
func NonPerformingRateWithThreshold(history []models.PaymentHistoryEntry, thresholdDays int) NPLSummary {
	maxDPD := MaxDPDByLoan(history)
	if len(maxDPD) == 0 {
		return NPLSummary{}
	}

	count := 0
	for _, dpd := range maxDPD {
		if dpd > thresholdDays {
			count++
		}
	}

	return NPLSummary{
		Count:      count,
		Percentage: float64(count) / float64(len(maxDPD)) * 100,
	}
}

// DelinquencySummary reports days-past-due statistics over raw payment rows
type DelinquencySummary struct {
	Current    int     `json:"current"`
	Late       int     `json:"late"`
	AverageDPD float64 `json:"average_dpd"`
}

// DelinquencyStats computes per-row delinquency statistics: how many payment
// rows were on time, how many were late, and the mean DPD across all rows.
// Rows are not deduplicated per loan.
func DelinquencyStats(history []models.PaymentHistoryEntry) DelinquencySummary {
	if len(history) == 0 {
		return DelinquencySummary{}
	}

	summary := DelinquencySummary{}
	totalDPD := 0

	for _, entry := range history {
		if entry.IsCurrent() {
			summary.Current++
		} else {
			summary.Late++
		}
		totalDPD += entry.DaysPastDue
	}

	summary.AverageDPD = float64(totalDPD) / float64(len(history))
	return summary
}
