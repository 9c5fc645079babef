// Package cohort classifies the counterparties of a loan tape into
// total/new/recurring/recovered counts for the executive dashboard.
package cohort

import (
	"sort"
	"time"

	"golang-lending-kpi-service/internal/models"
)

// CustomerProfile is the per-customer rollup built from the loan tape
type CustomerProfile struct {
	CustomerID string    `json:"customer_id"`
	FirstSeen  time.Time `json:"first_seen"`
	Recurring  bool      `json:"recurring"`
	Recovered  bool      `json:"recovered"`
}

// Summary holds the four cohort counts. The counts are independent: a
// customer may count toward recovered regardless of new/recurring
// classification.
type Summary struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Recurring int `json:"recurring"`
	Recovered int `json:"recovered"`
}

// BuildProfiles builds one profile per distinct customer id. A customer is
// recurring if any of their loans carries the recurring flag, and recovered
// if any of their loans has recovered status. FirstSeen is the earliest
// first-seen date across the customer's loans; zero-date sentinels from
// lenient parsing are ignored. Profiles are ordered by customer id.
func BuildProfiles(loans []models.LoanRecord) []CustomerProfile {
	byCustomer := make(map[string]*CustomerProfile)

	for _, loan := range loans {
		profile, seen := byCustomer[loan.CustomerID]
		if !seen {
			profile = &CustomerProfile{CustomerID: loan.CustomerID}
			byCustomer[loan.CustomerID] = profile
		}

		if loan.Recurring {
			profile.Recurring = true
		}

		if loan.IsRecovered() {
			profile.Recovered = true
		}

		if !loan.FirstSeen.IsZero() {
			if profile.FirstSeen.IsZero() || loan.FirstSeen.Before(profile.FirstSeen) {
				profile.FirstSeen = loan.FirstSeen
			}
		}
	}

	profiles := make([]CustomerProfile, 0, len(byCustomer))
	for _, profile := range byCustomer {
		profiles = append(profiles, *profile)
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CustomerID < profiles[j].CustomerID
	})

	return profiles
}

// IsNew reports whether the customer first appeared in the reference
// calendar year. Recurring customers are never counted as new.
func (p *CustomerProfile) IsNew(asOf time.Time) bool {
	if p.Recurring || p.FirstSeen.IsZero() {
		return false
	}
	return p.FirstSeen.Year() == asOf.Year()
}

// Track computes the cohort counts for a loan tape against a reference time
func Track(loans []models.LoanRecord, asOf time.Time) Summary {
	summary := Summary{}

	for _, profile := range BuildProfiles(loans) {
		summary.Total++

		if profile.IsNew(asOf) {
			summary.New++
		}

		if profile.Recurring {
			summary.Recurring++
		}

		if profile.Recovered {
			summary.Recovered++
		}
	}

	return summary
}
