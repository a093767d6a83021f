// Package policy holds the pure business rules of the membership engine:
// the trainer salary tiers, the calendar-month membership extension, and
// the plan price table. None of these functions touch storage; callers are
// expected to query them fresh on every operation.
package policy

import (
	"time"

	"gymflow/membership-app/internal/domain"
)

// Salary tiers by years of experience.
const (
	SalarySenior = 900 // 3 years and up
	SalaryMid    = 800 // at least 1 year
	SalaryJunior = 750 // everyone else, including invalid negative input
)

// ComputeSalary maps a trainer's experience (in years) to the periodic
// salary amount. Negative experience clamps to the junior tier. The result
// must be recomputed for every salary record; experience may change
// between periods.
func ComputeSalary(experienceYears float64) float64 {
	switch {
	case experienceYears >= 3:
		return SalarySenior
	case experienceYears >= 1:
		return SalaryMid
	default:
		return SalaryJunior
	}
}

// ComputeExpiry advances the activation date by exactly one calendar month.
// Unlike time.AddDate, a day-of-month that does not exist in the target
// month clamps to that month's last valid day (Jan 31 -> Feb 28/29) instead
// of spilling into the month after.
func ComputeExpiry(activation time.Time) time.Time {
	year, month, day := activation.Date()
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, activation.Location())
	if last := lastDayOfMonth(firstOfNext.Year(), firstOfNext.Month()); day > last {
		day = last
	}
	hour, min, sec := activation.Clock()
	return time.Date(firstOfNext.Year(), firstOfNext.Month(), day, hour, min, sec, activation.Nanosecond(), activation.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the following month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// planPrices is the static (membership type, duration label) price table.
// Only the tiers sold through the payment form carry fixed prices; other
// combinations are accepted with the caller-declared amount.
var planPrices = map[domain.MembershipType]map[string]float64{
	domain.MembershipStandard: {
		"1-month": 800,
		"3-month": 2000,
		"6-month": 3500,
	},
	domain.MembershipTrainerAssisted: {
		"1-month": 1200,
		"3-month": 3000,
		"6-month": 5000,
	},
}

// PlanPrice returns the fixed price for the given membership type and
// duration label. The second return is false when the pair has no entry in
// the table, in which case no server-side price check applies.
func PlanPrice(membershipType domain.MembershipType, durationLabel string) (float64, bool) {
	durations, ok := planPrices[membershipType]
	if !ok {
		return 0, false
	}
	price, ok := durations[durationLabel]
	return price, ok
}
