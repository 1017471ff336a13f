// src/processors/scheme_processor.go
package processors

import (
	"math"
	"time"

	"github.com/Debmalya727/personal-finance-tracker/src/models"
)

// DaysPerYear converts elapsed days into fractional years.
const DaysPerYear = 365.25

// DaysBetween returns the whole calendar days from start to end (negative if end is earlier).
func DaysBetween(start, end models.Date) int {
	a := models.NewDate(start.Time)
	b := models.NewDate(end.Time)
	return int(b.Sub(a.Time).Hours() / 24)
}

// YearsElapsed is the fractional number of years since start, clamped at zero.
func YearsElapsed(start, today models.Date) float64 {
	days := DaysBetween(start, today)
	if days <= 0 {
		return 0
	}
	return float64(days) / DaysPerYear
}

// ValueAt compounds principal annually at annualRatePercent over elapsedYears.
func ValueAt(principal, annualRatePercent, elapsedYears float64) float64 {
	if elapsedYears < 0 {
		elapsedYears = 0
	}
	return principal * math.Pow(1+annualRatePercent/100, elapsedYears)
}

// MaturityValue is the value at the end of the full tenure.
func MaturityValue(principal, annualRatePercent float64, tenureMonths int) float64 {
	return ValueAt(principal, annualRatePercent, float64(tenureMonths)/12)
}

// EarlyWithdrawalValue compounds at the penalized rate, which never goes below zero.
func EarlyWithdrawalValue(principal, annualRatePercent, penaltyRatePercent, elapsedYears float64) float64 {
	rate := math.Max(annualRatePercent-penaltyRatePercent, 0)
	return ValueAt(principal, rate, elapsedYears)
}

// ValueScheme values a fixed scheme as of today.
func ValueScheme(s models.FixedScheme, today models.Date) models.SchemeValuation {
	elapsed := YearsElapsed(s.StartDate, today)
	return models.SchemeValuation{
		Scheme:               s,
		YearsElapsed:         elapsed,
		MaturityDate:         s.MaturityDate(),
		MaturityAmount:       MaturityValue(s.Principal, s.InterestRate, s.TenureMonths),
		CurrentValue:         ValueAt(s.Principal, s.InterestRate, elapsed),
		EarlyWithdrawalValue: EarlyWithdrawalValue(s.Principal, s.InterestRate, s.PenaltyRate, elapsed),
	}
}

// Today returns the current calendar date in UTC.
func Today() models.Date {
	return models.NewDate(time.Now())
}
