package processors

import (
	"testing"

	"github.com/Debmalya727/personal-finance-tracker/src/models"
	"github.com/stretchr/testify/assert"
)

func TestValueAt(t *testing.T) {
	assert.InDelta(t, 11236.0, ValueAt(10000, 6, 2), 1e-9)
	assert.Equal(t, 10000.0, ValueAt(10000, 6, 0))
	assert.Equal(t, 10000.0, ValueAt(10000, 6, -3), "negative elapsed time clamps to zero")
	assert.Equal(t, 10000.0, ValueAt(10000, 0, 5))
}

func TestYearsElapsed(t *testing.T) {
	start := models.MustDate(2023, 1, 1)
	assert.Zero(t, YearsElapsed(start, start))
	assert.Zero(t, YearsElapsed(start, models.MustDate(2022, 6, 1)))
	assert.InDelta(t, 365.0/365.25, YearsElapsed(start, models.MustDate(2024, 1, 1)), 1e-12)
	assert.Equal(t, 731, DaysBetween(start, models.MustDate(2025, 1, 1)))
	assert.Equal(t, -1, DaysBetween(start, models.MustDate(2022, 12, 31)))
}

func TestEarlyWithdrawalValue(t *testing.T) {
	assert.InDelta(t, ValueAt(10000, 6, 1.5), EarlyWithdrawalValue(10000, 7, 1, 1.5), 1e-9)
	// Penalty larger than the rate leaves the principal intact.
	assert.Equal(t, 10000.0, EarlyWithdrawalValue(10000, 0.5, 1, 3))
}

func TestValueScheme(t *testing.T) {
	scheme := models.FixedScheme{
		Name:         "Bank FD",
		Principal:    100000,
		InterestRate: 7,
		TenureMonths: 36,
		StartDate:    models.MustDate(2022, 1, 31),
		PenaltyRate:  1,
	}
	today := models.MustDate(2024, 1, 31)

	v := ValueScheme(scheme, today)

	assert.Equal(t, models.MustDate(2025, 1, 31), v.MaturityDate)
	assert.InDelta(t, 100000*1.07*1.07*1.07, v.MaturityAmount, 1e-6)
	assert.InDelta(t, 730/365.25, v.YearsElapsed, 1e-12)
	assert.InDelta(t, ValueAt(100000, 7, v.YearsElapsed), v.CurrentValue, 1e-9)
	assert.InDelta(t, ValueAt(100000, 6, v.YearsElapsed), v.EarlyWithdrawalValue, 1e-9)
	assert.Less(t, v.EarlyWithdrawalValue, v.CurrentValue)
}

func TestValueSchemeNotStarted(t *testing.T) {
	scheme := models.FixedScheme{Principal: 5000, InterestRate: 8, TenureMonths: 12, StartDate: models.MustDate(2030, 1, 1)}
	v := ValueScheme(scheme, models.MustDate(2024, 1, 1))
	assert.Zero(t, v.YearsElapsed)
	assert.Equal(t, 5000.0, v.CurrentValue)
}
