// src/processors/tax_processor.go
package processors

import (
	"fmt"
	"math"
	"strings"

	"github.com/Debmalya727/personal-finance-tracker/src/models"
	"github.com/Debmalya727/personal-finance-tracker/src/security/validation"
)

// Regime names.
const (
	RegimeNew = "new"
	RegimeOld = "old"
)

const (
	StandardDeduction = 50000.0
	CessRate          = 0.04
	// Under the old regime no income tax is due up to this taxable income.
	OldRegimeRebateLimit = 500000.0
)

// taxSlab is a marginal band: income above the previous slab's UpTo and up to
// this UpTo is taxed at Rate. The last slab uses math.Inf(1).
type taxSlab struct {
	UpTo float64
	Rate float64
}

var newRegimeSlabs = []taxSlab{
	{UpTo: 300000, Rate: 0},
	{UpTo: 600000, Rate: 0.05},
	{UpTo: 900000, Rate: 0.10},
	{UpTo: 1200000, Rate: 0.15},
	{UpTo: 1500000, Rate: 0.20},
	{UpTo: math.Inf(1), Rate: 0.30},
}

// oldRegimeSlabs returns the age-banded slabs: below 60, 60 to 79, 80 and above.
func oldRegimeSlabs(age int) []taxSlab {
	switch {
	case age < 60:
		return []taxSlab{
			{UpTo: 250000, Rate: 0},
			{UpTo: 500000, Rate: 0.05},
			{UpTo: 1000000, Rate: 0.20},
			{UpTo: math.Inf(1), Rate: 0.30},
		}
	case age < 80:
		return []taxSlab{
			{UpTo: 300000, Rate: 0},
			{UpTo: 500000, Rate: 0.05},
			{UpTo: 1000000, Rate: 0.20},
			{UpTo: math.Inf(1), Rate: 0.30},
		}
	default:
		return []taxSlab{
			{UpTo: 500000, Rate: 0},
			{UpTo: 1000000, Rate: 0.20},
			{UpTo: math.Inf(1), Rate: 0.30},
		}
	}
}

// slabTax applies progressive slabs to a non-negative taxable income.
func slabTax(taxableIncome float64, slabs []taxSlab) float64 {
	var tax, lower float64
	for _, s := range slabs {
		if taxableIncome <= lower {
			break
		}
		upper := math.Min(taxableIncome, s.UpTo)
		tax += (upper - lower) * s.Rate
		lower = s.UpTo
	}
	return tax
}

// ComputeTax evaluates income tax for one regime. Supplied deductions are
// ignored under the new regime. No rounding is applied.
func ComputeTax(regime string, grossIncome, deductions float64, age int) (models.TaxBreakdown, error) {
	var (
		taxable    float64
		tax        float64
		deductible float64
		label      string
	)

	switch strings.ToLower(strings.TrimSpace(regime)) {
	case RegimeNew:
		label = "New"
		taxable = math.Max(grossIncome-StandardDeduction, 0)
		tax = slabTax(taxable, newRegimeSlabs)
	case RegimeOld:
		label = "Old"
		deductible = deductions
		taxable = math.Max(grossIncome-deductions-StandardDeduction, 0)
		tax = slabTax(taxable, oldRegimeSlabs(age))
		// Rebate overrides the bracket result.
		if taxable <= OldRegimeRebateLimit {
			tax = 0
		}
	default:
		return models.TaxBreakdown{}, fmt.Errorf("%w: unknown tax regime '%s'", validation.ErrValidationFailed, regime)
	}

	cess := tax * CessRate
	return models.TaxBreakdown{
		Regime:            label,
		GrossIncome:       grossIncome,
		StandardDeduction: StandardDeduction,
		TotalDeductions:   deductible,
		TaxableIncome:     taxable,
		IncomeTax:         tax,
		Cess:              cess,
		TotalTax:          tax + cess,
	}, nil
}

// AgeOn returns the completed years between dob and today.
// A zero dob yields 0, which places the user in the youngest band.
func AgeOn(dob, today models.Date) int {
	if dob.IsZero() {
		return 0
	}
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
