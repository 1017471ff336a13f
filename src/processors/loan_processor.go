// src/processors/loan_processor.go
package processors

import (
	"math"

	"github.com/Debmalya727/personal-finance-tracker/src/models"
)

// monthlyRate converts an annual percentage into a monthly fraction.
func monthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 12 / 100
}

// ComputeEMI returns the equated monthly installment for a loan.
// A zero rate degenerates into straight-line repayment.
func ComputeEMI(principal, annualRatePercent float64, tenureMonths int) float64 {
	if tenureMonths <= 0 {
		return 0
	}
	r := monthlyRate(annualRatePercent)
	if r == 0 {
		return principal / float64(tenureMonths)
	}
	growth := math.Pow(1+r, float64(tenureMonths))
	return principal * r * growth / (growth - 1)
}

// PaymentsMade counts whole calendar months between start and today, clamped to [0, tenureMonths].
func PaymentsMade(start, today models.Date, tenureMonths int) int {
	months := (today.Year()-start.Year())*12 + int(today.Month()) - int(start.Month())
	if months < 0 {
		return 0
	}
	if months > tenureMonths {
		return tenureMonths
	}
	return months
}

// OutstandingBalance is the principal still owed after paymentsMade installments.
// A zero rate makes the denominator vanish and is reported as nothing owed.
func OutstandingBalance(principal, annualRatePercent float64, tenureMonths, paymentsMade int) float64 {
	if tenureMonths <= 0 {
		return 0
	}
	r := monthlyRate(annualRatePercent)
	growthN := math.Pow(1+r, float64(tenureMonths))
	growthK := math.Pow(1+r, float64(paymentsMade))
	denominator := growthN - 1
	if denominator == 0 {
		return 0
	}
	return principal * (growthN - growthK) / denominator
}

// EMIActive reports whether an installment is still due on today.
func EMIActive(loan models.Loan, today models.Date) bool {
	return !today.After(loan.EndDate().Time)
}

// ValueLoan returns the repayment position of a loan as of today.
func ValueLoan(loan models.Loan, today models.Date) models.LoanStatus {
	paid := PaymentsMade(loan.StartDate, today, loan.TenureMonths)
	return models.LoanStatus{
		Loan:         loan,
		PaymentsMade: paid,
		Outstanding:  OutstandingBalance(loan.Principal, loan.InterestRate, loan.TenureMonths, paid),
		EndDate:      loan.EndDate(),
		Active:       EMIActive(loan, today),
	}
}
