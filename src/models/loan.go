package models

// Loan is an amortizing loan repaid in equal monthly installments.
type Loan struct {
	ID           int64   `json:"id,omitempty"`
	UserID       int64   `json:"-"`
	Name         string  `json:"loan_name"`
	Principal    float64 `json:"principal"`
	InterestRate float64 `json:"interest_rate"` // Annual, in percent
	TenureMonths int     `json:"tenure_months"`
	EMI          float64 `json:"emi_amount"` // Derived from principal, rate and tenure; never trusted from input
	StartDate    Date    `json:"start_date"`
}

// EndDate is the date of the last installment.
func (l Loan) EndDate() Date {
	return l.StartDate.AddMonths(l.TenureMonths)
}

// LoanStatus is the point-in-time repayment position of a loan.
type LoanStatus struct {
	Loan         Loan    `json:"loan"`
	PaymentsMade int     `json:"payments_made"`
	Outstanding  float64 `json:"outstanding"`
	EndDate      Date    `json:"end_date"`
	Active       bool    `json:"active"`
}
