package models

// DefaultPenaltyRate is the early-withdrawal penalty (percentage points) applied when none is given.
const DefaultPenaltyRate = 1.0

// FixedScheme is a fixed-deposit style scheme compounding annually at a fixed rate.
type FixedScheme struct {
	ID           int64   `json:"id,omitempty"`
	UserID       int64   `json:"-"`
	Name         string  `json:"scheme_name"`
	Principal    float64 `json:"principal_amount"`
	InterestRate float64 `json:"interest_rate"` // Annual, in percent
	TenureMonths int     `json:"tenure_months"`
	StartDate    Date    `json:"start_date"`
	PenaltyRate  float64 `json:"penalty_rate"` // Percentage points subtracted on early withdrawal
}

// MaturityDate is StartDate plus the tenure.
func (s FixedScheme) MaturityDate() Date {
	return s.StartDate.AddMonths(s.TenureMonths)
}

// SchemeValuation is the point-in-time valuation of a scheme.
type SchemeValuation struct {
	Scheme               FixedScheme `json:"scheme"`
	YearsElapsed         float64     `json:"years_elapsed"`
	MaturityDate         Date        `json:"maturity_date"`
	MaturityAmount       float64     `json:"maturity_amount"`
	CurrentValue         float64     `json:"current_value"`
	EarlyWithdrawalValue float64     `json:"early_withdrawal_value"`
}
