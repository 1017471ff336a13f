package models

// SalaryProfile holds a user's salary and the deductions claimed under the old regime.
// There is at most one profile per user.
type SalaryProfile struct {
	UserID       int64   `json:"-"`
	MonthlyGross float64 `json:"monthly_gross"`
	Deductions   float64 `json:"deductions_80c"`
	HRAExemption float64 `json:"hra_exemption"`
}

// AnnualGross is twelve months of gross salary.
func (p SalaryProfile) AnnualGross() float64 {
	return p.MonthlyGross * 12
}

// TotalDeductions is the sum of all deductions eligible under the old regime.
func (p SalaryProfile) TotalDeductions() float64 {
	return p.Deductions + p.HRAExemption
}
