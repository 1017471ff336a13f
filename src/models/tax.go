package models

// TaxBreakdown is the income tax computed under a single regime.
type TaxBreakdown struct {
	Regime            string  `json:"regime"`
	GrossIncome       float64 `json:"gross_income"`
	StandardDeduction float64 `json:"standard_deduction"`
	TotalDeductions   float64 `json:"total_deductions"`
	TaxableIncome     float64 `json:"taxable_income"`
	IncomeTax         float64 `json:"income_tax"`
	Cess              float64 `json:"cess"`
	CapitalGainsTax   float64 `json:"capital_gains_tax"`
	TotalTax          float64 `json:"total_tax"` // IncomeTax + Cess (+ CapitalGainsTax when part of an estimate)
}

// CapitalGainsSummary aggregates realized gains by tax treatment.
type CapitalGainsSummary struct {
	STCGStocks  float64 `json:"stcg_stocks"`
	STCGTax     float64 `json:"stcg_tax"`
	LTCGStocks  float64 `json:"ltcg_stocks"`
	LTCGTaxable float64 `json:"ltcg_taxable"` // Portion above the exemption threshold
	LTCGTax     float64 `json:"ltcg_tax"`
	CryptoGains float64 `json:"crypto_gains"`
	CryptoTax   float64 `json:"crypto_tax"`
	TotalTax    float64 `json:"total_tax"`
}

// TaxEstimate compares both regimes for the current financial position of a user.
type TaxEstimate struct {
	Age              int                 `json:"age"`
	SalaryConfigured bool                `json:"salary_configured"`
	GrossSalary      float64             `json:"gross_salary"`
	InterestIncome   float64             `json:"interest_income"`
	Deductions       float64             `json:"deductions"`
	NewRegime        TaxBreakdown        `json:"new_regime"`
	OldRegime        TaxBreakdown        `json:"old_regime"`
	CapitalGains     CapitalGainsSummary `json:"capital_gains"`
}
