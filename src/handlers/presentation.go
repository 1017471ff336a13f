package handlers

import (
	"github.com/Debmalya727/personal-finance-tracker/src/models"
	"github.com/Debmalya727/personal-finance-tracker/src/utils"
)

// Computed amounts are kept at full precision internally and rounded to two
// decimals only on the way out.

var money = utils.RoundMoney

func presentSchemeValuation(v models.SchemeValuation) models.SchemeValuation {
	v.YearsElapsed = utils.RoundFloat(v.YearsElapsed, 4)
	v.MaturityAmount = money(v.MaturityAmount)
	v.CurrentValue = money(v.CurrentValue)
	v.EarlyWithdrawalValue = money(v.EarlyWithdrawalValue)
	return v
}

func presentLoanStatus(s models.LoanStatus) models.LoanStatus {
	s.Loan.EMI = money(s.Loan.EMI)
	s.Outstanding = money(s.Outstanding)
	return s
}

func presentTaxBreakdown(b models.TaxBreakdown) models.TaxBreakdown {
	b.TaxableIncome = money(b.TaxableIncome)
	b.IncomeTax = money(b.IncomeTax)
	b.Cess = money(b.Cess)
	b.CapitalGainsTax = money(b.CapitalGainsTax)
	b.TotalTax = money(b.TotalTax)
	return b
}

func presentCapitalGains(c models.CapitalGainsSummary) models.CapitalGainsSummary {
	c.STCGStocks = money(c.STCGStocks)
	c.STCGTax = money(c.STCGTax)
	c.LTCGStocks = money(c.LTCGStocks)
	c.LTCGTaxable = money(c.LTCGTaxable)
	c.LTCGTax = money(c.LTCGTax)
	c.CryptoGains = money(c.CryptoGains)
	c.CryptoTax = money(c.CryptoTax)
	c.TotalTax = money(c.TotalTax)
	return c
}

func presentTaxEstimate(e *models.TaxEstimate) *models.TaxEstimate {
	out := *e
	out.InterestIncome = money(out.InterestIncome)
	out.NewRegime = presentTaxBreakdown(out.NewRegime)
	out.OldRegime = presentTaxBreakdown(out.OldRegime)
	out.CapitalGains = presentCapitalGains(out.CapitalGains)
	return &out
}

func presentHoldings(report *models.HoldingsReport) *models.HoldingsReport {
	out := *report
	out.ExchangeRate = utils.RoundFloat(out.ExchangeRate, 4)
	out.Holdings = make([]models.HoldingWithValue, len(report.Holdings))
	for i, h := range report.Holdings {
		h.ValueReporting = money(h.ValueReporting)
		h.ProfitLoss = money(h.ProfitLoss)
		out.Holdings[i] = h
	}
	return &out
}

func presentNetWorth(nw *models.NetWorth) *models.NetWorth {
	out := *nw
	out.Assets = money(out.Assets)
	out.Liabilities = money(out.Liabilities)
	out.NetWorth = money(out.NetWorth)
	out.Breakdown.Cash = money(out.Breakdown.Cash)
	out.Breakdown.Schemes = money(out.Breakdown.Schemes)
	out.Breakdown.Investments = money(out.Breakdown.Investments)
	out.ExchangeRate = utils.RoundFloat(out.ExchangeRate, 4)
	out.Loans = make([]models.LoanOutstanding, len(nw.Loans))
	for i, l := range nw.Loans {
		l.Outstanding = money(l.Outstanding)
		out.Loans[i] = l
	}
	return &out
}

func presentSold(s models.SoldInvestment) models.SoldInvestment {
	s.CapitalGain = money(s.CapitalGain)
	return s
}
