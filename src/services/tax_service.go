// src/services/tax_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Debmalya727/personal-finance-tracker/src/logger"
	"github.com/Debmalya727/personal-finance-tracker/src/model"
	"github.com/Debmalya727/personal-finance-tracker/src/models"
	"github.com/Debmalya727/personal-finance-tracker/src/processors"
)

// TaxService estimates a user's annual tax liability under both regimes.
type TaxService struct {
	store model.Store
}

func NewTaxService(store model.Store) *TaxService {
	return &TaxService{store: store}
}

// Estimate combines salary, scheme interest and realized capital gains.
// A user without a salary profile is estimated on interest income alone.
func (s *TaxService) Estimate(ctx context.Context, userID int64, today models.Date) (*models.TaxEstimate, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("tax estimate: %w", err)
	}

	est := &models.TaxEstimate{Age: processors.AgeOn(user.DateOfBirth, today)}

	profile, err := s.store.GetSalaryProfile(ctx, userID)
	switch {
	case err == nil:
		est.SalaryConfigured = true
		est.GrossSalary = profile.AnnualGross()
		est.Deductions = profile.TotalDeductions()
	case errors.Is(err, model.ErrNotFound):
		logger.FromContext(ctx).Debug("No salary profile configured for tax estimate")
	default:
		return nil, fmt.Errorf("tax estimate: %w", err)
	}

	schemes, err := s.store.ListSchemes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("tax estimate: %w", err)
	}
	for _, fs := range schemes {
		elapsed := processors.YearsElapsed(fs.StartDate, today)
		if elapsed > 0 {
			est.InterestIncome += processors.ValueAt(fs.Principal, fs.InterestRate, elapsed) - fs.Principal
		}
	}

	sales, err := s.store.ListSoldInvestments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("tax estimate: %w", err)
	}
	est.CapitalGains = processors.SummarizeCapitalGains(sales)

	regularIncome := est.GrossSalary + est.InterestIncome
	if est.NewRegime, err = computeWithGains(processors.RegimeNew, regularIncome, est.Deductions, est.Age, est.CapitalGains.TotalTax); err != nil {
		return nil, err
	}
	if est.OldRegime, err = computeWithGains(processors.RegimeOld, regularIncome, est.Deductions, est.Age, est.CapitalGains.TotalTax); err != nil {
		return nil, err
	}
	return est, nil
}

func computeWithGains(regime string, income, deductions float64, age int, gainsTax float64) (models.TaxBreakdown, error) {
	b, err := processors.ComputeTax(regime, income, deductions, age)
	if err != nil {
		return models.TaxBreakdown{}, err
	}
	b.CapitalGainsTax = gainsTax
	b.TotalTax += gainsTax
	return b, nil
}
