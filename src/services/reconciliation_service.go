// src/services/reconciliation_service.go
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

const (
	SalaryDescription = "Monthly Salary"
	SalaryCategory    = "Salary"
	EMICategory       = "EMI"
	emiDescriptionFmt = "EMI for %s"
)

// EMIDescription is the transaction description used for a loan's installment.
func EMIDescription(loanName string) string {
	return fmt.Sprintf(emiDescriptionFmt, loanName)
}

// ReconciliationService creates the recurring salary credit and EMI debits for the current month.
type ReconciliationService struct {
	store model.Store
}

func NewReconciliationService(store model.Store) *ReconciliationService {
	return &ReconciliationService{store: store}
}

// EnsureMonthlyEntries is idempotent: running it twice in a month creates nothing the second time.
func (s *ReconciliationService) EnsureMonthlyEntries(ctx context.Context, userID int64, today models.Date) (*models.ReconciliationResult, error) {
	monthStart := today.FirstOfMonth()
	var planned []models.Transaction

	profile, err := s.store.GetSalaryProfile(ctx, userID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("reconciliation: %w", err)
	}
	if profile != nil && profile.MonthlyGross > 0 {
		planned = append(planned, models.Transaction{
			Description: SalaryDescription,
			Amount:      profile.MonthlyGross,
			Kind:        models.KindIncome,
			Category:    SalaryCategory,
			Date:        monthStart,
		})
	}

	loans, err := s.store.ListLoans(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reconciliation: %w", err)
	}
	for _, l := range loans {
		if !processors.EMIActive(l, today) || l.EMI <= 0 {
			continue
		}
		planned = append(planned, models.Transaction{
			Description: EMIDescription(l.Name),
			Amount:      l.EMI,
			Kind:        models.KindExpense,
			Category:    EMICategory,
			Date:        monthStart,
		})
	}

	result := &models.ReconciliationResult{Month: monthStart, EMIsDebited: []string{}}
	if len(planned) == 0 {
		return result, nil
	}

	inserted, err := s.store.EnsureTransactions(ctx, userID, monthStart, planned)
	if err != nil {
		return nil, fmt.Errorf("reconciliation: %w", err)
	}
	for _, tx := range inserted {
		if tx.Kind == models.KindIncome {
			result.SalaryCredited = true
			result.SalaryAmount = tx.Amount
			continue
		}
		result.EMIsDebited = append(result.EMIsDebited, tx.Description)
	}

	if len(inserted) > 0 {
		logger.FromContext(ctx).Info("Monthly entries reconciled",
			"month", monthStart.String(), "salaryCredited", result.SalaryCredited, "emis", len(result.EMIsDebited))
	}
	return result, nil
}

// ReconcileAll runs EnsureMonthlyEntries for every account. Failures are
// logged and counted; the remaining accounts are still processed.
func (s *ReconciliationService) ReconcileAll(ctx context.Context, today models.Date) (int, error) {
	ids, err := s.store.ListUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("reconciliation: %w", err)
	}
	var failed int
	for _, id := range ids {
		if _, err := s.EnsureMonthlyEntries(ctx, id, today); err != nil {
			failed++
			logger.FromContext(ctx).Error("Reconciliation failed for user", "userID", id, "error", err)
		}
	}
	if failed > 0 {
		return len(ids) - failed, fmt.Errorf("reconciliation failed for %d of %d users", failed, len(ids))
	}
	return len(ids), nil
}
