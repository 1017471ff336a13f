// src/services/dashboard_service.go
package services

import (
	"context"
	"fmt"

	"github.com/Debmalya727/personal-finance-tracker/src/model"
	"github.com/Debmalya727/personal-finance-tracker/src/models"
)

// RecentTransactionsLimit is how many transactions the dashboard lists.
const RecentTransactionsLimit = 5

type DashboardService struct {
	store model.Store
}

func NewDashboardService(store model.Store) *DashboardService {
	return &DashboardService{store: store}
}

// Dashboard summarizes the balance and month-to-date cash flow. It never writes.
func (s *DashboardService) Dashboard(ctx context.Context, userID int64, today models.Date) (*models.DashboardSummary, error) {
	income, expense, err := s.store.TransactionTotals(ctx, userID, models.Date{})
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	monthStart := today.FirstOfMonth()
	monthIncome, monthExpense, err := s.store.TransactionTotals(ctx, userID, monthStart)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	recent, err := s.store.ListRecentTransactions(ctx, userID, RecentTransactionsLimit)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	return &models.DashboardSummary{
		Balance:        income - expense,
		MonthlyIncome:  monthIncome,
		MonthlyExpense: monthExpense,
		MonthStart:     monthStart,
		Recent:         recent,
	}, nil
}
