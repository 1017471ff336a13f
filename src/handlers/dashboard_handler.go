package handlers

import (
	"net/http"

	"github.com/Debmalya727/personal-finance-tracker/src/logger"
	"github.com/Debmalya727/personal-finance-tracker/src/services"
	"github.com/Debmalya727/personal-finance-tracker/src/utils"
)

type DashboardHandler struct {
	dashboard      *services.DashboardService
	reconciliation *services.ReconciliationService
}

func NewDashboardHandler(dashboard *services.DashboardService, reconciliation *services.ReconciliationService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, reconciliation: reconciliation}
}

// HandleGetDashboard is read-only; recurring entries are created by HandleReconcile.
func (h *DashboardHandler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	summary, err := h.dashboard.Dashboard(r.Context(), userID, today())
	if err != nil {
		writeServiceError(w, r, err, "load dashboard")
		return
	}
	summary.Balance = money(summary.Balance)
	summary.MonthlyIncome = money(summary.MonthlyIncome)
	summary.MonthlyExpense = money(summary.MonthlyExpense)
	utils.SendJSON(w, http.StatusOK, summary)
}

// HandleReconcile credits this month's salary and debits active EMIs, at most once per month.
func (h *DashboardHandler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	result, err := h.reconciliation.EnsureMonthlyEntries(r.Context(), userID, today())
	if err != nil {
		writeServiceError(w, r, err, "reconcile monthly entries")
		return
	}
	logger.FromContext(r.Context()).Info("Monthly entries reconciled",
		"salaryCredited", result.SalaryCredited, "emisDebited", len(result.EMIsDebited))
	utils.SendJSON(w, http.StatusOK, result)
}
