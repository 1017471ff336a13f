package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Debmalya727/personal-finance-tracker/src/models"
	"github.com/Debmalya727/personal-finance-tracker/src/processors"
	"github.com/Debmalya727/personal-finance-tracker/src/security/validation"
	"github.com/Debmalya727/personal-finance-tracker/src/services"
	"github.com/Debmalya727/personal-finance-tracker/src/utils"
)

const maxAge = 150

type TaxHandler struct {
	tax *services.TaxService
}

func NewTaxHandler(tax *services.TaxService) *TaxHandler {
	return &TaxHandler{tax: tax}
}

// HandleGetEstimate compares both regimes for the caller's salary, interest and realized gains.
func (h *TaxHandler) HandleGetEstimate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	est, err := h.tax.Estimate(r.Context(), userID, today())
	if err != nil {
		writeServiceError(w, r, err, "estimate tax")
		return
	}
	utils.SendJSON(w, http.StatusOK, presentTaxEstimate(est))
}

type taxComputeRequest struct {
	Regime      string  `json:"regime"`
	GrossIncome float64 `json:"gross_income"`
	Deductions  float64 `json:"deductions"`
	Age         int     `json:"age"`
}

// HandleCompute is a stateless calculator. Without a regime it returns both.
func (h *TaxHandler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	var req taxComputeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "compute tax")
		return
	}
	if err := validation.ValidateNonNegative(req.GrossIncome, "gross_income"); err != nil {
		writeServiceError(w, r, err, "compute tax")
		return
	}
	if err := validation.ValidateNonNegative(req.Deductions, "deductions"); err != nil {
		writeServiceError(w, r, err, "compute tax")
		return
	}
	if req.Age < 0 || req.Age > maxAge {
		writeServiceError(w, r, fmt.Errorf("%w: age must be between 0 and %d", validation.ErrValidationFailed, maxAge), "compute tax")
		return
	}

	regimes := []string{processors.RegimeNew, processors.RegimeOld}
	if strings.TrimSpace(req.Regime) != "" {
		regimes = []string{req.Regime}
	}
	results := make([]models.TaxBreakdown, 0, len(regimes))
	for _, regime := range regimes {
		b, err := processors.ComputeTax(regime, req.GrossIncome, req.Deductions, req.Age)
		if err != nil {
			writeServiceError(w, r, err, "compute tax")
			return
		}
		results = append(results, presentTaxBreakdown(b))
	}
	utils.SendJSON(w, http.StatusOK, results)
}
