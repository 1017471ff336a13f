package handlers

import (
	"errors"
	"net/http"

	"github.com/Debmalya727/personal-finance-tracker/src/model"
	"github.com/Debmalya727/personal-finance-tracker/src/models"
	"github.com/Debmalya727/personal-finance-tracker/src/security/validation"
	"github.com/Debmalya727/personal-finance-tracker/src/utils"
)

type SalaryHandler struct {
	store model.Store
}

func NewSalaryHandler(store model.Store) *SalaryHandler {
	return &SalaryHandler{store: store}
}

type salaryResponse struct {
	Configured  bool                 `json:"configured"`
	Profile     models.SalaryProfile `json:"profile"`
	AnnualGross float64              `json:"annual_gross"`
}

// HandleGetSalary returns an empty, unconfigured profile when none was saved yet.
func (h *SalaryHandler) HandleGetSalary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	profile, err := h.store.GetSalaryProfile(r.Context(), userID)
	if errors.Is(err, model.ErrNotFound) {
		utils.SendJSON(w, http.StatusOK, salaryResponse{})
		return
	}
	if err != nil {
		writeServiceError(w, r, err, "load salary profile")
		return
	}
	utils.SendJSON(w, http.StatusOK, salaryResponse{Configured: true, Profile: *profile, AnnualGross: profile.AnnualGross()})
}

func (h *SalaryHandler) HandleUpsertSalary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req models.SalaryProfile
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "save salary profile")
		return
	}
	for field, v := range map[string]float64{
		"monthly_gross":  req.MonthlyGross,
		"deductions_80c": req.Deductions,
		"hra_exemption":  req.HRAExemption,
	} {
		if err := validation.ValidateNonNegative(v, field); err != nil {
			writeServiceError(w, r, err, "save salary profile")
			return
		}
	}
	req.UserID = userID
	if err := h.store.UpsertSalaryProfile(r.Context(), &req); err != nil {
		writeServiceError(w, r, err, "save salary profile")
		return
	}
	utils.SendJSON(w, http.StatusOK, salaryResponse{Configured: true, Profile: req, AnnualGross: req.AnnualGross()})
}
