// src/handlers/scheme_handler.go
package handlers

import (
	"net/http"

	"github.com/Debmalya727/personal-finance-tracker/src/logger"
	"github.com/Debmalya727/personal-finance-tracker/src/model"
	"github.com/Debmalya727/personal-finance-tracker/src/models"
	"github.com/Debmalya727/personal-finance-tracker/src/processors"
	"github.com/Debmalya727/personal-finance-tracker/src/security/validation"
	"github.com/Debmalya727/personal-finance-tracker/src/utils"
)

type SchemeHandler struct {
	store model.Store
}

func NewSchemeHandler(store model.Store) *SchemeHandler {
	return &SchemeHandler{store: store}
}

type schemeRequest struct {
	Name         string      `json:"scheme_name"`
	Principal    float64     `json:"principal_amount"`
	InterestRate float64     `json:"interest_rate"`
	TenureMonths int         `json:"tenure_months"`
	StartDate    models.Date `json:"start_date"`
	PenaltyRate  *float64    `json:"penalty_rate"`
}

func (req schemeRequest) toScheme(userID int64) (*models.FixedScheme, error) {
	name, err := validation.CleanText(req.Name, validation.MaxNameLength, "scheme_name", true)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidatePositive(req.Principal, "principal_amount"); err != nil {
		return nil, err
	}
	if err := validation.ValidateRate(req.InterestRate, "interest_rate"); err != nil {
		return nil, err
	}
	if err := validation.ValidateTenure(req.TenureMonths, "tenure_months"); err != nil {
		return nil, err
	}
	if err := validation.ValidateDateSet(req.StartDate, "start_date"); err != nil {
		return nil, err
	}
	penalty := models.DefaultPenaltyRate
	if req.PenaltyRate != nil {
		if err := validation.ValidateRate(*req.PenaltyRate, "penalty_rate"); err != nil {
			return nil, err
		}
		penalty = *req.PenaltyRate
	}
	return &models.FixedScheme{
		UserID:       userID,
		Name:         name,
		Principal:    req.Principal,
		InterestRate: req.InterestRate,
		TenureMonths: req.TenureMonths,
		StartDate:    req.StartDate,
		PenaltyRate:  penalty,
	}, nil
}

// HandleListSchemes returns every scheme with its current, maturity and early-withdrawal values.
func (h *SchemeHandler) HandleListSchemes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	schemes, err := h.store.ListSchemes(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "list schemes")
		return
	}
	asOf := today()
	valuations := make([]models.SchemeValuation, 0, len(schemes))
	for _, s := range schemes {
		valuations = append(valuations, presentSchemeValuation(processors.ValueScheme(s, asOf)))
	}
	utils.SendJSON(w, http.StatusOK, valuations)
}

func (h *SchemeHandler) HandleCreateScheme(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req schemeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "create scheme")
		return
	}
	scheme, err := req.toScheme(userID)
	if err != nil {
		writeServiceError(w, r, err, "create scheme")
		return
	}
	if err := h.store.CreateScheme(r.Context(), scheme); err != nil {
		writeServiceError(w, r, err, "create scheme")
		return
	}
	logger.FromContext(r.Context()).Info("Fixed scheme created", "schemeID", scheme.ID)
	utils.SendJSON(w, http.StatusCreated, presentSchemeValuation(processors.ValueScheme(*scheme, today())))
}

func (h *SchemeHandler) HandleUpdateScheme(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		writeServiceError(w, r, err, "update scheme")
		return
	}
	var req schemeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "update scheme")
		return
	}
	scheme, err := req.toScheme(userID)
	if err != nil {
		writeServiceError(w, r, err, "update scheme")
		return
	}
	scheme.ID = id
	if err := h.store.UpdateScheme(r.Context(), scheme); err != nil {
		writeServiceError(w, r, err, "update scheme")
		return
	}
	utils.SendJSON(w, http.StatusOK, presentSchemeValuation(processors.ValueScheme(*scheme, today())))
}

func (h *SchemeHandler) HandleDeleteScheme(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		writeServiceError(w, r, err, "delete scheme")
		return
	}
	if err := h.store.DeleteScheme(r.Context(), userID, id); err != nil {
		writeServiceError(w, r, err, "delete scheme")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
