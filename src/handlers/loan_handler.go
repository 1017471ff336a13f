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

type LoanHandler struct {
	store model.Store
}

func NewLoanHandler(store model.Store) *LoanHandler {
	return &LoanHandler{store: store}
}

// loanRequest has no EMI field: the installment is always derived.
type loanRequest struct {
	Name         string      `json:"loan_name"`
	Principal    float64     `json:"principal"`
	InterestRate float64     `json:"interest_rate"`
	TenureMonths int         `json:"tenure_months"`
	StartDate    models.Date `json:"start_date"`
}

func (req loanRequest) toLoan(userID int64) (*models.Loan, error) {
	name, err := validation.CleanText(req.Name, validation.MaxNameLength, "loan_name", true)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidatePositive(req.Principal, "principal"); err != nil {
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
	return &models.Loan{
		UserID:       userID,
		Name:         name,
		Principal:    req.Principal,
		InterestRate: req.InterestRate,
		TenureMonths: req.TenureMonths,
		EMI:          processors.ComputeEMI(req.Principal, req.InterestRate, req.TenureMonths),
		StartDate:    req.StartDate,
	}, nil
}

// HandleListLoans returns each loan with its installment and outstanding balance as of today.
func (h *LoanHandler) HandleListLoans(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	loans, err := h.store.ListLoans(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "list loans")
		return
	}
	asOf := today()
	statuses := make([]models.LoanStatus, 0, len(loans))
	for _, l := range loans {
		statuses = append(statuses, presentLoanStatus(processors.ValueLoan(l, asOf)))
	}
	utils.SendJSON(w, http.StatusOK, statuses)
}

func (h *LoanHandler) HandleCreateLoan(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req loanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "create loan")
		return
	}
	loan, err := req.toLoan(userID)
	if err != nil {
		writeServiceError(w, r, err, "create loan")
		return
	}
	if err := h.store.CreateLoan(r.Context(), loan); err != nil {
		writeServiceError(w, r, err, "create loan")
		return
	}
	logger.FromContext(r.Context()).Info("Loan created", "loanID", loan.ID, "emi", loan.EMI)
	utils.SendJSON(w, http.StatusCreated, presentLoanStatus(processors.ValueLoan(*loan, today())))
}

// HandleUpdateLoan recomputes the EMI from the edited principal, rate and tenure.
func (h *LoanHandler) HandleUpdateLoan(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		writeServiceError(w, r, err, "update loan")
		return
	}
	var req loanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "update loan")
		return
	}
	loan, err := req.toLoan(userID)
	if err != nil {
		writeServiceError(w, r, err, "update loan")
		return
	}
	loan.ID = id
	if err := h.store.UpdateLoan(r.Context(), loan); err != nil {
		writeServiceError(w, r, err, "update loan")
		return
	}
	utils.SendJSON(w, http.StatusOK, presentLoanStatus(processors.ValueLoan(*loan, today())))
}

func (h *LoanHandler) HandleDeleteLoan(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		writeServiceError(w, r, err, "delete loan")
		return
	}
	if err := h.store.DeleteLoan(r.Context(), userID, id); err != nil {
		writeServiceError(w, r, err, "delete loan")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
