// src/handlers/transaction_handler.go
package handlers

import (
	"net/http"

	"github.com/Debmalya727/personal-finance-tracker/src/logger"
	"github.com/Debmalya727/personal-finance-tracker/src/model"
	"github.com/Debmalya727/personal-finance-tracker/src/models"
	"github.com/Debmalya727/personal-finance-tracker/src/security/validation"
	"github.com/Debmalya727/personal-finance-tracker/src/utils"
)

type TransactionHandler struct {
	store model.Store
}

func NewTransactionHandler(store model.Store) *TransactionHandler {
	return &TransactionHandler{store: store}
}

type transactionRequest struct {
	Description string      `json:"description"`
	Amount      float64     `json:"amount"`
	Kind        string      `json:"type"`
	Category    string      `json:"category"`
	Date        models.Date `json:"date"`
}

// toTransaction validates and sanitizes the request. A missing date means today.
func (req transactionRequest) toTransaction(userID int64) (*models.Transaction, error) {
	description, err := validation.CleanText(req.Description, validation.MaxDescriptionLength, "description", true)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidatePositive(req.Amount, "amount"); err != nil {
		return nil, err
	}
	if err := validation.ValidateTransactionKind(req.Kind); err != nil {
		return nil, err
	}
	category, err := validation.CleanText(req.Category, validation.MaxCategoryLength, "category", false)
	if err != nil {
		return nil, err
	}
	if category == "" {
		category = models.DefaultCategory
	}
	date := req.Date
	if date.IsZero() {
		date = today()
	}
	return &models.Transaction{
		UserID:      userID,
		Description: description,
		Amount:      req.Amount,
		Kind:        req.Kind,
		Category:    category,
		Date:        date,
	}, nil
}

func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	txs, err := h.store.ListTransactions(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "list transactions")
		return
	}
	utils.SendJSON(w, http.StatusOK, txs)
}

func (h *TransactionHandler) HandleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "create transaction")
		return
	}
	tx, err := req.toTransaction(userID)
	if err != nil {
		writeServiceError(w, r, err, "create transaction")
		return
	}
	if err := h.store.CreateTransaction(r.Context(), tx); err != nil {
		writeServiceError(w, r, err, "create transaction")
		return
	}
	logger.FromContext(r.Context()).Info("Transaction created", "transactionID", tx.ID, "kind", tx.Kind)
	utils.SendJSON(w, http.StatusCreated, tx)
}

func (h *TransactionHandler) HandleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		writeServiceError(w, r, err, "update transaction")
		return
	}
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "update transaction")
		return
	}
	tx, err := req.toTransaction(userID)
	if err != nil {
		writeServiceError(w, r, err, "update transaction")
		return
	}
	tx.ID = id
	if err := h.store.UpdateTransaction(r.Context(), tx); err != nil {
		writeServiceError(w, r, err, "update transaction")
		return
	}
	utils.SendJSON(w, http.StatusOK, tx)
}

func (h *TransactionHandler) HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		writeServiceError(w, r, err, "delete transaction")
		return
	}
	if err := h.store.DeleteTransaction(r.Context(), userID, id); err != nil {
		writeServiceError(w, r, err, "delete transaction")
		return
	}
	logger.FromContext(r.Context()).Info("Transaction deleted", "transactionID", id)
	w.WriteHeader(http.StatusNoContent)
}
