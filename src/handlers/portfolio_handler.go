// src/handlers/portfolio_handler.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/Debmalya727/personal-finance-tracker/src/logger"
	"github.com/Debmalya727/personal-finance-tracker/src/model"
	"github.com/Debmalya727/personal-finance-tracker/src/models"
	"github.com/Debmalya727/personal-finance-tracker/src/security/validation"
	"github.com/Debmalya727/personal-finance-tracker/src/services"
	"github.com/Debmalya727/personal-finance-tracker/src/utils"
)

// PortfolioHandler serves investments, sales, market refresh and net worth.
type PortfolioHandler struct {
	store     model.Store
	portfolio *services.PortfolioService
}

func NewPortfolioHandler(store model.Store, portfolio *services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{store: store, portfolio: portfolio}
}

type investmentRequest struct {
	AssetType        string      `json:"asset_type"`
	TickerSymbol     string      `json:"ticker_symbol"`
	Quantity         float64     `json:"quantity"`
	PurchasePrice    float64     `json:"purchase_price"`
	PurchaseCurrency string      `json:"purchase_currency"`
	PurchaseDate     models.Date `json:"purchase_date"`
}

func (req investmentRequest) toInvestment(userID int64) (*models.Investment, error) {
	if err := validation.ValidateAssetType(req.AssetType); err != nil {
		return nil, err
	}
	if err := validation.CheckXSSPatterns(req.TickerSymbol, "ticker_symbol"); err != nil {
		return nil, err
	}
	ticker := validation.NormalizeTicker(req.AssetType, req.TickerSymbol)
	if err := validation.ValidateTicker(ticker); err != nil {
		return nil, err
	}
	if err := validation.ValidatePositive(req.Quantity, "quantity"); err != nil {
		return nil, err
	}
	if err := validation.ValidateNonNegative(req.PurchasePrice, "purchase_price"); err != nil {
		return nil, err
	}
	currency := strings.ToUpper(strings.TrimSpace(req.PurchaseCurrency))
	if err := validation.ValidateCurrencyCode(currency); err != nil {
		return nil, err
	}
	if currency == "" {
		currency = models.DefaultPurchaseCurrency
	}
	purchaseDate := req.PurchaseDate
	if purchaseDate.IsZero() {
		purchaseDate = today()
	}
	return &models.Investment{
		UserID:           userID,
		AssetType:        req.AssetType,
		TickerSymbol:     ticker,
		Quantity:         req.Quantity,
		PurchasePrice:    req.PurchasePrice,
		PurchaseCurrency: currency,
		PurchaseDate:     purchaseDate,
	}, nil
}

func (h *PortfolioHandler) HandleListInvestments(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	investments, err := h.store.ListInvestments(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "list investments")
		return
	}
	utils.SendJSON(w, http.StatusOK, investments)
}

func (h *PortfolioHandler) HandleCreateInvestment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req investmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "create investment")
		return
	}
	inv, err := req.toInvestment(userID)
	if err != nil {
		writeServiceError(w, r, err, "create investment")
		return
	}
	if err := h.store.CreateInvestment(r.Context(), inv); err != nil {
		writeServiceError(w, r, err, "create investment")
		return
	}
	logger.FromContext(r.Context()).Info("Investment created", "investmentID", inv.ID, "ticker", inv.TickerSymbol)
	utils.SendJSON(w, http.StatusCreated, inv)
}

func (h *PortfolioHandler) HandleDeleteInvestment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		writeServiceError(w, r, err, "delete investment")
		return
	}
	if err := h.store.DeleteInvestment(r.Context(), userID, id); err != nil {
		writeServiceError(w, r, err, "delete investment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sellRequest struct {
	Quantity  float64     `json:"quantity"`
	SellPrice float64     `json:"sell_price"`
	SellDate  models.Date `json:"sell_date"`
}

// HandleSellInvestment sells part or all of a holding. A missing sell date means today.
func (h *PortfolioHandler) HandleSellInvestment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		writeServiceError(w, r, err, "sell investment")
		return
	}
	var req sellRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err, "sell investment")
		return
	}
	sellDate := req.SellDate
	if sellDate.IsZero() {
		sellDate = today()
	}
	outcome, err := h.portfolio.SellInvestment(r.Context(), userID, id, req.Quantity, req.SellPrice, sellDate)
	if err != nil {
		writeServiceError(w, r, err, "sell investment")
		return
	}
	outcome.Sold = presentSold(outcome.Sold)
	utils.SendJSON(w, http.StatusOK, outcome)
}

func (h *PortfolioHandler) HandleListSold(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	sold, err := h.store.ListSoldInvestments(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "list sold investments")
		return
	}
	for i := range sold {
		sold[i] = presentSold(sold[i])
	}
	utils.SendJSON(w, http.StatusOK, sold)
}

// HandleRefreshHoldings values every holding at current market prices.
func (h *PortfolioHandler) HandleRefreshHoldings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	report, err := h.portfolio.RefreshHoldings(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "refresh holdings")
		return
	}
	utils.SendJSON(w, http.StatusOK, presentHoldings(report))
}

func (h *PortfolioHandler) HandleGetNetWorth(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	nw, err := h.portfolio.ComputeNetWorth(r.Context(), userID, today())
	if err != nil {
		writeServiceError(w, r, err, "compute net worth")
		return
	}
	utils.SendJSON(w, http.StatusOK, presentNetWorth(nw))
}
