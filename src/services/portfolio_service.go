// src/services/portfolio_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Debmalya727/personal-finance-tracker/src/logger"
	"github.com/Debmalya727/personal-finance-tracker/src/model"
	"github.com/Debmalya727/personal-finance-tracker/src/models"
	"github.com/Debmalya727/personal-finance-tracker/src/processors"
	"github.com/patrickmn/go-cache"
)

// PortfolioService values holdings, records sales and aggregates net worth.
type PortfolioService struct {
	store             model.Store
	prices            PriceService
	reportingCurrency string
	fallbackUSDRate   float64
	// lastGoodRates keeps the most recent live USD rate, without expiry.
	lastGoodRates *cache.Cache
}

func NewPortfolioService(store model.Store, prices PriceService, reportingCurrency string, fallbackUSDRate float64) *PortfolioService {
	return &PortfolioService{
		store:             store,
		prices:            prices,
		reportingCurrency: strings.ToUpper(reportingCurrency),
		fallbackUSDRate:   fallbackUSDRate,
		lastGoodRates:     cache.New(cache.NoExpiration, 0),
	}
}

// usdRate resolves USD -> reporting currency: live, then last good, then the configured fallback.
func (s *PortfolioService) usdRate(ctx context.Context) (float64, string) {
	if s.reportingCurrency == "USD" {
		return 1.0, RateSourceLive
	}
	cacheKey := "USD/" + s.reportingCurrency

	rate, err := s.prices.GetFiatRate(ctx, "USD", s.reportingCurrency)
	if err == nil && rate > 0 {
		s.lastGoodRates.Set(cacheKey, rate, cache.NoExpiration)
		return rate, RateSourceLive
	}
	logger.FromContext(ctx).Warn("Live USD exchange rate unavailable", "quote", s.reportingCurrency, "error", err)

	if cached, found := s.lastGoodRates.Get(cacheKey); found {
		return cached.(float64), RateSourceCached
	}
	return s.fallbackUSDRate, RateSourceFallback
}

// convert moves amount between currencies, using the resolved USD rate for
// USD <-> reporting and the price feed for anything else.
func (s *PortfolioService) convert(ctx context.Context, amount float64, from, to string, usdRate float64) (float64, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	switch {
	case from == to:
		return amount, nil
	case from == "USD" && to == s.reportingCurrency:
		return amount * usdRate, nil
	case from == s.reportingCurrency && to == "USD":
		return amount / usdRate, nil
	}
	rate, err := s.prices.GetFiatRate(ctx, from, to)
	if err != nil {
		return 0, err
	}
	return amount * rate, nil
}

// valueHolding prices one holding. A failed lookup yields status UNAVAILABLE and zero value.
func (s *PortfolioService) valueHolding(ctx context.Context, inv models.Investment, usdRate float64) models.HoldingWithValue {
	hv := models.HoldingWithValue{Investment: inv, Status: models.PriceStatusUnavailable}

	quote, err := s.prices.GetSpotPrice(ctx, inv.AssetType, inv.TickerSymbol)
	if err != nil {
		logger.FromContext(ctx).Warn("Price lookup failed, holding contributes zero",
			"ticker", inv.TickerSymbol, "assetType", inv.AssetType, "error", err)
		return hv
	}

	value, err := s.convert(ctx, inv.Quantity*quote.Price, quote.Currency, s.reportingCurrency, usdRate)
	if err != nil {
		logger.FromContext(ctx).Warn("Could not convert holding value", "ticker", inv.TickerSymbol, "currency", quote.Currency, "error", err)
		return hv
	}

	hv.CurrentPrice = quote.Price
	hv.QuoteCurrency = quote.Currency
	hv.ValueReporting = value
	hv.Status = models.PriceStatusOK

	purchaseCurrency := inv.PurchaseCurrency
	if purchaseCurrency == "" {
		purchaseCurrency = models.DefaultPurchaseCurrency
	}
	cost, err := s.convert(ctx, inv.PurchasePrice, purchaseCurrency, quote.Currency, usdRate)
	if err != nil {
		logger.FromContext(ctx).Warn("Could not convert purchase price for profit/loss", "ticker", inv.TickerSymbol, "error", err)
		return hv
	}
	hv.ProfitLoss = (quote.Price - cost) * inv.Quantity
	return hv
}

// RefreshHoldings returns every holding with its current market value.
func (s *PortfolioService) RefreshHoldings(ctx context.Context, userID int64) (*models.HoldingsReport, error) {
	investments, err := s.store.ListInvestments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("refreshing holdings: %w", err)
	}

	rate, source := s.usdRate(ctx)
	report := &models.HoldingsReport{
		Holdings:           make([]models.HoldingWithValue, 0, len(investments)),
		ReportingCurrency:  s.reportingCurrency,
		ExchangeRate:       rate,
		ExchangeRateSource: source,
	}
	for _, inv := range investments {
		report.Holdings = append(report.Holdings, s.valueHolding(ctx, inv, rate))
	}
	return report, nil
}

// ComputeNetWorth aggregates cash, schemes and holdings against outstanding loans as of today.
// It is recomputed from the store on every call.
func (s *PortfolioService) ComputeNetWorth(ctx context.Context, userID int64, today models.Date) (*models.NetWorth, error) {
	income, expense, err := s.store.TransactionTotals(ctx, userID, models.Date{})
	if err != nil {
		return nil, fmt.Errorf("net worth: %w", err)
	}
	schemes, err := s.store.ListSchemes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("net worth: %w", err)
	}
	loans, err := s.store.ListLoans(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("net worth: %w", err)
	}
	holdings, err := s.RefreshHoldings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("net worth: %w", err)
	}

	nw := &models.NetWorth{
		AsOf:               today,
		Loans:              make([]models.LoanOutstanding, 0, len(loans)),
		ReportingCurrency:  holdings.ReportingCurrency,
		ExchangeRate:       holdings.ExchangeRate,
		ExchangeRateSource: holdings.ExchangeRateSource,
	}
	nw.Breakdown.Cash = income - expense

	for _, fs := range schemes {
		// Schemes that have not started yet are left out.
		elapsed := processors.YearsElapsed(fs.StartDate, today)
		if elapsed > 0 {
			nw.Breakdown.Schemes += processors.ValueAt(fs.Principal, fs.InterestRate, elapsed)
		}
	}

	for _, h := range holdings.Holdings {
		if h.Status != models.PriceStatusOK {
			nw.UnpricedHoldings = append(nw.UnpricedHoldings, h.Investment.TickerSymbol)
			continue
		}
		nw.Breakdown.Investments += h.ValueReporting
	}

	for _, l := range loans {
		status := processors.ValueLoan(l, today)
		nw.Loans = append(nw.Loans, models.LoanOutstanding{LoanID: l.ID, Name: l.Name, Outstanding: status.Outstanding})
		nw.Liabilities += status.Outstanding
	}

	nw.Assets = nw.Breakdown.Cash + nw.Breakdown.Schemes + nw.Breakdown.Investments
	nw.NetWorth = nw.Assets - nw.Liabilities
	return nw, nil
}

// SellInvestment sells part or all of a holding and records the realized gain.
func (s *PortfolioService) SellInvestment(ctx context.Context, userID, investmentID int64, quantity, price float64, sellDate models.Date) (models.SaleOutcome, error) {
	outcome, err := s.store.RecordSale(ctx, userID, investmentID, func(inv models.Investment) (models.SaleOutcome, error) {
		return processors.SellInvestment(inv, quantity, price, sellDate)
	})
	if err != nil {
		return models.SaleOutcome{}, err
	}
	logger.FromContext(ctx).Info("Investment sold",
		"investmentID", investmentID, "ticker", outcome.Sold.TickerSymbol,
		"quantity", quantity, "gainType", outcome.Sold.GainType, "holdingRemoved", outcome.HoldingRemoved)
	return outcome, nil
}
