package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Debmalya727/personal-finance-tracker/src/config"
	"github.com/Debmalya727/personal-finance-tracker/src/database"
	"github.com/Debmalya727/personal-finance-tracker/src/model"
	"github.com/Debmalya727/personal-finance-tracker/src/models"
	"github.com/Debmalya727/personal-finance-tracker/src/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrices struct {
	quotes map[string]models.Quote
}

func (s stubPrices) GetFiatRate(_ context.Context, base, quote string) (float64, error) {
	if base == "USD" && quote == "INR" {
		return 83, nil
	}
	return 0, errors.New("unsupported pair")
}

func (s stubPrices) GetSpotPrice(_ context.Context, _, ticker string) (models.Quote, error) {
	q, ok := s.quotes[ticker]
	if !ok {
		return models.Quote{}, errors.New("no quote")
	}
	return q, nil
}

type testClient struct {
	t       *testing.T
	handler http.Handler
	csrf    string
}

// performRequest sends body as JSON with the CSRF cookie/header pair and an optional bearer token.
func (c *testClient) performRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.csrf != "" {
		req.Header.Set("X-CSRF-Token", c.csrf)
		req.AddCookie(&http.Cookie{Name: "_fintrack_csrf", Value: c.csrf})
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func setupTestServer(t *testing.T) *testClient {
	t.Helper()
	prev := config.Cfg
	config.Cfg = config.Defaults()
	config.Cfg.RateLimitRPS = 1000
	config.Cfg.RateLimitBurst = 1000
	t.Cleanup(func() { config.Cfg = prev })

	db, err := database.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunMigrations(db))

	prices := stubPrices{quotes: map[string]models.Quote{
		"INFY.NS": {Price: 200, Currency: "INR"},
	}}
	auth := security.NewAuthService("integration-test-secret-0123456789abcdef", time.Hour)
	c := &testClient{t: t, handler: setupRouter(model.NewSQLStore(db), prices, auth)}

	rec := c.performRequest(http.MethodGet, "/api/auth/csrf", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	c.csrf = decodeBody[map[string]string](t, rec)["csrfToken"]
	require.NotEmpty(t, c.csrf)
	return c
}

func (c *testClient) registerAndLogin(username string) string {
	c.t.Helper()
	creds := map[string]string{"username": username, "password": "secret123", "date_of_birth": "1990-01-01"}
	rec := c.performRequest(http.MethodPost, "/api/auth/register", creds, "")
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = c.performRequest(http.MethodPost, "/api/auth/login", map[string]string{"username": username, "password": "secret123"}, "")
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := decodeBody[map[string]any](c.t, rec)["access_token"].(string)
	require.NotEmpty(c.t, token)
	return token
}

func TestAuthFlow(t *testing.T) {
	c := setupTestServer(t)

	noCSRF := &testClient{t: t, handler: c.handler}
	rec := noCSRF.performRequest(http.MethodPost, "/api/auth/register", map[string]string{"username": "x", "password": "secret123"}, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c.registerAndLogin("alice")

	rec = c.performRequest(http.MethodPost, "/api/auth/register", map[string]string{"username": "alice", "password": "secret123"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = c.performRequest(http.MethodPost, "/api/auth/login", map[string]string{"username": "alice", "password": "wrong-pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.performRequest(http.MethodGet, "/api/transactions", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.performRequest(http.MethodGet, "/api/transactions", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTransactionsAndOwnership(t *testing.T) {
	c := setupTestServer(t)
	alice := c.registerAndLogin("alice")
	bob := c.registerAndLogin("bob")

	rec := c.performRequest(http.MethodPost, "/api/transactions",
		map[string]any{"description": "Pay", "amount": 5000, "type": "income", "category": "Salary", "date": "2024-01-05"}, alice)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	income := decodeBody[models.Transaction](t, rec)

	rec = c.performRequest(http.MethodPost, "/api/transactions",
		map[string]any{"description": "<b>Groceries</b>", "amount": 1200, "type": "expense", "date": "2024-01-06"}, alice)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	expense := decodeBody[models.Transaction](t, rec)
	assert.Equal(t, "Groceries", expense.Description)
	assert.Equal(t, models.DefaultCategory, expense.Category)

	rec = c.performRequest(http.MethodPost, "/api/transactions",
		map[string]any{"description": "Bad", "amount": -5, "type": "income"}, alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.performRequest(http.MethodPost, "/api/transactions",
		map[string]any{"description": "Bad", "amount": 5, "type": "transfer"}, alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	path := fmt.Sprintf("/api/transactions/%d", income.ID)
	rec = c.performRequest(http.MethodDelete, path, nil, bob)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = c.performRequest(http.MethodPut, path,
		map[string]any{"description": "Pay", "amount": 6000, "type": "income", "category": "Salary", "date": "2024-01-05"}, alice)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.performRequest(http.MethodDelete, "/api/transactions/99999", nil, alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.performRequest(http.MethodGet, "/api/transactions", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.Transaction](t, rec), 2)

	rec = c.performRequest(http.MethodGet, "/api/transactions", nil, bob)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]models.Transaction](t, rec))

	rec = c.performRequest(http.MethodGet, "/api/dashboard", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 4800, decodeBody[models.DashboardSummary](t, rec).Balance, 1e-9)
}

func TestInvestmentSaleAndNetWorth(t *testing.T) {
	c := setupTestServer(t)
	token := c.registerAndLogin("alice")

	rec := c.performRequest(http.MethodPost, "/api/transactions",
		map[string]any{"description": "Pay", "amount": 3800, "type": "income", "date": "2024-01-05"}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = c.performRequest(http.MethodPost, "/api/investments", map[string]any{
		"asset_type": "Stock", "ticker_symbol": "infy.ns", "quantity": 100,
		"purchase_price": 100, "purchase_date": "2020-01-01",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	inv := decodeBody[models.Investment](t, rec)
	assert.Equal(t, "INFY.NS", inv.TickerSymbol)
	assert.Equal(t, "INR", inv.PurchaseCurrency)

	sellPath := fmt.Sprintf("/api/investments/%d/sell", inv.ID)
	rec = c.performRequest(http.MethodPost, sellPath, map[string]any{"quantity": 150, "sell_price": 150}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.performRequest(http.MethodPost, sellPath,
		map[string]any{"quantity": 50, "sell_price": 150, "sell_date": "2021-02-04"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	outcome := decodeBody[models.SaleOutcome](t, rec)
	assert.InDelta(t, 2500, outcome.Sold.CapitalGain, 1e-9)
	assert.Equal(t, models.GainLongTerm, outcome.Sold.GainType)
	assert.InDelta(t, 50, outcome.RemainingQuantity, 1e-9)
	assert.False(t, outcome.HoldingRemoved)

	rec = c.performRequest(http.MethodGet, "/api/investments/sold", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]models.SoldInvestment](t, rec), 1)

	rec = c.performRequest(http.MethodGet, "/api/net-worth", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	nw := decodeBody[models.NetWorth](t, rec)
	assert.InDelta(t, 3800, nw.Breakdown.Cash, 1e-9)
	assert.InDelta(t, 50*200, nw.Breakdown.Investments, 1e-9)
	assert.InDelta(t, 13800, nw.NetWorth, 1e-9)
	assert.Equal(t, "live", nw.ExchangeRateSource)

	rec = c.performRequest(http.MethodGet, "/api/tax/estimate", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	est := decodeBody[models.TaxEstimate](t, rec)
	assert.InDelta(t, 2500, est.CapitalGains.LTCGStocks, 1e-9)
	assert.Zero(t, est.CapitalGains.TotalTax)
	assert.False(t, est.SalaryConfigured)
}

func TestLoansSchemesAndReconcile(t *testing.T) {
	c := setupTestServer(t)
	token := c.registerAndLogin("alice")

	rec := c.performRequest(http.MethodPost, "/api/loans", map[string]any{
		"loan_name": "Home", "principal": 1000000, "interest_rate": 10, "tenure_months": 120, "start_date": "2020-01-01",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	status := decodeBody[models.LoanStatus](t, rec)
	assert.InDelta(t, 13215.07, status.Loan.EMI, 0.005)

	rec = c.performRequest(http.MethodPut, fmt.Sprintf("/api/loans/%d", status.Loan.ID), map[string]any{
		"loan_name": "Home", "principal": 500000, "interest_rate": 0, "tenure_months": 100, "start_date": "2020-01-01",
	}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.InDelta(t, 5000, decodeBody[models.LoanStatus](t, rec).Loan.EMI, 1e-9)

	rec = c.performRequest(http.MethodPost, "/api/schemes", map[string]any{
		"scheme_name": "FD", "principal_amount": 10000, "interest_rate": 6, "tenure_months": 24, "start_date": "2020-01-01",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	val := decodeBody[models.SchemeValuation](t, rec)
	assert.InDelta(t, 11236, val.MaturityAmount, 1e-9)
	assert.Equal(t, models.DefaultPenaltyRate, val.Scheme.PenaltyRate)
	assert.Equal(t, "2022-01-01", val.MaturityDate.String())

	rec = c.performRequest(http.MethodPut, "/api/salary", map[string]any{"monthly_gross": 50000, "deductions_80c": 150000, "hra_exemption": 0}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.performRequest(http.MethodPost, "/api/reconcile", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decodeBody[models.ReconciliationResult](t, rec)
	assert.True(t, first.SalaryCredited)

	rec = c.performRequest(http.MethodPost, "/api/reconcile", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	second := decodeBody[models.ReconciliationResult](t, rec)
	assert.False(t, second.SalaryCredited)
	assert.Empty(t, second.EMIsDebited)
}

func TestTaxCompute(t *testing.T) {
	c := setupTestServer(t)

	rec := c.performRequest(http.MethodPost, "/api/tax/compute", map[string]any{"regime": "new", "gross_income": 1000000}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	results := decodeBody[[]models.TaxBreakdown](t, rec)
	require.Len(t, results, 1)
	assert.InDelta(t, 950000, results[0].TaxableIncome, 1e-9)
	assert.InDelta(t, 52500, results[0].IncomeTax, 1e-9)
	assert.InDelta(t, 54600, results[0].TotalTax, 1e-9)

	rec = c.performRequest(http.MethodPost, "/api/tax/compute", map[string]any{"gross_income": 700000, "deductions": 150000, "age": 30}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	both := decodeBody[[]models.TaxBreakdown](t, rec)
	require.Len(t, both, 2)
	assert.Zero(t, both[1].TotalTax, "old regime rebate applies at taxable 500000")

	rec = c.performRequest(http.MethodPost, "/api/tax/compute", map[string]any{"regime": "flat", "gross_income": 1}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimitAndCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	limited := rateLimitMiddleware(0.001, 1)(ok)
	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = httptest.NewRecorder()
	limited.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	cors := enableCORS([]string{"http://localhost:3000"})(ok)
	req := httptest.NewRequest(http.MethodOptions, "/api/transactions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec = httptest.NewRecorder()
	cors.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	cors.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
