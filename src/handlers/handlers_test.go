package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Debmalya727/personal-finance-tracker/src/database"
	"github.com/Debmalya727/personal-finance-tracker/src/model"
	"github.com/Debmalya727/personal-finance-tracker/src/models"
	"github.com/Debmalya727/personal-finance-tracker/src/security"
	"github.com/Debmalya727/personal-finance-tracker/src/security/validation"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixToday(t *testing.T, d models.Date) {
	t.Helper()
	prev := today
	today = func() models.Date { return d }
	t.Cleanup(func() { today = prev })
}

func newTestStore(t *testing.T) (*model.SQLStore, int64) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "handlers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunMigrations(db))

	store := model.NewSQLStore(db)
	u := &model.User{Username: "alice", Password: "hash"}
	require.NoError(t, store.CreateUser(context.Background(), u))
	return store, u.ID
}

// authedRequest builds a request that has already passed AuthMiddleware.
func authedRequest(method, target string, body any, userID int64) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	return req.WithContext(context.WithValue(req.Context(), userIDContextKey, userID))
}

func withIDParam(req *http.Request, id int64) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", fmt.Sprint(id))
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestWriteServiceError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: amount must be greater than zero", validation.ErrValidationFailed), http.StatusBadRequest},
		{fmt.Errorf("loan 3: %w", model.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("loan 3: %w", model.ErrNotAuthorized), http.StatusForbidden},
		{fmt.Errorf("%q: %w", "bob", model.ErrUsernameTaken), http.StatusConflict},
		{fmt.Errorf("disk I/O error"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeServiceError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err, "do thing")
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
		assert.Contains(t, rec.Body.String(), `"error"`)
	}
}

func TestCSRFMiddleware(t *testing.T) {
	h := CSRFMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(csrfHeaderName, "abc")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "xyz"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(csrfHeaderName, "abc")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "abc"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	auth := security.NewAuthService("handler-test-secret-0123456789abcdef", time.Hour)
	uh := NewUserHandler(nil, auth)

	var gotUserID int64
	h := uh.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := auth.GenerateToken("42")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), gotUserID)
}

func TestSchemeListValuesAsOfToday(t *testing.T) {
	fixToday(t, models.MustDate(2026, 1, 1))
	store, userID := newTestStore(t)
	h := NewSchemeHandler(store)

	rec := httptest.NewRecorder()
	h.HandleCreateScheme(rec, authedRequest(http.MethodPost, "/api/schemes", map[string]any{
		"scheme_name": "FD", "principal_amount": 10000, "interest_rate": 6,
		"tenure_months": 24, "start_date": "2025-01-01", "penalty_rate": 2,
	}, userID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	h.HandleListSchemes(rec, authedRequest(http.MethodGet, "/api/schemes", nil, userID))
	require.Equal(t, http.StatusOK, rec.Code)

	var vals []models.SchemeValuation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vals))
	require.Len(t, vals, 1)
	v := vals[0]
	// 365 days elapsed.
	assert.InDelta(t, 0.9993, v.YearsElapsed, 1e-4)
	assert.InDelta(t, 10599.58, v.CurrentValue, 0.005)
	assert.InDelta(t, 10399.72, v.EarlyWithdrawalValue, 0.005)
	assert.InDelta(t, 11236, v.MaturityAmount, 1e-9)
	assert.Equal(t, 2.0, v.Scheme.PenaltyRate)
}

func TestSchemeValidation(t *testing.T) {
	store, userID := newTestStore(t)
	h := NewSchemeHandler(store)

	for _, body := range []map[string]any{
		{"scheme_name": "FD", "principal_amount": 0, "interest_rate": 6, "tenure_months": 12, "start_date": "2025-01-01"},
		{"scheme_name": "FD", "principal_amount": 100, "interest_rate": 6, "tenure_months": 0, "start_date": "2025-01-01"},
		{"scheme_name": "FD", "principal_amount": 100, "interest_rate": 6, "tenure_months": 12},
		{"scheme_name": "", "principal_amount": 100, "interest_rate": 6, "tenure_months": 12, "start_date": "2025-01-01"},
		{"scheme_name": "FD", "principal_amount": 100, "interest_rate": 6, "tenure_months": 12, "start_date": "01/01/2025"},
	} {
		rec := httptest.NewRecorder()
		h.HandleCreateScheme(rec, authedRequest(http.MethodPost, "/api/schemes", body, userID))
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	}
}

func TestLoanEMIIsNeverTakenFromInput(t *testing.T) {
	fixToday(t, models.MustDate(2025, 1, 1))
	store, userID := newTestStore(t)
	h := NewLoanHandler(store)

	rec := httptest.NewRecorder()
	h.HandleCreateLoan(rec, authedRequest(http.MethodPost, "/api/loans", map[string]any{
		"loan_name": "Car", "principal": 1000000, "interest_rate": 10, "tenure_months": 120,
		"start_date": "2024-01-01", "emi_amount": 1,
	}, userID))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown fields are rejected")

	rec = httptest.NewRecorder()
	h.HandleCreateLoan(rec, authedRequest(http.MethodPost, "/api/loans", map[string]any{
		"loan_name": "Car", "principal": 1000000, "interest_rate": 10, "tenure_months": 120, "start_date": "2024-01-01",
	}, userID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var status models.LoanStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.InDelta(t, 13215.07, status.Loan.EMI, 1e-9)
	assert.Equal(t, 12, status.PaymentsMade)
	assert.True(t, status.Active)

	rec = httptest.NewRecorder()
	req := withIDParam(authedRequest(http.MethodPut, "/", map[string]any{
		"loan_name": "Car", "principal": 1200, "interest_rate": 0, "tenure_months": 12, "start_date": "2024-01-01",
	}, userID), status.Loan.ID)
	h.HandleUpdateLoan(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.InDelta(t, 100, status.Loan.EMI, 1e-9)
	assert.Zero(t, status.Outstanding)

	loans, err := store.ListLoans(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.InDelta(t, 100, loans[0].EMI, 1e-9)
}

func TestSalaryGetBeforeAndAfterUpsert(t *testing.T) {
	store, userID := newTestStore(t)
	h := NewSalaryHandler(store)

	rec := httptest.NewRecorder()
	h.HandleGetSalary(rec, authedRequest(http.MethodGet, "/api/salary", nil, userID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"configured":false`)

	rec = httptest.NewRecorder()
	h.HandleUpsertSalary(rec, authedRequest(http.MethodPut, "/api/salary", map[string]any{"monthly_gross": -1}, userID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleUpsertSalary(rec, authedRequest(http.MethodPut, "/api/salary", map[string]any{"monthly_gross": 80000, "deductions_80c": 150000}, userID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	h.HandleGetSalary(rec, authedRequest(http.MethodGet, "/api/salary", nil, userID))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp salaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Configured)
	assert.InDelta(t, 960000, resp.AnnualGross, 1e-9)
}

func TestProfileRejectsFutureDateOfBirth(t *testing.T) {
	fixToday(t, models.MustDate(2025, 6, 1))
	store, userID := newTestStore(t)
	h := NewUserHandler(store, nil)

	rec := httptest.NewRecorder()
	h.UpdateProfileHandler(rec, authedRequest(http.MethodPut, "/api/profile", map[string]any{"date_of_birth": "2030-01-01"}, userID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.UpdateProfileHandler(rec, authedRequest(http.MethodPut, "/api/profile", map[string]any{"date_of_birth": "1960-03-15"}, userID))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"date_of_birth":"1960-03-15"`)
	assert.NotContains(t, rec.Body.String(), "hash")
}
