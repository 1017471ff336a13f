package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundFloat(t *testing.T) {
	assert.Equal(t, 1.01, RoundFloat(1.005, 2))
	assert.Equal(t, 13215.07, RoundMoney(13215.0718))
	assert.Equal(t, -2.35, RoundFloat(-2.345, 2))
	assert.Equal(t, 3.0, RoundFloat(2.5, 0))
}

func TestSendJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	SendJSONError(rec, "nope", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"nope"}`, rec.Body.String())
}
