package utils

import (
	"encoding/json"
	"net/http"

	"github.com/Debmalya727/personal-finance-tracker/src/logger"
	"github.com/shopspring/decimal"
)

// RoundFloat rounds val half away from zero to precision decimal places.
// Rounding goes through a decimal so that values such as 1.005 round up.
func RoundFloat(val float64, precision int32) float64 {
	rounded, _ := decimal.NewFromFloat(val).Round(precision).Float64()
	return rounded
}

// RoundMoney rounds a currency amount to paise/cents.
func RoundMoney(val float64) float64 {
	return RoundFloat(val, 2)
}

// SendJSON writes data as a JSON response with the given status.
func SendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.L.Error("Failed to encode JSON response", "error", err)
	}
}

// SendJSONError writes {"error": message} with the given status.
func SendJSONError(w http.ResponseWriter, message string, statusCode int) {
	SendJSON(w, statusCode, map[string]string{"error": message})
}
