// src/security/validation/field_validator.go
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Debmalya727/personal-finance-tracker/src/logger"
	"github.com/Debmalya727/personal-finance-tracker/src/models"
)

// ErrValidationFailed is wrapped by every validation error so callers can map it with errors.Is.
var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	DefaultMaxStringLength = 255
	MaxDescriptionLength   = 200
	MaxCategoryLength      = 50
	MaxNameLength          = 100
	MaxTickerLength        = 50
	MaxCurrencyCodeLength  = 3
	MaxUsernameLength      = 100
	MinPasswordLength      = 6
	MaxTenureMonths        = 1200
	MaxRatePercent         = 100.0
)

// --- String Validators ---

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateRequiredText combines the not-empty and max-length checks.
func ValidateRequiredText(s string, maxLength int, fieldName string) error {
	if err := ValidateStringNotEmpty(s, fieldName); err != nil {
		return err
	}
	return ValidateStringMaxLength(s, maxLength, fieldName)
}

// --- Numeric Validators ---

func validateFinite(v float64, fieldName string) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite number", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidatePositive requires v > 0.
func ValidatePositive(v float64, fieldName string) error {
	if err := validateFinite(v, fieldName); err != nil {
		return err
	}
	if v <= 0 {
		return fmt.Errorf("%w: %s must be greater than zero", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateNonNegative requires v >= 0.
func ValidateNonNegative(v float64, fieldName string) error {
	if err := validateFinite(v, fieldName); err != nil {
		return err
	}
	if v < 0 {
		logger.L.Warn("Negative value not allowed for field", "field", fieldName, "value", v)
		return fmt.Errorf("%w: %s cannot be negative", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateRate checks an annual percentage rate.
func ValidateRate(v float64, fieldName string) error {
	if err := ValidateNonNegative(v, fieldName); err != nil {
		return err
	}
	if v > MaxRatePercent {
		return fmt.Errorf("%w: %s must be between 0 and %.0f, got %.2f", ErrValidationFailed, fieldName, MaxRatePercent, v)
	}
	return nil
}

// ValidateTenure checks a tenure expressed in months.
func ValidateTenure(months int, fieldName string) error {
	if months <= 0 || months > MaxTenureMonths {
		return fmt.Errorf("%w: %s must be between 1 and %d months, got %d", ErrValidationFailed, fieldName, MaxTenureMonths, months)
	}
	return nil
}

// --- Date Validator ---

// ValidateDateSet checks that a date was supplied.
func ValidateDateSet(d models.Date, fieldName string) error {
	if d.IsZero() {
		return fmt.Errorf("%w: %s is required (expected YYYY-MM-DD)", ErrValidationFailed, fieldName)
	}
	return nil
}

// --- Specific Format Validators ---

var (
	currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	tickerRegex       = regexp.MustCompile(`^[A-Za-z0-9.\-_=^]+$`)
)

// ValidateCurrencyCode checks if currency code is 3 uppercase letters.
func ValidateCurrencyCode(s string) error {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if trimmed == "" {
		return nil
	}
	if err := ValidateStringMaxLength(trimmed, MaxCurrencyCodeLength, "Currency Code"); err != nil {
		return err
	}
	if !currencyCodeRegex.MatchString(trimmed) {
		return fmt.Errorf("%w: Currency Code ('%s') is not in the expected format (3 uppercase letters)", ErrValidationFailed, s)
	}
	return nil
}

// ValidateTicker checks a stock symbol or crypto asset id.
func ValidateTicker(s string) error {
	if err := ValidateRequiredText(s, MaxTickerLength, "Ticker symbol"); err != nil {
		return err
	}
	if !tickerRegex.MatchString(s) {
		return fmt.Errorf("%w: Ticker symbol ('%s') contains invalid characters", ErrValidationFailed, s)
	}
	return nil
}

// ValidateTransactionKind accepts "income" or "expense".
func ValidateTransactionKind(kind string) error {
	switch kind {
	case models.KindIncome, models.KindExpense:
		return nil
	default:
		return fmt.Errorf("%w: type must be '%s' or '%s', got '%s'", ErrValidationFailed, models.KindIncome, models.KindExpense, kind)
	}
}

// ValidateAssetType accepts "Stock" or "Crypto".
func ValidateAssetType(assetType string) error {
	switch assetType {
	case models.AssetStock, models.AssetCrypto:
		return nil
	default:
		return fmt.Errorf("%w: asset_type must be '%s' or '%s', got '%s'", ErrValidationFailed, models.AssetStock, models.AssetCrypto, assetType)
	}
}
