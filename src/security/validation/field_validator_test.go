package validation

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Debmalya727/personal-finance-tracker/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePositive(t *testing.T) {
	assert.NoError(t, ValidatePositive(0.01, "amount"))

	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		err := ValidatePositive(v, "amount")
		assert.Error(t, err, "value %v", v)
		assert.True(t, errors.Is(err, ErrValidationFailed))
	}
}

func TestValidateRateAndTenure(t *testing.T) {
	assert.NoError(t, ValidateRate(0, "rate"))
	assert.NoError(t, ValidateRate(7.5, "rate"))
	assert.Error(t, ValidateRate(-0.1, "rate"))
	assert.Error(t, ValidateRate(150, "rate"))

	assert.NoError(t, ValidateTenure(1, "tenure"))
	assert.NoError(t, ValidateTenure(360, "tenure"))
	assert.Error(t, ValidateTenure(0, "tenure"))
	assert.Error(t, ValidateTenure(MaxTenureMonths+1, "tenure"))
}

func TestValidateKinds(t *testing.T) {
	assert.NoError(t, ValidateTransactionKind(models.KindIncome))
	assert.NoError(t, ValidateTransactionKind(models.KindExpense))
	assert.ErrorIs(t, ValidateTransactionKind("transfer"), ErrValidationFailed)

	assert.NoError(t, ValidateAssetType(models.AssetStock))
	assert.NoError(t, ValidateAssetType(models.AssetCrypto))
	assert.ErrorIs(t, ValidateAssetType("Bond"), ErrValidationFailed)
}

func TestValidateTickerAndCurrency(t *testing.T) {
	assert.NoError(t, ValidateTicker("RELIANCE.NS"))
	assert.NoError(t, ValidateTicker("bitcoin"))
	assert.Error(t, ValidateTicker(""))
	assert.Error(t, ValidateTicker("BAD TICKER"))

	assert.NoError(t, ValidateCurrencyCode("inr"))
	assert.NoError(t, ValidateCurrencyCode(""))
	assert.Error(t, ValidateCurrencyCode("RUPEE"))
}

func TestValidateDateSet(t *testing.T) {
	assert.Error(t, ValidateDateSet(models.Date{}, "start_date"))
	assert.NoError(t, ValidateDateSet(models.MustDate(2024, 1, 1), "start_date"))
}

func TestSanitizers(t *testing.T) {
	assert.Equal(t, "Groceries", SanitizeText("  <b>Groceries</b> "))
	assert.Equal(t, "RELIANCE.NS", NormalizeTicker(models.AssetStock, " reliance.ns "))
	assert.Equal(t, "bitcoin", NormalizeTicker(models.AssetCrypto, "BitCoin"))
}

func TestCleanText(t *testing.T) {
	got, err := CleanText("  <b>Rent</b> for March ", MaxDescriptionLength, "description", true)
	require.NoError(t, err)
	assert.Equal(t, "Rent for March", got)

	_, err = CleanText(`<script>alert(1)</script>`, MaxDescriptionLength, "description", true)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = CleanText("   ", MaxNameLength, "name", true)
	assert.ErrorIs(t, err, ErrValidationFailed)

	got, err = CleanText("", MaxCategoryLength, "category", false)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = CleanText(strings.Repeat("a", MaxCategoryLength+1), MaxCategoryLength, "category", false)
	assert.ErrorIs(t, err, ErrValidationFailed)
}
