package processors

import (
	"testing"

	"github.com/Debmalya727/personal-finance-tracker/src/models"
	"github.com/Debmalya727/personal-finance-tracker/src/security/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stockHolding() models.Investment {
	return models.Investment{
		ID:            7,
		UserID:        1,
		AssetType:     models.AssetStock,
		TickerSymbol:  "INFY.NS",
		Quantity:      100,
		PurchasePrice: 100,
		PurchaseDate:  models.MustDate(2023, 1, 1),
	}
}

func TestSellInvestmentPartialLongTerm(t *testing.T) {
	inv := stockHolding()
	sellDate := models.NewDate(inv.PurchaseDate.AddDate(0, 0, 400))

	out, err := SellInvestment(inv, 50, 150, sellDate)
	require.NoError(t, err)

	assert.Equal(t, 400, out.Sold.HoldingDays)
	assert.Equal(t, models.GainLongTerm, out.Sold.GainType)
	assert.InDelta(t, 2500.0, out.Sold.CapitalGain, 1e-9)
	assert.InDelta(t, 50.0, out.RemainingQuantity, 1e-9)
	assert.False(t, out.HoldingRemoved)
	assert.Equal(t, 100.0, inv.Quantity, "input holding is untouched")

	summary := SummarizeCapitalGains([]models.SoldInvestment{out.Sold})
	assert.Zero(t, summary.TotalTax, "gain is within the LTCG exemption")
	assert.InDelta(t, 2500.0, summary.LTCGStocks, 1e-9)
}

func TestSellInvestmentShortTermBoundary(t *testing.T) {
	inv := stockHolding()
	out, err := SellInvestment(inv, 10, 90, models.NewDate(inv.PurchaseDate.AddDate(0, 0, 365)))
	require.NoError(t, err)
	assert.Equal(t, models.GainShortTerm, out.Sold.GainType)
	assert.InDelta(t, -100.0, out.Sold.CapitalGain, 1e-9)
}

func TestSellInvestmentCryptoIsAlwaysShortTerm(t *testing.T) {
	inv := models.Investment{
		AssetType:     models.AssetCrypto,
		TickerSymbol:  "bitcoin",
		Quantity:      0.5,
		PurchasePrice: 20000,
		PurchaseDate:  models.MustDate(2020, 1, 1),
	}
	out, err := SellInvestment(inv, 0.5, 60000, models.MustDate(2024, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, models.GainShortTerm, out.Sold.GainType)
	assert.True(t, out.HoldingRemoved)
	assert.Zero(t, out.RemainingQuantity)
}

func TestSellInvestmentRemovesDustHolding(t *testing.T) {
	inv := stockHolding()
	inv.Quantity = 1.0000005
	out, err := SellInvestment(inv, 1, 100, models.MustDate(2023, 6, 1))
	require.NoError(t, err)
	assert.True(t, out.HoldingRemoved)
}

func TestSellInvestmentValidation(t *testing.T) {
	inv := stockHolding()
	today := models.MustDate(2024, 1, 1)

	cases := map[string]struct {
		quantity float64
		price    float64
		date     models.Date
	}{
		"zero quantity":     {quantity: 0, price: 10, date: today},
		"negative quantity": {quantity: -1, price: 10, date: today},
		"more than held":    {quantity: 100.5, price: 10, date: today},
		"negative price":    {quantity: 1, price: -1, date: today},
		"missing date":      {quantity: 1, price: 10},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := SellInvestment(inv, c.quantity, c.price, c.date)
			assert.ErrorIs(t, err, validation.ErrValidationFailed)
			assert.Equal(t, 100.0, inv.Quantity)
		})
	}
}

func TestSummarizeCapitalGains(t *testing.T) {
	sales := []models.SoldInvestment{
		{AssetType: models.AssetStock, GainType: models.GainShortTerm, CapitalGain: 20000},
		{AssetType: models.AssetStock, GainType: models.GainShortTerm, CapitalGain: -5000},
		{AssetType: models.AssetStock, GainType: models.GainLongTerm, CapitalGain: 150000},
		{AssetType: models.AssetCrypto, GainType: models.GainShortTerm, CapitalGain: 10000},
	}

	s := SummarizeCapitalGains(sales)

	assert.InDelta(t, 15000.0, s.STCGStocks, 1e-9)
	assert.InDelta(t, 2250.0, s.STCGTax, 1e-9)
	assert.InDelta(t, 50000.0, s.LTCGTaxable, 1e-9)
	assert.InDelta(t, 5000.0, s.LTCGTax, 1e-9)
	assert.InDelta(t, 3000.0, s.CryptoTax, 1e-9)
	assert.InDelta(t, 10250.0, s.TotalTax, 1e-9)
}

func TestSummarizeCapitalGainsNetLoss(t *testing.T) {
	s := SummarizeCapitalGains([]models.SoldInvestment{
		{AssetType: models.AssetCrypto, CapitalGain: -4000},
		{AssetType: models.AssetStock, GainType: models.GainShortTerm, CapitalGain: -10000},
	})
	assert.Equal(t, -4000.0, s.CryptoGains)
	assert.Zero(t, s.CryptoTax)
	assert.InDelta(t, -1500.0, s.STCGTax, 1e-9)
	assert.Zero(t, s.LTCGTax)
	assert.InDelta(t, -1500.0, s.TotalTax, 1e-9)
}
