// src/processors/capital_gains_processor.go
package processors

import (
	"fmt"
	"math"

	"github.com/Debmalya727/personal-finance-tracker/src/models"
	"github.com/Debmalya727/personal-finance-tracker/src/security/validation"
)

const (
	// LongTermHoldingDays is the holding period a stock sale must exceed to count as long term.
	LongTermHoldingDays = 365
	// QuantityEpsilon is the remaining quantity below which a holding is removed.
	QuantityEpsilon = 1e-6

	STCGRate        = 0.15
	LTCGRate        = 0.10
	LTCGExemption   = 100000.0
	CryptoGainsRate = 0.30
)

// ClassifyGain returns STCG or LTCG for a sale held for holdingDays.
// Crypto is always short term.
func ClassifyGain(assetType string, holdingDays int) string {
	if assetType == models.AssetStock && holdingDays > LongTermHoldingDays {
		return models.GainLongTerm
	}
	return models.GainShortTerm
}

// SellInvestment applies a sale against a single-lot holding and returns the
// realized record. The holding itself is not modified.
func SellInvestment(inv models.Investment, sellQuantity, sellPrice float64, sellDate models.Date) (models.SaleOutcome, error) {
	if math.IsNaN(sellQuantity) || sellQuantity <= 0 {
		return models.SaleOutcome{}, fmt.Errorf("%w: quantity to sell must be greater than zero", validation.ErrValidationFailed)
	}
	if sellQuantity > inv.Quantity {
		return models.SaleOutcome{}, fmt.Errorf("%w: cannot sell %g units of %s, only %g held",
			validation.ErrValidationFailed, sellQuantity, inv.TickerSymbol, inv.Quantity)
	}
	if math.IsNaN(sellPrice) || sellPrice < 0 {
		return models.SaleOutcome{}, fmt.Errorf("%w: sell price cannot be negative", validation.ErrValidationFailed)
	}
	if sellDate.IsZero() {
		return models.SaleOutcome{}, fmt.Errorf("%w: sell date is required", validation.ErrValidationFailed)
	}

	holdingDays := DaysBetween(inv.PurchaseDate, sellDate)
	gain := sellPrice*sellQuantity - inv.PurchasePrice*sellQuantity
	remaining := inv.Quantity - sellQuantity
	removed := remaining < QuantityEpsilon
	if removed {
		remaining = 0
	}

	return models.SaleOutcome{
		Sold: models.SoldInvestment{
			UserID:        inv.UserID,
			AssetType:     inv.AssetType,
			TickerSymbol:  inv.TickerSymbol,
			Quantity:      sellQuantity,
			PurchasePrice: inv.PurchasePrice,
			PurchaseDate:  inv.PurchaseDate,
			SellPrice:     sellPrice,
			SellDate:      sellDate,
			CapitalGain:   gain,
			GainType:      ClassifyGain(inv.AssetType, holdingDays),
			HoldingDays:   holdingDays,
		},
		RemainingQuantity: remaining,
		HoldingRemoved:    removed,
	}, nil
}

// SummarizeCapitalGains aggregates realized gains into the three tax buckets.
// Losses are netted within a bucket. A net short-term stock loss yields a
// negative STCG tax that offsets the total; crypto losses are never offset.
func SummarizeCapitalGains(sales []models.SoldInvestment) models.CapitalGainsSummary {
	var s models.CapitalGainsSummary
	for _, sale := range sales {
		switch {
		case sale.AssetType == models.AssetCrypto:
			s.CryptoGains += sale.CapitalGain
		case sale.GainType == models.GainLongTerm:
			s.LTCGStocks += sale.CapitalGain
		default:
			s.STCGStocks += sale.CapitalGain
		}
	}

	s.STCGTax = s.STCGStocks * STCGRate
	s.LTCGTaxable = math.Max(s.LTCGStocks-LTCGExemption, 0)
	s.LTCGTax = s.LTCGTaxable * LTCGRate
	s.CryptoTax = math.Max(s.CryptoGains, 0) * CryptoGainsRate
	s.TotalTax = s.STCGTax + s.LTCGTax + s.CryptoTax
	return s
}
