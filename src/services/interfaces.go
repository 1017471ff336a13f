// src/services/interfaces.go
package services

import (
	"context"
	"errors"

	"github.com/Debmalya727/personal-finance-tracker/src/models"
)

// Define common service errors
var (
	ErrPriceUnavailable = errors.New("price unavailable")
	ErrUnsupportedAsset = errors.New("unsupported asset type")
)

// Exchange rate sources reported with valuations.
const (
	RateSourceLive     = "live"
	RateSourceCached   = "cached"
	RateSourceFallback = "fallback"
)

// PriceService defines the interface for fetching current market prices and fiat rates.
type PriceService interface {
	// GetFiatRate returns how many units of quote one unit of base buys today.
	GetFiatRate(ctx context.Context, base, quote string) (float64, error)
	// GetSpotPrice returns the latest price of a stock (Yahoo symbol) or crypto asset
	// (CoinGecko id) in the currency the feed reports it in.
	GetSpotPrice(ctx context.Context, assetType, ticker string) (models.Quote, error)
}
