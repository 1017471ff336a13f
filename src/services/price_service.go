// src/services/price_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Debmalya727/personal-finance-tracker/src/config"
	"github.com/Debmalya727/personal-finance-tracker/src/logger"
	"github.com/Debmalya727/personal-finance-tracker/src/models"
	"github.com/Debmalya727/personal-finance-tracker/src/processors"
	"github.com/patrickmn/go-cache"
	"golang.org/x/net/publicsuffix"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// quoteTTL keeps repeated requests within a page load from hitting the feeds again.
const quoteTTL = time.Minute

// Yahoo quotes some exchanges in minor units (pence, cents, agorot).
var minorUnitCurrencies = map[string]string{
	"GBp": "GBP",
	"GBX": "GBP",
	"ZAc": "ZAR",
	"ILA": "ILS",
}

// --- API Response Structs ---

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// coinGeckoSimplePrice maps coin id -> vs currency -> price.
type coinGeckoSimplePrice map[string]map[string]float64

// PriceServiceConfig holds the feed endpoints.
type PriceServiceConfig struct {
	YahooBaseURL     string
	CoinGeckoBaseURL string
	ECBBaseURL       string
	Timeout          time.Duration
	// SessionURLs are visited before fetching a Yahoo crumb so the cookie jar
	// holds a consent cookie. Empty in tests.
	SessionURLs []string
}

// PriceServiceConfigFromEnv builds the feed configuration from config.Cfg.
func PriceServiceConfigFromEnv() PriceServiceConfig {
	return PriceServiceConfig{
		YahooBaseURL:     config.Cfg.YahooBaseURL,
		CoinGeckoBaseURL: config.Cfg.CoinGeckoBaseURL,
		ECBBaseURL:       config.Cfg.ECBBaseURL,
		Timeout:          config.Cfg.PriceFeedTimeout,
		SessionURLs:      []string{"https://fc.yahoo.com", "https://finance.yahoo.com"},
	}
}

// --- Service Implementation ---

type priceServiceImpl struct {
	httpClient    *http.Client
	cfg           PriceServiceConfig
	fx            *processors.ExchangeRateProcessor
	quotes        *cache.Cache
	isInitialized bool
	crumb         string
	mu            sync.Mutex
}

func NewPriceService(cfg PriceServiceConfig) PriceService {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	cfg.YahooBaseURL = strings.TrimRight(cfg.YahooBaseURL, "/")
	cfg.CoinGeckoBaseURL = strings.TrimRight(cfg.CoinGeckoBaseURL, "/")

	client := &http.Client{
		Jar:     jar,
		Timeout: cfg.Timeout,
	}

	return &priceServiceImpl{
		httpClient: client,
		cfg:        cfg,
		fx:         processors.NewExchangeRateProcessor(client, cfg.ECBBaseURL),
		quotes:     cache.New(quoteTTL, 2*quoteTTL),
	}
}

func (s *priceServiceImpl) GetFiatRate(ctx context.Context, base, quote string) (float64, error) {
	rate, err := s.fx.CrossRate(ctx, base, quote, time.Now())
	if err != nil {
		return 0, fmt.Errorf("fiat rate %s/%s: %w", strings.ToUpper(base), strings.ToUpper(quote), err)
	}
	return rate, nil
}

func (s *priceServiceImpl) GetSpotPrice(ctx context.Context, assetType, ticker string) (models.Quote, error) {
	cacheKey := assetType + ":" + ticker
	if q, found := s.quotes.Get(cacheKey); found {
		return q.(models.Quote), nil
	}

	var (
		q   models.Quote
		err error
	)
	switch assetType {
	case models.AssetStock:
		q, err = s.getStockPrice(ctx, ticker)
	case models.AssetCrypto:
		q, err = s.getCryptoPrice(ctx, ticker)
	default:
		return models.Quote{}, fmt.Errorf("%w: %s", ErrUnsupportedAsset, assetType)
	}
	if err != nil {
		return models.Quote{}, fmt.Errorf("%w: %s %s: %v", ErrPriceUnavailable, assetType, ticker, err)
	}

	s.quotes.Set(cacheKey, q, cache.DefaultExpiration)
	return q, nil
}

func (s *priceServiceImpl) initializeYahooSession(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isInitialized && s.crumb != "" {
		return
	}

	logger.FromContext(ctx).Info("Initializing Yahoo Finance session and fetching crumb...")
	for _, sessionURL := range s.cfg.SessionURLs {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, sessionURL, nil)
		if err != nil {
			continue
		}
		req.Header.Set("User-Agent", userAgent)
		if resp, err := s.httpClient.Do(req); err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.YahooBaseURL+"/v1/test/getcrumb", nil)
	if err != nil {
		return
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		logger.FromContext(ctx).Warn("Failed to fetch crumb", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		s.crumb = strings.TrimSpace(string(bodyBytes))
		s.isInitialized = s.crumb != ""
		logger.FromContext(ctx).Info("Yahoo session initialized", "hasCrumb", s.isInitialized)
	} else {
		logger.FromContext(ctx).Warn("Failed to fetch crumb", "status", resp.Status)
	}
}

func (s *priceServiceImpl) ensureSession(ctx context.Context) string {
	s.mu.Lock()
	needsInit := !s.isInitialized || s.crumb == ""
	s.mu.Unlock()

	if needsInit {
		s.initializeYahooSession(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.crumb
}

func (s *priceServiceImpl) invalidateSession() {
	s.mu.Lock()
	s.isInitialized = false
	s.crumb = ""
	s.mu.Unlock()
}

func (s *priceServiceImpl) getStockPrice(ctx context.Context, ticker string) (models.Quote, error) {
	crumb := s.ensureSession(ctx)
	quoteURL := fmt.Sprintf("%s/v8/finance/chart/%s?crumb=%s", s.cfg.YahooBaseURL, url.PathEscape(ticker), url.QueryEscape(crumb))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, quoteURL, nil)
	if err != nil {
		return models.Quote{}, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return models.Quote{}, fmt.Errorf("failed to call Yahoo chart API: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		s.invalidateSession()
		return models.Quote{}, fmt.Errorf("status 401 (Unauthorized) - crumb invalid")
	}
	if resp.StatusCode != http.StatusOK {
		return models.Quote{}, fmt.Errorf("yahoo chart API returned non-OK status %d", resp.StatusCode)
	}
	var chartData yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chartData); err != nil {
		return models.Quote{}, fmt.Errorf("failed to decode Yahoo chart response: %w", err)
	}
	if chartData.Chart.Error != nil {
		return models.Quote{}, fmt.Errorf("yahoo chart API returned an error: %v", chartData.Chart.Error)
	}
	if len(chartData.Chart.Result) == 0 || chartData.Chart.Result[0].Meta.RegularMarketPrice <= 0 {
		return models.Quote{}, fmt.Errorf("no price data found")
	}
	meta := chartData.Chart.Result[0].Meta
	price := meta.RegularMarketPrice
	if major, ok := minorUnitCurrencies[meta.Currency]; ok {
		return models.Quote{Price: price / 100, Currency: major}, nil
	}
	currency := strings.ToUpper(meta.Currency)
	if currency == "" {
		currency = models.DefaultPurchaseCurrency
	}
	return models.Quote{Price: price, Currency: currency}, nil
}

func (s *priceServiceImpl) getCryptoPrice(ctx context.Context, coinID string) (models.Quote, error) {
	priceURL := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", s.cfg.CoinGeckoBaseURL, url.QueryEscape(coinID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, priceURL, nil)
	if err != nil {
		return models.Quote{}, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return models.Quote{}, fmt.Errorf("failed to call CoinGecko API: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.Quote{}, fmt.Errorf("coingecko API returned non-OK status %d", resp.StatusCode)
	}

	var data coinGeckoSimplePrice
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return models.Quote{}, fmt.Errorf("failed to decode CoinGecko response: %w", err)
	}
	price, ok := data[coinID]["usd"]
	if !ok || price <= 0 {
		return models.Quote{}, fmt.Errorf("no USD price for %q", coinID)
	}
	return models.Quote{Price: price, Currency: "USD"}, nil
}
