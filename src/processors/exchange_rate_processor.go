package processors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Debmalya727/personal-finance-tracker/src/logger"
	"github.com/Debmalya727/personal-finance-tracker/src/models"
	"github.com/patrickmn/go-cache"
)

// ecbLookbackDays bounds the walk back over weekends and holidays.
const ecbLookbackDays = 7

// ExchangeRateProcessor reads daily euro reference rates from the ECB data API
// and derives cross rates between any two published currencies.
type ExchangeRateProcessor struct {
	client  *http.Client
	baseURL string
	cache   *cache.Cache
}

func NewExchangeRateProcessor(client *http.Client, baseURL string) *ExchangeRateProcessor {
	if client == nil {
		client = http.DefaultClient
	}
	return &ExchangeRateProcessor{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   cache.New(24*time.Hour, 48*time.Hour),
	}
}

// CrossRate returns how many units of quote one unit of base buys on date,
// e.g. CrossRate(ctx, "USD", "INR", today) is about 83.
func (p *ExchangeRateProcessor) CrossRate(ctx context.Context, base, quote string, date time.Time) (float64, error) {
	base, quote = strings.ToUpper(base), strings.ToUpper(quote)
	if base == quote {
		return 1.0, nil
	}
	perEURBase, err := p.EURRate(ctx, base, date)
	if err != nil {
		return 0, err
	}
	perEURQuote, err := p.EURRate(ctx, quote, date)
	if err != nil {
		return 0, err
	}
	return perEURQuote / perEURBase, nil
}

// EURRate retrieves the units of currency per euro for date from the ECB API.
// Results are cached and, when no rate is published for date, the previous
// days are tried.
func (p *ExchangeRateProcessor) EURRate(ctx context.Context, currency string, date time.Time) (float64, error) {
	currency = strings.ToUpper(currency)
	if currency == "EUR" {
		return 1.0, nil
	}

	cacheKey := fmt.Sprintf("rate-%s-%s", currency, date.Format(models.DateLayout))
	if rate, found := p.cache.Get(cacheKey); found {
		return rate.(float64), nil
	}

	for i := 0; i < ecbLookbackDays; i++ {
		dateStr := date.AddDate(0, 0, -i).Format(models.DateLayout)
		rate, found, err := p.fetchDay(ctx, currency, dateStr)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			logger.FromContext(ctx).Warn("ECB rate lookup failed", "currency", currency, "date", dateStr, "error", err)
			continue
		}
		if !found {
			logger.FromContext(ctx).Debug("No exchange rate published for date, trying previous day", "currency", currency, "date", dateStr)
			continue
		}
		p.cache.Set(cacheKey, rate, cache.DefaultExpiration)
		return rate, nil
	}

	return 0, fmt.Errorf("exchange rate not found for %s on or before %s", currency, date.Format(models.DateLayout))
}

func (p *ExchangeRateProcessor) fetchDay(ctx context.Context, currency, dateStr string) (float64, bool, error) {
	// Series key D.{CURRENCY}.EUR.SP00.A is the daily reference rate against the euro.
	url := fmt.Sprintf("%s/D.%s.EUR.SP00.A?startPeriod=%s&endPeriod=%s&format=jsondata",
		p.baseURL, currency, dateStr, dateStr)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, false, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, false, err
	}
	defer resp.Body.Close()

	// 404 and 204 both mean nothing was published that day.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		return 0, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return 0, false, fmt.Errorf("ECB API returned status %s", resp.Status)
	}

	var ecbData models.ECBResponse
	if err := json.NewDecoder(resp.Body).Decode(&ecbData); err != nil {
		return 0, false, fmt.Errorf("decoding ECB response: %w", err)
	}
	rate, err := extractRateFromResponse(ecbData)
	if err != nil {
		return 0, false, err
	}
	return rate, true, nil
}

// extractRateFromResponse navigates the ECB JSON structure to find the rate.
func extractRateFromResponse(data models.ECBResponse) (float64, error) {
	if len(data.DataSets) == 0 {
		return 0, fmt.Errorf("no dataSets in response")
	}

	// The series key is "0:0:0:0:0"; iterate rather than hardcode it.
	for _, seriesData := range data.DataSets[0].Series {
		if observations, ok := seriesData.Observations["0"]; ok && len(observations) > 0 && observations[0] > 0 {
			return observations[0], nil
		}
	}

	return 0, fmt.Errorf("observation value not found in the expected structure")
}
