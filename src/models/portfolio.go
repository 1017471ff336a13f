package models

// Asset kinds.
const (
	AssetStock  = "Stock"
	AssetCrypto = "Crypto"
)

// Capital gain classifications.
const (
	GainShortTerm = "STCG"
	GainLongTerm  = "LTCG"
)

// Price status values reported alongside valuations.
const (
	PriceStatusOK          = "OK"
	PriceStatusUnavailable = "UNAVAILABLE"
)

// DefaultPurchaseCurrency is assumed when an investment is recorded without one.
const DefaultPurchaseCurrency = "INR"

// Investment is a single purchase lot of a stock or crypto asset.
// Each record carries exactly one cost basis (no FIFO/LIFO lot tracking).
type Investment struct {
	ID               int64   `json:"id,omitempty"`
	UserID           int64   `json:"-"`
	AssetType        string  `json:"asset_type"`    // "Stock" or "Crypto"
	TickerSymbol     string  `json:"ticker_symbol"` // Yahoo symbol for stocks, CoinGecko id for crypto
	Quantity         float64 `json:"quantity"`
	PurchasePrice    float64 `json:"purchase_price"` // Per unit, in PurchaseCurrency
	PurchaseCurrency string  `json:"purchase_currency"`
	PurchaseDate     Date    `json:"purchase_date"`
}

// SoldInvestment is an immutable record of a (partial) sale.
type SoldInvestment struct {
	ID            int64   `json:"id,omitempty"`
	UserID        int64   `json:"-"`
	AssetType     string  `json:"asset_type"`
	TickerSymbol  string  `json:"ticker_symbol"`
	Quantity      float64 `json:"quantity"`
	PurchasePrice float64 `json:"purchase_price"`
	PurchaseDate  Date    `json:"purchase_date"`
	SellPrice     float64 `json:"sell_price"`
	SellDate      Date    `json:"sell_date"`
	CapitalGain   float64 `json:"capital_gain"`
	GainType      string  `json:"gain_type"` // "STCG" or "LTCG"
	HoldingDays   int     `json:"holding_days"`
}

// SaleOutcome is the result of applying a sale to a holding.
type SaleOutcome struct {
	Sold              SoldInvestment `json:"sold"`
	RemainingQuantity float64        `json:"remaining_quantity"`
	HoldingRemoved    bool           `json:"holding_removed"`
}

// Quote is a spot price as reported by a price feed, in the feed's currency.
type Quote struct {
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

// HoldingWithValue represents a user's holding with its current market value.
type HoldingWithValue struct {
	Investment     Investment `json:"investment"`
	CurrentPrice   float64    `json:"current_price"` // In QuoteCurrency
	QuoteCurrency  string     `json:"quote_currency"`
	ValueReporting float64    `json:"value_reporting"` // Market value converted into the reporting currency
	ProfitLoss     float64    `json:"profit_loss"`     // In QuoteCurrency
	Status         string     `json:"status"`
}

// HoldingsReport is the refreshed market view of all holdings.
type HoldingsReport struct {
	Holdings           []HoldingWithValue `json:"holdings"`
	ReportingCurrency  string             `json:"reporting_currency"`
	ExchangeRate       float64            `json:"exchange_rate"` // USD -> reporting currency
	ExchangeRateSource string             `json:"exchange_rate_source"`
}

// NetWorthBreakdown splits assets by category.
type NetWorthBreakdown struct {
	Cash        float64 `json:"cash"`
	Schemes     float64 `json:"fixed_schemes"`
	Investments float64 `json:"investments"`
}

// LoanOutstanding is a single liability line.
type LoanOutstanding struct {
	LoanID      int64   `json:"loan_id"`
	Name        string  `json:"loan_name"`
	Outstanding float64 `json:"outstanding"`
}

// NetWorth is a point-in-time balance sheet.
type NetWorth struct {
	AsOf               Date              `json:"as_of"`
	Assets             float64           `json:"assets"`
	Liabilities        float64           `json:"liabilities"`
	NetWorth           float64           `json:"net_worth"`
	Breakdown          NetWorthBreakdown `json:"breakdown"`
	Loans              []LoanOutstanding `json:"loans"`
	ReportingCurrency  string            `json:"reporting_currency"`
	ExchangeRate       float64           `json:"exchange_rate"`
	ExchangeRateSource string            `json:"exchange_rate_source"`
	UnpricedHoldings   []string          `json:"unpriced_holdings,omitempty"` // Tickers whose price lookup failed
}
