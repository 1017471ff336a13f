package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port         string
	DatabasePath string
	LogLevel     string

	// Security settings
	JWTSecret         string
	AccessTokenExpiry time.Duration
	AllowedOrigins    []string
	RateLimitRPS      float64
	RateLimitBurst    int

	// Valuation settings
	ReportingCurrency string
	FallbackUSDRate   float64 // USD -> ReportingCurrency when every live source fails

	// Price feed settings
	PriceFeedTimeout time.Duration
	YahooBaseURL     string
	CoinGeckoBaseURL string
	ECBBaseURL       string
}

// Cfg is a global instance of the AppConfig.
var Cfg = Defaults()

// Defaults returns the configuration used when no environment overrides are present.
// JWTSecret is intentionally empty; LoadConfig requires it.
func Defaults() *AppConfig {
	return &AppConfig{
		Port:              "8080",
		DatabasePath:      "./fintrack.db",
		LogLevel:          "info",
		AccessTokenExpiry: 60 * time.Minute,
		AllowedOrigins:    []string{"http://localhost:3000"},
		RateLimitRPS:      10,
		RateLimitBurst:    30,
		ReportingCurrency: "INR",
		FallbackUSDRate:   83.5,
		PriceFeedTimeout:  20 * time.Second,
		YahooBaseURL:      "https://query1.finance.yahoo.com",
		CoinGeckoBaseURL:  "https://api.coingecko.com/api/v3",
		ECBBaseURL:        "https://data-api.ecb.europa.eu/service/data/EXR",
	}
}

// LoadConfig loads configuration from environment variables or a .env file.
// It centralizes all configuration logic for the application.
func LoadConfig() {
	// 1. Try loading from the current directory (standard behavior)
	errEnv := godotenv.Load()

	// 2. If not found, try loading from the parent directory
	if errEnv != nil {
		errEnv = godotenv.Load("../.env")
	}

	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("Info: No .env file found in current or parent directory. Relying on OS environment variables.")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errEnv)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	def := Defaults()
	Cfg = &AppConfig{
		// Core
		Port:         getEnv("PORT", def.Port),
		DatabasePath: getEnv("DATABASE_PATH", def.DatabasePath),
		LogLevel:     getEnv("LOG_LEVEL", def.LogLevel),

		// Security
		JWTSecret:         getRequiredEnv("JWT_SECRET"),
		AccessTokenExpiry: getEnvAsDuration("ACCESS_TOKEN_EXPIRY", def.AccessTokenExpiry),
		AllowedOrigins:    getEnvAsList("ALLOWED_ORIGINS", def.AllowedOrigins),
		RateLimitRPS:      getEnvAsFloat("RATE_LIMIT_RPS", def.RateLimitRPS),
		RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", def.RateLimitBurst),

		// Valuation
		ReportingCurrency: strings.ToUpper(getEnv("REPORTING_CURRENCY", def.ReportingCurrency)),
		FallbackUSDRate:   getEnvAsFloat("FALLBACK_USD_RATE", def.FallbackUSDRate),

		// Price feed
		PriceFeedTimeout: getEnvAsDuration("PRICE_FEED_TIMEOUT", def.PriceFeedTimeout),
		YahooBaseURL:     getEnv("YAHOO_BASE_URL", def.YahooBaseURL),
		CoinGeckoBaseURL: getEnv("COINGECKO_BASE_URL", def.CoinGeckoBaseURL),
		ECBBaseURL:       getEnv("ECB_BASE_URL", def.ECBBaseURL),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, ReportingCurrency=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.ReportingCurrency)
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getRequiredEnv retrieves an environment variable or terminates the application if not set.
func getRequiredEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		log.Fatalf("FATAL: Required environment variable %s is not set or is empty. Application cannot start securely.", key)
	}
	return value
}

// getEnvAsInt retrieves an environment variable as an integer or returns a fallback.
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

// getEnvAsFloat retrieves an environment variable as a float64 or returns a fallback.
func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil && value > 0 {
		return value
	}
	log.Printf("Invalid positive number for %s ('%s'), using default: %g", key, valueStr, fallback)
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

// getEnvAsList parses a comma-separated list, dropping empty entries.
func getEnvAsList(key string, fallback []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
