// src/security/validation/sanitizers.go
package validation

import (
	"strings"
	"unicode"

	"github.com/Debmalya727/personal-finance-tracker/src/models"
	"github.com/microcosm-cc/bluemonday"
)

var strictHTMLPolicy = bluemonday.StrictPolicy()

// SanitizeText removes all HTML tags and attributes from an input string,
// preventing XSS before saving to the database. Surrounding whitespace is trimmed.
func SanitizeText(s string) string {
	return strings.TrimSpace(strictHTMLPolicy.Sanitize(StripUnprintable(s)))
}

// StripUnprintable removes non-printable characters, allowing common whitespace
// like space, tab, newline, and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1 // Drop the rune
	}, s)
}

// NormalizeTicker applies the casing convention for each asset kind:
// exchange symbols are upper-case, CoinGecko ids are lower-case.
func NormalizeTicker(assetType, ticker string) string {
	ticker = SanitizeText(ticker)
	if assetType == models.AssetCrypto {
		return strings.ToLower(ticker)
	}
	return strings.ToUpper(ticker)
}
