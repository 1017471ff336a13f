// src/security/validation/content_scanner.go
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Debmalya727/personal-finance-tracker/src/logger"
)

// Common XSS vectors. Sanitizing on write is the primary defense; this check
// rejects obviously hostile input instead of silently storing a stripped version.
var xssPatternsRegex = regexp.MustCompile(
	`(?i)<script|onerror=|onmouseover=|onfocus=|onload=|javascript:|vbscript:|<iframe|<object|<embed|<applet|<style|<link|<img\s+src\s*=\s*['"]?\s*(javascript|data):`,
)

func truncateForLog(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}

// CheckXSSPatterns detects basic XSS patterns.
func CheckXSSPatterns(s, fieldName string) error {
	if xssPatternsRegex.MatchString(s) {
		errMsg := fmt.Sprintf("potential XSS pattern detected in field '%s'", fieldName)
		logger.L.Warn(errMsg, "contentPreview", truncateForLog(s, 50))
		return fmt.Errorf("%w: %s", ErrValidationFailed, errMsg)
	}
	return nil
}

// CleanText scans, sanitizes and length-checks a user supplied label such as a
// description or a name. It returns the sanitized value.
func CleanText(s string, maxLength int, fieldName string, required bool) (string, error) {
	if err := CheckXSSPatterns(s, fieldName); err != nil {
		return "", err
	}
	cleaned := SanitizeText(s)
	if required {
		if err := ValidateRequiredText(cleaned, maxLength, fieldName); err != nil {
			return "", err
		}
		return cleaned, nil
	}
	if err := ValidateStringMaxLength(strings.TrimSpace(cleaned), maxLength, fieldName); err != nil {
		return "", err
	}
	return cleaned, nil
}
