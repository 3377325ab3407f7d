package validator

import (
	"regexp"
	"strings"
)

const defaultScheme = "https://"

// shortCodeRegex accepts anything a generated or legacy code could contain
var shortCodeRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// IsBlank reports whether the raw form value carries no URL at all
func IsBlank(rawURL string) bool {
	return strings.TrimSpace(rawURL) == ""
}

// NormalizeURL prefixes https:// when the value has no http:// or https:// scheme.
// Nothing else is checked or rewritten; malformed URLs pass through.
func NormalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)

	if HasHTTPScheme(rawURL) {
		return rawURL
	}
	return defaultScheme + rawURL
}

// HasHTTPScheme reports whether the URL already starts with http:// or https://
func HasHTTPScheme(rawURL string) bool {
	return strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://")
}

// ValidateShortCode checks if a path segment can be a short code at all.
// Anything failing it cannot be stored, so lookups can skip the store.
func ValidateShortCode(code string) bool {
	if len(code) == 0 || len(code) > 64 {
		return false
	}
	return shortCodeRegex.MatchString(code)
}
