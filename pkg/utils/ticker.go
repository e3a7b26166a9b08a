package utils

import (
	"regexp"
	"strings"
)

const (
	// MinKeywordLength is the shortest search the front-end will issue.
	MinKeywordLength = 2
	// MaxKeywordLength bounds free-text search input.
	MaxKeywordLength = 64
	// MaxSymbolLength bounds ticker input.
	MaxSymbolLength = 20
)

// symbolPattern accepts exchange-suffixed (TSCO.LON, RELIANCE.BSE), class
// (BRK.B, BRK-B) and index (^GSPC) tickers.
var symbolPattern = regexp.MustCompile(`^\^?[A-Z0-9][A-Z0-9.\-=]*$`)

// NormalizeSymbol trims whitespace, strips a leading "$" and upper-cases.
// "$aapl " → "AAPL".
func NormalizeSymbol(symbol string) string {
	s := strings.TrimSpace(symbol)
	s = strings.TrimPrefix(s, "$")
	return strings.ToUpper(strings.TrimSpace(s))
}

// ValidSymbol reports whether an already normalized symbol is well formed.
func ValidSymbol(symbol string) bool {
	if symbol == "" || len(symbol) > MaxSymbolLength {
		return false
	}
	return symbolPattern.MatchString(symbol)
}

// NormalizeKeywords trims the input and collapses internal whitespace runs.
func NormalizeKeywords(keywords string) string {
	return strings.Join(strings.Fields(keywords), " ")
}

// ValidKeywords reports whether normalized keywords can be sent upstream.
// The minimum length is a front-end concern; only emptiness and size are
// rejected here.
func ValidKeywords(keywords string) bool {
	return keywords != "" && len(keywords) <= MaxKeywordLength
}
