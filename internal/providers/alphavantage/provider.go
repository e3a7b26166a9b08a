// Package alphavantage implements the Alpha Vantage market data provider.
// Alpha Vantage serves quotes, symbol search and daily bars from a single
// /query endpoint selected by the "function" parameter.
//
// Free tier: 5 requests/minute, 25 requests/day.
// Docs: https://www.alphavantage.co/documentation/
package alphavantage

import (
	"strings"

	"github.com/seenimoa/stockdash/internal/provider"
)

const (
	providerName = "alphavantage"
	baseURL      = "https://www.alphavantage.co"
	queryPath    = "/query"
)

// Alpha Vantage function names.
const (
	fnGlobalQuote  = "GLOBAL_QUOTE"
	fnSymbolSearch = "SYMBOL_SEARCH"
	fnDaily        = "TIME_SERIES_DAILY"
)

// Info describes the provider for the registry.
var Info = provider.Info{
	Name:           providerName,
	Description:    "Alpha Vantage - real-time and historical stock market data",
	Website:        "https://www.alphavantage.co",
	KeyEnv:         "ALPHAVANTAGE_API_KEY",
	RateLimit:      "5 requests/minute, 25 requests/day",
	DefaultBaseURL: baseURL,
	KeyParam:       "apikey",
}

// Client implements provider.Client for Alpha Vantage.
type Client struct {
	provider.BaseClient
}

// New is the provider.Factory for Alpha Vantage.
func New(apiKey string, opts provider.Options) (provider.Client, error) {
	if apiKey == "" {
		return nil, provider.KeyRequired()
	}
	return &Client{BaseClient: provider.NewBaseClient(Info, apiKey, opts)}, nil
}

// check turns the signal fields of a 200 response into an error.
func (s signals) check() error {
	switch {
	case s.Note != "":
		if isRateLimitText(s.Note) {
			return provider.RateLimited(providerName, s.Note)
		}
		return provider.Upstream(providerName, 200, nil, "%s", s.Note)
	case s.Information != "":
		if isRateLimitText(s.Information) {
			return provider.RateLimited(providerName, s.Information)
		}
		return provider.Upstream(providerName, 200, nil, "%s", s.Information)
	case s.ErrorMessage != "":
		// A bad key is reported the same way as an unknown symbol.
		if strings.Contains(strings.ToLower(s.ErrorMessage), "apikey") {
			return provider.Upstream(providerName, 200, nil, "API key rejected: %s", s.ErrorMessage)
		}
		return provider.NotFound(providerName, "%s", s.ErrorMessage)
	}
	return nil
}

func isRateLimitText(s string) bool {
	s = strings.ToLower(s)
	for _, marker := range []string{"rate limit", "call frequency", "requests per"} {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
