// Package provider defines the market-data client contract shared by all
// upstream integrations, the error taxonomy they report, and a registry that
// builds a client for a named provider and a caller-supplied API key.
package provider

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/seenimoa/stockdash/pkg/models"
)

//go:generate mockgen -source=provider.go -destination=../../api/mock_client_test.go -package=api

// Client fetches normalized market data from one upstream provider.
//
// Every method performs exactly one outbound HTTP request (or none, when the
// call is rejected locally) and never retries. Failures are *Error values.
type Client interface {
	// Name returns the registry name of the provider, e.g. "alphavantage".
	Name() string

	// Quote returns the latest quote for a normalized symbol.
	// An unknown symbol yields a NotFound error, never a zero Quote.
	Quote(ctx context.Context, symbol string) (*models.Quote, error)

	// SearchSymbols returns matches in provider relevance order, truncated to
	// the configured display count. No matches is an empty slice, not an error.
	SearchSymbols(ctx context.Context, keywords string) ([]models.SymbolMatch, error)

	// DailyHistory returns at most window daily bars, most recent first.
	DailyHistory(ctx context.Context, symbol string, window int) ([]models.HistoricalBar, error)
}

// Info holds metadata about a registered provider.
type Info struct {
	Name           string `json:"name"`        // e.g., "alphavantage", "fmp"
	Description    string `json:"description"` // human-readable description
	Website        string `json:"website"`
	KeyEnv         string `json:"key_env"`   // env var for a default key, e.g., "ALPHAVANTAGE_API_KEY"
	RateLimit      string `json:"rate_limit"` // published free-tier quota
	DefaultBaseURL string `json:"-"`
	KeyParam       string `json:"-"` // query parameter carrying the key
}

// Options tunes a client built by a Factory.
type Options struct {
	BaseURL     string        // overrides Info.DefaultBaseURL
	Timeout     time.Duration // per-request HTTP timeout
	SearchLimit int           // max SymbolMatch rows returned
	UserAgent   string
	HTTPClient  *http.Client // optional transport, e.g., for tests
	Quota       *QuotaGuard  // optional local quota guard
	Logger      zerolog.Logger
}

// Window bounds for DailyHistory.
const (
	DefaultHistoryWindow = 15
	MaxHistoryWindow     = 100
)

const (
	defaultTimeout     = 10 * time.Second
	defaultSearchLimit = 10
	defaultUserAgent   = "stockdash/1.0"
)

// withDefaults fills zero-valued options.
func (o Options) withDefaults(info Info) Options {
	if o.BaseURL == "" {
		o.BaseURL = info.DefaultBaseURL
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.SearchLimit <= 0 {
		o.SearchLimit = defaultSearchLimit
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	return o
}

// Factory builds a Client for one API key.
type Factory func(apiKey string, opts Options) (Client, error)
