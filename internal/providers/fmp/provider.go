// Package fmp implements the Financial Modeling Prep (FMP) data provider.
// FMP serves quotes, symbol search and daily bars via a REST API with API
// key authentication.
//
// Free tier: 250 requests/day.
// Docs: https://financialmodelingprep.com/developer/docs
package fmp

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/seenimoa/stockdash/internal/provider"
)

const (
	providerName = "fmp"
	baseURL      = "https://financialmodelingprep.com/api/v3"
)

// Info describes the provider for the registry.
var Info = provider.Info{
	Name:           providerName,
	Description:    "Financial Modeling Prep - quotes, search and daily prices",
	Website:        "https://financialmodelingprep.com",
	KeyEnv:         "FMP_API_KEY",
	RateLimit:      "250 requests/day",
	DefaultBaseURL: baseURL,
	KeyParam:       "apikey",
}

// Client implements provider.Client for FMP.
type Client struct {
	provider.BaseClient
}

// New is the provider.Factory for FMP.
func New(apiKey string, opts provider.Options) (provider.Client, error) {
	if apiKey == "" {
		return nil, provider.KeyRequired()
	}
	return &Client{BaseClient: provider.NewBaseClient(Info, apiKey, opts)}, nil
}

// checkErrorBody detects the {"Error Message": ...} object FMP returns with
// a 200 status when the daily limit is reached or the plan lacks an endpoint.
func checkErrorBody(body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var e fmpError
	if json.Unmarshal(trimmed, &e) != nil || e.ErrorMessage == "" {
		return nil
	}
	if strings.Contains(strings.ToLower(e.ErrorMessage), "limit reach") {
		return provider.RateLimited(providerName, e.ErrorMessage)
	}
	return provider.Upstream(providerName, http.StatusOK, nil, "%s", e.ErrorMessage)
}
