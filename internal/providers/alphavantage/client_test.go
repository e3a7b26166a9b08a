package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/stockdash/internal/provider"
)

const quoteAAPL = `{
  "Global Quote": {
    "01. symbol": "AAPL",
    "02. open": "191.2000",
    "03. high": "194.0000",
    "04. low": "190.5000",
    "05. price": "193.6000",
    "06. volume": "51234567",
    "07. latest trading day": "2024-05-31",
    "08. previous close": "191.2000",
    "09. change": "2.4000",
    "10. change percent": "1.2552%"
  }
}`

const searchApple = `{
  "bestMatches": [
    {"1. symbol": "AAPL", "2. name": "Apple Inc", "3. type": "Equity", "4. region": "United States",
     "5. marketOpen": "09:30", "6. marketClose": "16:00", "7. timezone": "UTC-04", "8. currency": "USD", "9. matchScore": "1.0000"},
    {"1. symbol": "APLE", "2. name": "Apple Hospitality REIT Inc", "3. type": "Equity", "4. region": "United States",
     "5. marketOpen": "09:30", "6. marketClose": "16:00", "7. timezone": "UTC-04", "8. currency": "USD", "9. matchScore": "0.6154"},
    {"1. symbol": "AAPL34.SAO", "2. name": "Apple Inc", "3. type": "Equity", "4. region": "Brazil/Sao Paolo",
     "5. marketOpen": "10:00", "6. marketClose": "17:30", "7. timezone": "UTC-03", "8. currency": "BRL", "9. matchScore": "0.5000"}
  ]
}`

const dailyAAPL = `{
  "Meta Data": {"1. Information": "Daily Prices", "2. Symbol": "AAPL"},
  "Time Series (Daily)": {
    "2024-05-29": {"1. open": "189.6100", "2. high": "192.2470", "3. low": "189.5100", "4. close": "190.2900", "5. volume": "53068016"},
    "2024-05-31": {"1. open": "191.4400", "2. high": "192.5700", "3. low": "189.9100", "4. close": "192.2500", "5. volume": "75158277"},
    "2024-05-30": {"1. open": "190.7600", "2. high": "192.1800", "3. low": "190.6300", "4. close": "191.2900", "5. volume": "49947941"}
  }
}`

// recorder keeps the URL of the last request served.
type recorder struct {
	mu  sync.Mutex
	url *url.URL
}

func (r *recorder) URL() *url.URL {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.url
}

// newTestClient serves body for every request and records the query.
func newTestClient(t *testing.T, status int, body string, opts provider.Options) (provider.Client, *int32, *recorder) {
	t.Helper()
	var hits int32
	last := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		last.mu.Lock()
		last.url = r.URL
		last.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	opts.BaseURL = srv.URL
	c, err := New("demo-key", opts)
	require.NoError(t, err)
	return c, &hits, last
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New("", provider.Options{})
	assert.Equal(t, provider.KindKeyRequired, provider.KindOf(err))
}

func TestQuote(t *testing.T) {
	c, hits, req := newTestClient(t, http.StatusOK, quoteAAPL, provider.Options{})

	q, err := c.Quote(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "/query", req.URL().Path)
	assert.Equal(t, "GLOBAL_QUOTE", req.URL().Query().Get("function"))
	assert.Equal(t, "AAPL", req.URL().Query().Get("symbol"))
	assert.Equal(t, "demo-key", req.URL().Query().Get("apikey"))
	assert.EqualValues(t, 1, atomic.LoadInt32(hits))

	assert.Equal(t, "AAPL", q.Symbol)
	assert.InDelta(t, 193.60, q.Price, 1e-9)
	assert.InDelta(t, 2.40, q.Change, 1e-9)
	assert.InDelta(t, 1.2552, q.ChangePercent, 1e-9)
	assert.InDelta(t, 191.20, q.PreviousClose, 1e-9)
	assert.EqualValues(t, 51234567, q.Volume)
	assert.Equal(t, "2024-05-31", q.LatestTradingDay.String())
}

func TestQuoteFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   provider.ErrorKind
	}{
		{"empty global quote", http.StatusOK, `{"Global Quote": {}}`, provider.KindNotFound},
		{"error message", http.StatusOK, `{"Error Message": "Invalid API call."}`, provider.KindNotFound},
		{"bad key", http.StatusOK, `{"Error Message": "the parameter apikey is invalid or missing."}`, provider.KindUpstream},
		{"note rate limit", http.StatusOK, `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`, provider.KindRateLimited},
		{"information rate limit", http.StatusOK, `{"Information": "We have detected your API key and our standard API rate limit is 25 requests per day."}`, provider.KindRateLimited},
		{"information other", http.StatusOK, `{"Information": "This is a premium endpoint."}`, provider.KindUpstream},
		{"http 429", http.StatusTooManyRequests, ``, provider.KindRateLimited},
		{"http 500", http.StatusInternalServerError, `oops`, provider.KindUpstream},
		{"malformed", http.StatusOK, `<html>`, provider.KindUpstream},
		{"negative price", http.StatusOK, `{"Global Quote": {"01. symbol": "X", "05. price": "-1.0", "07. latest trading day": "2024-05-31"}}`, provider.KindUpstream},
		{"empty price", http.StatusOK, `{"Global Quote": {"01. symbol": "X", "05. price": "", "07. latest trading day": "2024-05-31"}}`, provider.KindUpstream},
		{"none price", http.StatusOK, `{"Global Quote": {"01. symbol": "X", "05. price": "None", "07. latest trading day": "2024-05-31"}}`, provider.KindUpstream},
		{"bad trading day", http.StatusOK, `{"Global Quote": {"01. symbol": "X", "05. price": "1.0", "07. latest trading day": "yesterday"}}`, provider.KindUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, hits, _ := newTestClient(t, tt.status, tt.body, provider.Options{})

			q, err := c.Quote(context.Background(), "ZZZZ")
			assert.Nil(t, q)
			assert.Equal(t, tt.want, provider.KindOf(err))
			assert.EqualValues(t, 1, atomic.LoadInt32(hits))
		})
	}
}

func TestSearchSymbols(t *testing.T) {
	c, _, req := newTestClient(t, http.StatusOK, searchApple, provider.Options{SearchLimit: 2})

	matches, err := c.SearchSymbols(context.Background(), "Apple")
	require.NoError(t, err)
	assert.Equal(t, "SYMBOL_SEARCH", req.URL().Query().Get("function"))
	assert.Equal(t, "Apple", req.URL().Query().Get("keywords"))

	require.Len(t, matches, 2)
	assert.Equal(t, "AAPL", matches[0].Symbol)
	assert.Equal(t, "Apple Inc", matches[0].Name)
	assert.Equal(t, "United States", matches[0].Region)
	assert.Equal(t, "USD", matches[0].Currency)
	assert.Equal(t, "Equity", matches[0].Type)
	assert.InDelta(t, 1.0, matches[0].MatchScore, 1e-9)
	assert.Equal(t, "APLE", matches[1].Symbol)
}

func TestSearchSymbolsEmpty(t *testing.T) {
	c, _, _ := newTestClient(t, http.StatusOK, `{"bestMatches": []}`, provider.Options{})

	matches, err := c.SearchSymbols(context.Background(), "qqqqzzzz")
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestSearchSymbolsRateLimited(t *testing.T) {
	c, _, _ := newTestClient(t, http.StatusOK, `{"Note": "API call frequency exceeded"}`, provider.Options{})

	_, err := c.SearchSymbols(context.Background(), "Apple")
	assert.Equal(t, provider.KindRateLimited, provider.KindOf(err))
}

func TestDailyHistory(t *testing.T) {
	c, _, req := newTestClient(t, http.StatusOK, dailyAAPL, provider.Options{})

	bars, err := c.DailyHistory(context.Background(), "AAPL", 2)
	require.NoError(t, err)
	assert.Equal(t, "TIME_SERIES_DAILY", req.URL().Query().Get("function"))
	assert.Equal(t, "compact", req.URL().Query().Get("outputsize"))

	require.Len(t, bars, 2)
	assert.Equal(t, "2024-05-31", bars[0].Date.String())
	assert.InDelta(t, 192.25, bars[0].Close, 1e-9)
	assert.EqualValues(t, 75158277, bars[0].Volume)
	assert.Equal(t, "2024-05-30", bars[1].Date.String())
}

func TestDailyHistoryDefaultWindow(t *testing.T) {
	c, _, _ := newTestClient(t, http.StatusOK, dailyAAPL, provider.Options{})

	bars, err := c.DailyHistory(context.Background(), "AAPL", 0)
	require.NoError(t, err)
	assert.Len(t, bars, 3)
}

func TestDailyHistoryFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
		want provider.ErrorKind
	}{
		{"unknown symbol", `{"Error Message": "Invalid API call. Please retry or visit the documentation."}`, provider.KindNotFound},
		{"empty series", `{"Meta Data": {}, "Time Series (Daily)": {}}`, provider.KindNotFound},
		{"bad date", `{"Time Series (Daily)": {"31/05/2024": {"1. open": "1", "2. high": "1", "3. low": "1", "4. close": "1", "5. volume": "1"}}}`, provider.KindUpstream},
		{"bad number", `{"Time Series (Daily)": {"2024-05-31": {"1. open": "x", "2. high": "1", "3. low": "1", "4. close": "1", "5. volume": "1"}}}`, provider.KindUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestClient(t, http.StatusOK, tt.body, provider.Options{})
			_, err := c.DailyHistory(context.Background(), "ZZZZ", 15)
			assert.Equal(t, tt.want, provider.KindOf(err))
		})
	}
}

func TestRegistryIntegration(t *testing.T) {
	reg := provider.NewRegistry()
	require.NoError(t, reg.Register(Info, New))

	_, err := reg.New(providerName, "", provider.Options{})
	assert.Equal(t, provider.KindKeyRequired, provider.KindOf(err))

	c, err := reg.New(providerName, "k", provider.Options{})
	require.NoError(t, err)
	assert.Equal(t, providerName, c.Name())
}
