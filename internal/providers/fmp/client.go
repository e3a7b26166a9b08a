package fmp

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/seenimoa/stockdash/internal/provider"
	"github.com/seenimoa/stockdash/pkg/models"
)

// Quote fetches /quote/{symbol}.
func (c *Client) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	var results []fmpQuote
	if err := c.fetch(ctx, provider.OpQuote, "/quote/"+url.PathEscape(symbol), nil, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, provider.NotFound(providerName, "no quote for %s", symbol)
	}

	r := results[0]
	day := time.Now().UTC()
	if r.Timestamp > 0 {
		day = time.Unix(r.Timestamp, 0).UTC()
	}
	q := &models.Quote{
		Symbol:           r.Symbol,
		Price:            provider.RoundFloat(r.Price),
		Change:           provider.RoundFloat(r.Change),
		ChangePercent:    provider.RoundFloat(r.ChangesPercentage),
		Open:             provider.RoundFloat(r.Open),
		High:             provider.RoundFloat(r.DayHigh),
		Low:              provider.RoundFloat(r.DayLow),
		PreviousClose:    provider.RoundFloat(r.PreviousClose),
		Volume:           int64(r.Volume),
		LatestTradingDay: models.NewDate(day),
	}
	if err := provider.CheckQuote(q); err != nil {
		return nil, provider.Upstream(providerName, http.StatusOK, err, "unusable quote for %s", symbol)
	}
	return q, nil
}

// SearchSymbols fetches /search. FMP has no match score or region, so the
// exchange short name stands in for the region.
func (c *Client) SearchSymbols(ctx context.Context, keywords string) ([]models.SymbolMatch, error) {
	limit := c.SearchLimit()
	var results []fmpSearchResult
	if err := c.fetch(ctx, provider.OpSearch, "/search", map[string]string{
		"query": keywords,
		"limit": strconv.Itoa(limit),
	}, &results); err != nil {
		return nil, err
	}

	out := make([]models.SymbolMatch, 0, min(len(results), limit))
	for _, r := range results {
		if len(out) == limit {
			break
		}
		out = append(out, models.SymbolMatch{
			Symbol:   r.Symbol,
			Name:     r.Name,
			Region:   r.ExchangeShortName,
			Currency: r.Currency,
		})
	}
	return out, nil
}

// DailyHistory fetches /historical-price-full/{symbol} limited to window bars.
func (c *Client) DailyHistory(ctx context.Context, symbol string, window int) ([]models.HistoricalBar, error) {
	if window <= 0 {
		window = provider.DefaultHistoryWindow
	}

	var resp fmpHistoricalPrice
	if err := c.fetch(ctx, provider.OpHistorical, "/historical-price-full/"+url.PathEscape(symbol), map[string]string{
		"timeseries": strconv.Itoa(window),
	}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Historical) == 0 {
		return nil, provider.NotFound(providerName, "no daily history for %s", symbol)
	}

	bars := make([]models.HistoricalBar, 0, len(resp.Historical))
	for _, h := range resp.Historical {
		d, err := models.ParseDate(h.Date)
		if err != nil {
			return nil, provider.Upstream(providerName, http.StatusOK, err, "unusable daily bar for %s", symbol)
		}
		bar := models.HistoricalBar{
			Date:   d,
			Open:   provider.RoundFloat(h.Open),
			High:   provider.RoundFloat(h.High),
			Low:    provider.RoundFloat(h.Low),
			Close:  provider.RoundFloat(h.Close),
			Volume: int64(h.Volume),
		}
		if err := provider.CheckBar(bar); err != nil {
			return nil, provider.Upstream(providerName, http.StatusOK, err, "unusable daily bar for %s", symbol)
		}
		bars = append(bars, bar)
	}
	return provider.RecentFirst(bars, window), nil
}

// fetch performs the GET, screens FMP's error object and decodes into dest.
func (c *Client) fetch(ctx context.Context, op provider.Operation, path string, query map[string]string, dest any) error {
	body, err := c.Get(ctx, op, path, query)
	if err != nil {
		return err
	}
	if err := checkErrorBody(body); err != nil {
		c.Logger().Warn().Err(err).Str("op", string(op)).Msg("provider signalled failure")
		return err
	}
	return c.Decode(op, body, dest)
}
