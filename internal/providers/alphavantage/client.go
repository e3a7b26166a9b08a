package alphavantage

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/seenimoa/stockdash/internal/provider"
	"github.com/seenimoa/stockdash/pkg/models"
)

// Quote fetches GLOBAL_QUOTE for symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	var resp avGlobalQuoteResponse
	if err := c.fetch(ctx, provider.OpQuote, map[string]string{
		"function": fnGlobalQuote,
		"symbol":   symbol,
	}, &resp); err != nil {
		return nil, err
	}
	if resp.GlobalQuote.Symbol == "" {
		return nil, provider.NotFound(providerName, "no quote for %s", symbol)
	}

	q, err := resp.GlobalQuote.normalize()
	if err != nil {
		return nil, provider.Upstream(providerName, http.StatusOK, err, "unusable quote for %s", symbol)
	}
	return q, nil
}

// SearchSymbols runs SYMBOL_SEARCH and keeps the provider's ordering.
func (c *Client) SearchSymbols(ctx context.Context, keywords string) ([]models.SymbolMatch, error) {
	var resp avSearchResponse
	if err := c.fetch(ctx, provider.OpSearch, map[string]string{
		"function": fnSymbolSearch,
		"keywords": keywords,
	}, &resp); err != nil {
		// Search has no "unknown symbol"; an error message here is a bad request.
		var pe *provider.Error
		if errors.As(err, &pe) && pe.Kind == provider.KindNotFound {
			return nil, provider.Upstream(providerName, http.StatusOK, err, "search rejected")
		}
		return nil, err
	}

	limit := c.SearchLimit()
	out := make([]models.SymbolMatch, 0, min(len(resp.BestMatches), limit))
	for _, m := range resp.BestMatches {
		if len(out) == limit {
			break
		}
		score, err := provider.ParseNumber(m.MatchScore)
		if err != nil {
			return nil, provider.Upstream(providerName, http.StatusOK, err, "unusable search match %q", m.Symbol)
		}
		out = append(out, models.SymbolMatch{
			Symbol:     m.Symbol,
			Name:       m.Name,
			Type:       m.Type,
			Region:     m.Region,
			Currency:   m.Currency,
			MatchScore: score,
		})
	}
	return out, nil
}

// DailyHistory fetches TIME_SERIES_DAILY (compact, ~100 bars) and returns
// the most recent window bars.
func (c *Client) DailyHistory(ctx context.Context, symbol string, window int) ([]models.HistoricalBar, error) {
	if window <= 0 {
		window = provider.DefaultHistoryWindow
	}

	var resp avDailyResponse
	if err := c.fetch(ctx, provider.OpHistorical, map[string]string{
		"function":   fnDaily,
		"symbol":     symbol,
		"outputsize": "compact",
	}, &resp); err != nil {
		return nil, err
	}
	if len(resp.TimeSeries) == 0 {
		return nil, provider.NotFound(providerName, "no daily history for %s", symbol)
	}

	bars := make([]models.HistoricalBar, 0, len(resp.TimeSeries))
	for day, raw := range resp.TimeSeries {
		bar, err := raw.normalize(day)
		if err != nil {
			return nil, provider.Upstream(providerName, http.StatusOK, err, "unusable daily bar for %s", symbol)
		}
		bars = append(bars, bar)
	}
	return provider.RecentFirst(bars, window), nil
}

// fetch issues one /query call, decodes it and checks the signal fields.
func (c *Client) fetch(ctx context.Context, op provider.Operation, query map[string]string, dest interface{ check() error }) error {
	body, err := c.Get(ctx, op, queryPath, query)
	if err != nil {
		return err
	}
	if err := c.Decode(op, body, dest); err != nil {
		return err
	}
	if err := dest.check(); err != nil {
		c.Logger().Warn().Err(err).Str("op", string(op)).Msg("provider signalled failure")
		return err
	}
	return nil
}

func (q avGlobalQuote) normalize() (*models.Quote, error) {
	day, err := models.ParseDate(q.LatestTradingDay)
	if err != nil {
		return nil, err
	}
	out := &models.Quote{Symbol: q.Symbol, LatestTradingDay: day}
	// A blank price is missing data, not zero.
	if out.Price, err = provider.ParseRequiredNumber(q.Price); err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}

	fields := []struct {
		raw string
		dst *float64
	}{
		{q.Change, &out.Change},
		{q.ChangePercent, &out.ChangePercent},
		{q.Open, &out.Open},
		{q.High, &out.High},
		{q.Low, &out.Low},
		{q.PreviousClose, &out.PreviousClose},
	}
	for _, f := range fields {
		if *f.dst, err = provider.ParseNumber(f.raw); err != nil {
			return nil, err
		}
	}
	if out.Volume, err = provider.ParseVolume(q.Volume); err != nil {
		return nil, err
	}
	if err := provider.CheckQuote(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b avDailyBar) normalize(day string) (models.HistoricalBar, error) {
	date, err := models.ParseDate(day)
	if err != nil {
		return models.HistoricalBar{}, err
	}
	bar := models.HistoricalBar{Date: date}
	for _, f := range []struct {
		raw string
		dst *float64
	}{
		{b.Open, &bar.Open},
		{b.High, &bar.High},
		{b.Low, &bar.Low},
		{b.Close, &bar.Close},
	} {
		if *f.dst, err = provider.ParseNumber(f.raw); err != nil {
			return models.HistoricalBar{}, fmt.Errorf("%s: %w", day, err)
		}
	}
	if bar.Volume, err = provider.ParseVolume(b.Volume); err != nil {
		return models.HistoricalBar{}, fmt.Errorf("%s: %w", day, err)
	}
	return bar, provider.CheckBar(bar)
}
