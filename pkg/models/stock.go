// Package models defines the normalized data structures served by stockdash.
// Provider-specific field names never reach these types.
package models

// Quote represents a point-in-time price snapshot for a ticker symbol.
type Quote struct {
	Symbol           string  `json:"symbol"`             // e.g., "AAPL"
	Price            float64 `json:"price"`              // last traded price
	Change           float64 `json:"change"`             // absolute change vs previous close
	ChangePercent    float64 `json:"change_percent"`     // e.g., 1.25 for +1.25%
	Open             float64 `json:"open"`
	High             float64 `json:"high"`
	Low              float64 `json:"low"`
	PreviousClose    float64 `json:"previous_close"`
	Volume           int64   `json:"volume"`
	LatestTradingDay Date    `json:"latest_trading_day"` // YYYY-MM-DD
}

// SymbolMatch is a single row of a keyword search.
type SymbolMatch struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Type       string  `json:"type,omitempty"` // e.g., "Equity", "ETF"
	Region     string  `json:"region"`         // e.g., "United States"
	Currency   string  `json:"currency"`
	MatchScore float64 `json:"match_score,omitempty"`
}

// HistoricalBar represents one trading day of price data.
type HistoricalBar struct {
	Date   Date    `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// PriceFields returns the fields of q that must be non-negative.
func (q *Quote) PriceFields() map[string]float64 {
	return map[string]float64{
		"price":          q.Price,
		"open":           q.Open,
		"high":           q.High,
		"low":            q.Low,
		"previous_close": q.PreviousClose,
	}
}
