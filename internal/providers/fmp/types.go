package fmp

// --- FMP API response types ---

// fmpQuote represents a real-time quote from FMP.
type fmpQuote struct {
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	ChangesPercentage float64 `json:"changesPercentage"`
	Change            float64 `json:"change"`
	DayLow            float64 `json:"dayLow"`
	DayHigh           float64 `json:"dayHigh"`
	YearHigh          float64 `json:"yearHigh"`
	YearLow           float64 `json:"yearLow"`
	Volume            float64 `json:"volume"`
	Exchange          string  `json:"exchange"`
	Open              float64 `json:"open"`
	PreviousClose     float64 `json:"previousClose"`
	Timestamp         int64   `json:"timestamp"`
}

// fmpHistoricalPrice wraps the daily bars of /historical-price-full.
// An unknown symbol comes back as an empty object.
type fmpHistoricalPrice struct {
	Symbol     string               `json:"symbol"`
	Historical []fmpHistoricalEntry `json:"historical"`
}

type fmpHistoricalEntry struct {
	Date     string  `json:"date"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	AdjClose float64 `json:"adjClose"`
	Volume   float64 `json:"volume"`
}

// fmpSearchResult represents a search result from FMP.
type fmpSearchResult struct {
	Symbol            string `json:"symbol"`
	Name              string `json:"name"`
	Currency          string `json:"currency"`
	StockExchange     string `json:"stockExchange"`
	ExchangeShortName string `json:"exchangeShortName"`
}

// fmpError is the body FMP sends instead of data on key or plan problems.
type fmpError struct {
	ErrorMessage string `json:"Error Message"`
}
