package alphavantage

// --- Alpha Vantage API response types ---
//
// Alpha Vantage keys every field with a numbered label ("05. price") and
// encodes all numbers as strings. Failures arrive as HTTP 200 with one of the
// signal fields set instead of data.

// signals are the out-of-band messages Alpha Vantage puts in a 200 response.
type signals struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}

// avGlobalQuoteResponse is the GLOBAL_QUOTE payload.
type avGlobalQuoteResponse struct {
	signals
	GlobalQuote avGlobalQuote `json:"Global Quote"`
}

type avGlobalQuote struct {
	Symbol           string `json:"01. symbol"`
	Open             string `json:"02. open"`
	High             string `json:"03. high"`
	Low              string `json:"04. low"`
	Price            string `json:"05. price"`
	Volume           string `json:"06. volume"`
	LatestTradingDay string `json:"07. latest trading day"`
	PreviousClose    string `json:"08. previous close"`
	Change           string `json:"09. change"`
	ChangePercent    string `json:"10. change percent"`
}

// avSearchResponse is the SYMBOL_SEARCH payload.
type avSearchResponse struct {
	signals
	BestMatches []avSearchMatch `json:"bestMatches"`
}

type avSearchMatch struct {
	Symbol      string `json:"1. symbol"`
	Name        string `json:"2. name"`
	Type        string `json:"3. type"`
	Region      string `json:"4. region"`
	MarketOpen  string `json:"5. marketOpen"`
	MarketClose string `json:"6. marketClose"`
	Timezone    string `json:"7. timezone"`
	Currency    string `json:"8. currency"`
	MatchScore  string `json:"9. matchScore"`
}

// avDailyResponse is the TIME_SERIES_DAILY payload.
type avDailyResponse struct {
	signals
	MetaData   map[string]string     `json:"Meta Data"`
	TimeSeries map[string]avDailyBar `json:"Time Series (Daily)"`
}

type avDailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}
