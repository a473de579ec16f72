package yahoo

import "time"

// Response represents the raw JSON response structure from the Yahoo Finance chart API.
//
// The structure includes:
//   - Chart.Result: Array of result objects (typically contains one element)
//   - Chart.Result[].Meta: Symbol metadata and the latest market price
//   - Chart.Result[].Timestamp: Unix timestamps for each data point
//   - Chart.Result[].Indicators: Price data arrays
//   - Chart.Error: Optional error message from Yahoo API
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart wraps the results of a chart query.
type Chart struct {
	Result []Result `json:"result"`
	Error  *Error   `json:"error"`
}

// Error is the error object Yahoo returns in place of results.
type Error struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Result is one symbol's chart.
type Result struct {
	Meta       Meta       `json:"meta"`
	Timestamp  []int64    `json:"timestamp"`
	Indicators Indicators `json:"indicators"`
}

// Meta holds symbol metadata.
type Meta struct {
	Currency           string  `json:"currency"`
	Symbol             string  `json:"symbol"`
	ExchangeName       string  `json:"exchangeName"`
	LongName           string  `json:"longName"`
	ShortName          string  `json:"shortName"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
}

// Indicators holds the quote arrays. Close values are pointers because Yahoo sends
// null for days without trading.
type Indicators struct {
	Quote []Quote `json:"quote"`
}

// Quote is the per-day price series of a chart.
type Quote struct {
	Close []*float64 `json:"close"`
}

// DailyClose is one trading day's closing price.
type DailyClose struct {
	Date  time.Time
	Close float64
}

// PriceChart is the parsed form of a Response.
type PriceChart struct {
	Symbol             string
	Currency           string
	RegularMarketPrice float64
	Closes             []DailyClose
}
