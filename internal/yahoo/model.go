package yahoo

import "time"

// Response is the raw JSON returned by the Yahoo Finance chart endpoint.
// Price arrays hold pointers because Yahoo returns null for days without trades.
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart wraps the chart results and the optional API error.
type Chart struct {
	Result []Result `json:"result"`
	Error  *Error   `json:"error"`
}

// Error is the error object Yahoo returns in place of results.
type Error struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Result is one symbol's chart data.
type Result struct {
	Meta       Meta       `json:"meta"`
	Timestamp  []int64    `json:"timestamp"`
	Indicators Indicators `json:"indicators"`
}

// Meta carries symbol metadata.
type Meta struct {
	Currency           string   `json:"currency"`
	Symbol             string   `json:"symbol"`
	ExchangeName       string   `json:"exchangeName"`
	LongName           string   `json:"longName"`
	Shortname          string   `json:"shortName"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
}

// Indicators holds the quote series.
type Indicators struct {
	Quote []Quote `json:"quote"`
}

// Quote is the OHLCV series for a result.
type Quote struct {
	Open   []*float64 `json:"open"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
}

// PricePoint is a single day's closing price after parsing.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceChart is a parsed chart: symbol metadata plus the days that carry a close price.
type PriceChart struct {
	Symbol   string
	Currency string
	Points   []PricePoint
}
