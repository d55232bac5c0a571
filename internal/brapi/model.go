package brapi

import "github.com/shopspring/decimal"

// Response is the body returned by GET /api/quote/{ticker}.
// Only the fields the application reads are mapped.
type Response struct {
	Results     []Result `json:"results"`
	RequestedAt string   `json:"requestedAt"`
}

// Result is the quote of a single ticker.
type Result struct {
	Symbol                     string              `json:"symbol"`
	ShortName                  string              `json:"shortName"`
	LongName                   string              `json:"longName"`
	Currency                   string              `json:"currency"`
	RegularMarketPrice         decimal.NullDecimal `json:"regularMarketPrice"`
	RegularMarketChange        decimal.NullDecimal `json:"regularMarketChange"`
	RegularMarketChangePercent decimal.NullDecimal `json:"regularMarketChangePercent"`
}

// ErrorResponse is the body brapi sends with non-2xx statuses.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}
