package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a market price observation for a ticker.
type Quote struct {
	Ticker        string          `json:"ticker"`
	Name          string          `json:"name,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	FetchedAt     time.Time       `json:"fetchedAt"`
}

// QuoteResponse wraps a quote lookup. Available is false when the price feed had no data.
type QuoteResponse struct {
	Ticker    string `json:"ticker"`
	Available bool   `json:"available"`
	Quote     *Quote `json:"quote,omitempty"`
}
