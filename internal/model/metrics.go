package model

import "github.com/shopspring/decimal"

// PriceSource tells which price a valuation was computed with.
type PriceSource string

const (
	// PriceSourceLive means a quote was obtained from the price feed.
	PriceSourceLive PriceSource = "live"
	// PriceSourceLastKnown means the feed had no data and the stored price was used.
	PriceSourceLastKnown PriceSource = "last_known"
	// PriceSourceCost means no price was ever known and the position is valued at cost.
	PriceSourceCost PriceSource = "cost"
)

// ProductMetrics contains the derived performance figures of one product.
// All monetary values are rounded to two decimal places.
type ProductMetrics struct {
	ProductID           string           `json:"productId"`
	Ticker              string           `json:"ticker"`
	Name                string           `json:"name"`
	Category            ProductCategory  `json:"type"`
	Quantity            decimal.Decimal  `json:"quantity"`
	AveragePrice        decimal.Decimal  `json:"averagePrice"`
	Price               decimal.Decimal  `json:"price"`
	PriceSource         PriceSource      `json:"priceSource"`
	ChangePercent       *decimal.Decimal `json:"changePercent,omitempty"`
	CurrentValue        decimal.Decimal  `json:"currentValue"`
	CostBasis           decimal.Decimal  `json:"costBasis"`
	UnrealizedPL        decimal.Decimal  `json:"unrealizedPL"`
	UnrealizedPLPercent decimal.Decimal  `json:"unrealizedPLPercent"`
	Dividends           decimal.Decimal  `json:"dividends"`
	Expenses            decimal.Decimal  `json:"expenses"`
	RealizedPL          decimal.Decimal  `json:"realizedPL"`
	TotalReturn         decimal.Decimal  `json:"totalReturn"`
}

// CategoryAllocation is the market value held in one category.
type CategoryAllocation struct {
	Category ProductCategory `json:"type"`
	Label    string          `json:"label"`
	Value    decimal.Decimal `json:"value"`
	Percent  decimal.Decimal `json:"percent"`
}

// PortfolioSummary aggregates the metrics of all products of a user.
type PortfolioSummary struct {
	Products          []ProductMetrics     `json:"products"`
	TotalValue        decimal.Decimal      `json:"totalValue"`
	TotalCost         decimal.Decimal      `json:"totalCost"`
	TotalUnrealizedPL decimal.Decimal      `json:"totalUnrealizedPL"`
	TotalDividends    decimal.Decimal      `json:"totalDividends"`
	TotalExpenses     decimal.Decimal      `json:"totalExpenses"`
	TotalRealizedPL   decimal.Decimal      `json:"totalRealizedPL"`
	TotalReturn       decimal.Decimal      `json:"totalReturn"`
	Allocation        []CategoryAllocation `json:"allocation"`
	StaleQuotes       int                  `json:"staleQuotes"`
}
