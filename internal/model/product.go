package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a single holding owned by a user.
// Quantity and AveragePrice are derived from the product's transaction history and must only be
// written by the position recomputation path. Dividend and Expenses hold the sums of the attached
// cash-flow records.
type Product struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	Ticker       string          `json:"ticker"`
	Name         string          `json:"name"`
	Category     ProductCategory `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
	Price        decimal.Decimal `json:"price"`
	Dividend     decimal.Decimal `json:"dividend"`
	Expenses     decimal.Decimal `json:"expenses"`
	Version      int64           `json:"-"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ProductDetail is a product together with every record attached to it.
// The record field names follow the shape the web client already consumes.
type ProductDetail struct {
	Product
	Transactions       []Transaction        `json:"Transaction"`
	Dividends          []Dividend           `json:"Dividend"`
	ExpenseRecords     []Expense            `json:"Expense"`
	RealizedProfitLoss []RealizedProfitLoss `json:"RealizedProfitLoss"`
}
