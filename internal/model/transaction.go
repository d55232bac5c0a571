package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is either a buy or a sell.
type TransactionType string

const (
	TransactionBuy  TransactionType = "BUY"
	TransactionSell TransactionType = "SELL"
)

// Valid reports whether t is BUY or SELL.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionBuy, TransactionSell:
		return true
	default:
		return false
	}
}

// Transaction represents a buy or sell of a product.
// Used internally for position replay and returned by the transaction endpoints.
type Transaction struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Type      TransactionType `json:"type"`
	Date      time.Time       `json:"date"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Total returns quantity times price.
func (t Transaction) Total() decimal.Decimal {
	return t.Quantity.Mul(t.Price)
}

// TransactionProduct is the product summary embedded in transaction listings.
type TransactionProduct struct {
	ID       string          `json:"id"`
	Ticker   string          `json:"ticker"`
	Name     string          `json:"name"`
	Category ProductCategory `json:"type"`
}

// TransactionResponse represents a transaction with enriched product data for API responses.
type TransactionResponse struct {
	Transaction
	Product TransactionProduct `json:"product"`
}

// TransactionFilter narrows a transaction listing. Zero values mean "no restriction".
type TransactionFilter struct {
	ProductID  string
	Types      []TransactionType
	Categories []ProductCategory
	StartDate  *time.Time
	EndDate    *time.Time
	SortDir    string
}
