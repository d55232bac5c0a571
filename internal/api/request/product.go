package request

import "github.com/shopspring/decimal"

// CreateProductRequest represents the request body for creating a product.
// Quantity and Price together describe an optional opening position, recorded as a BUY dated
// Date (today when empty).
type CreateProductRequest struct {
	Ticker   string           `json:"ticker"`
	Name     string           `json:"name"`
	Type     string           `json:"type"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Date     string           `json:"date,omitempty"`
}

// UpdateProductRequest represents the request body for editing a product.
// Quantity and average price are derived from transactions and cannot be set here.
type UpdateProductRequest struct {
	Ticker *string          `json:"ticker,omitempty"`
	Name   *string          `json:"name,omitempty"`
	Type   *string          `json:"type,omitempty"`
	Price  *decimal.Decimal `json:"price,omitempty"`
}
