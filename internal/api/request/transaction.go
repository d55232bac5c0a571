package request

import "github.com/shopspring/decimal"

// CreateTransactionRequest represents the request body for recording a buy or sell.
type CreateTransactionRequest struct {
	ProductID string          `json:"productId"`
	Type      string          `json:"type"`
	Date      string          `json:"date"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// UpdateTransactionRequest represents the request body for editing a transaction.
// Only provided fields are changed; the product of a transaction cannot be changed.
type UpdateTransactionRequest struct {
	Type     *string          `json:"type,omitempty"`
	Date     *string          `json:"date,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
}
