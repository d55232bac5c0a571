package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dividend represents a dividend payment received for a product.
type Dividend struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Expense represents a cost attached to a product (brokerage fees, custody, taxes).
type Expense struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// RealizedProfitLoss represents a gain or loss locked in by a sale.
// TransactionID is set when the record was realized from a SELL transaction and is empty for
// manually entered records.
type RealizedProfitLoss struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"productId"`
	TransactionID string          `json:"transactionId,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
