package request

import "github.com/shopspring/decimal"

// CreateDividendRequest represents the request body for recording a dividend payment.
type CreateDividendRequest struct {
	ProductID string          `json:"productId"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
}

// CreateExpenseRequest represents the request body for recording an expense.
type CreateExpenseRequest struct {
	ProductID   string          `json:"productId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

// CreateRealizedProfitLossRequest represents the request body for a manually entered realized
// profit or loss. Amount may be negative.
type CreateRealizedProfitLossRequest struct {
	ProductID string          `json:"productId"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
}
