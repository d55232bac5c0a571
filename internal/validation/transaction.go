package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
)

// ValidateCreateTransaction validates a transaction creation request.
// Checks all required fields and validates their formats and constraints.
//
// Required fields:
//   - productId: Must be a valid UUID
//   - date: Must be in YYYY-MM-DD format
//   - type: Must be one of: BUY, SELL (case-insensitive)
//   - quantity: Must be positive
//   - price: Must be positive
//
// Whether a sell exceeds the held quantity is decided by the position replay, not here.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	if err := ValidateUUID(req.ProductID); err != nil {
		errors["productId"] = err.Error()
	}
	validateDate(errors, "date", req.Date)
	validateTransactionType(errors, req.Type)

	if !req.Quantity.IsPositive() {
		errors["quantity"] = "quantity must be positive"
	}
	if !req.Price.IsPositive() {
		errors["price"] = "price must be positive"
	}

	return result(errors)
}

// ValidateUpdateTransaction validates a transaction update request.
// All fields are optional, but if provided, they must meet the same constraints as create.
func ValidateUpdateTransaction(req request.UpdateTransactionRequest) error {
	errors := make(map[string]string)

	if req.Date != nil {
		validateDate(errors, "date", *req.Date)
	}
	if req.Type != nil {
		validateTransactionType(errors, *req.Type)
	}
	if req.Quantity != nil && !req.Quantity.IsPositive() {
		errors["quantity"] = "quantity must be positive"
	}
	if req.Price != nil && !req.Price.IsPositive() {
		errors["price"] = "price must be positive"
	}

	return result(errors)
}

func validateTransactionType(errors map[string]string, raw string) {
	if strings.TrimSpace(raw) == "" {
		errors["type"] = "type is required"
		return
	}
	if !model.TransactionType(strings.ToUpper(strings.TrimSpace(raw))).Valid() {
		errors["type"] = fmt.Sprintf("invalid type: %s", raw)
	}
}
