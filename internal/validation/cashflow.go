package validation

import (
	"strings"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/request"
)

const maxDescriptionLength = 255

// ValidateCreateDividend validates a dividend creation request.
// productId must be a UUID, amount positive and date in YYYY-MM-DD format.
func ValidateCreateDividend(req request.CreateDividendRequest) error {
	errors := make(map[string]string)

	if err := ValidateUUID(req.ProductID); err != nil {
		errors["productId"] = err.Error()
	}
	if !req.Amount.IsPositive() {
		errors["amount"] = "amount must be positive"
	}
	validateDate(errors, "date", req.Date)

	return result(errors)
}

// ValidateCreateExpense validates an expense creation request.
func ValidateCreateExpense(req request.CreateExpenseRequest) error {
	errors := make(map[string]string)

	if err := ValidateUUID(req.ProductID); err != nil {
		errors["productId"] = err.Error()
	}
	if !req.Amount.IsPositive() {
		errors["amount"] = "amount must be positive"
	}
	if len(strings.TrimSpace(req.Description)) > maxDescriptionLength {
		errors["description"] = "description must be at most 255 characters"
	}
	validateDate(errors, "date", req.Date)

	return result(errors)
}

// ValidateCreateRealizedProfitLoss validates a manually entered realized profit/loss.
// The amount is signed; a loss is negative. Zero is rejected.
func ValidateCreateRealizedProfitLoss(req request.CreateRealizedProfitLossRequest) error {
	errors := make(map[string]string)

	if err := ValidateUUID(req.ProductID); err != nil {
		errors["productId"] = err.Error()
	}
	if req.Amount.IsZero() {
		errors["amount"] = "amount cannot be zero"
	}
	validateDate(errors, "date", req.Date)

	return result(errors)
}
