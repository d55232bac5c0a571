package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
)

const (
	maxTickerLength = 20
	maxNameLength   = 100
)

var tickerPattern = regexp.MustCompile(`^[A-Za-z0-9.\-^=]+$`)

// ValidateCreateProduct validates a product creation request.
//
// Required fields:
//   - ticker: 1-20 characters, letters, digits and . - ^ =
//   - name: 1-100 characters
//   - type: one of STOCK, FII, ETF, FUND, OTHER (case-insensitive)
//
// Optional fields:
//   - quantity and price: must be given together and be positive
//   - date: YYYY-MM-DD, only meaningful with an opening position
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateProduct(req request.CreateProductRequest) error {
	errors := make(map[string]string)

	validateTicker(errors, req.Ticker)
	validateName(errors, req.Name)
	validateCategory(errors, req.Type)

	switch {
	case req.Quantity == nil && req.Price == nil:
		if strings.TrimSpace(req.Date) != "" {
			errors["date"] = "date requires quantity and price"
		}
	case req.Quantity == nil:
		errors["quantity"] = "quantity is required when price is given"
	case req.Price == nil:
		errors["price"] = "price is required when quantity is given"
	default:
		if !req.Quantity.IsPositive() {
			errors["quantity"] = "quantity must be positive"
		}
		if !req.Price.IsPositive() {
			errors["price"] = "price must be positive"
		}
		if strings.TrimSpace(req.Date) != "" {
			validateDate(errors, "date", req.Date)
		}
	}

	return result(errors)
}

// ValidateUpdateProduct validates a product update request.
// All fields are optional, but if provided, they must meet the same constraints as create.
// A price of zero clears the last known market price.
func ValidateUpdateProduct(req request.UpdateProductRequest) error {
	errors := make(map[string]string)

	if req.Ticker != nil {
		validateTicker(errors, *req.Ticker)
	}
	if req.Name != nil {
		validateName(errors, *req.Name)
	}
	if req.Type != nil {
		validateCategory(errors, *req.Type)
	}
	if req.Price != nil && req.Price.IsNegative() {
		errors["price"] = "price cannot be negative"
	}

	return result(errors)
}

func validateTicker(errors map[string]string, ticker string) {
	ticker = strings.TrimSpace(ticker)
	switch {
	case ticker == "":
		errors["ticker"] = "ticker is required"
	case len(ticker) > maxTickerLength:
		errors["ticker"] = fmt.Sprintf("ticker must be at most %d characters", maxTickerLength)
	case !tickerPattern.MatchString(ticker):
		errors["ticker"] = fmt.Sprintf("invalid ticker: %s", ticker)
	}
}

func validateName(errors map[string]string, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		errors["name"] = "name is required"
	} else if len(name) > maxNameLength {
		errors["name"] = fmt.Sprintf("name must be at most %d characters", maxNameLength)
	}
}

func validateCategory(errors map[string]string, category string) {
	if strings.TrimSpace(category) == "" {
		errors["type"] = "type is required"
	} else if _, ok := model.ParseProductCategory(category); !ok {
		errors["type"] = fmt.Sprintf("invalid type: %s", category)
	}
}
