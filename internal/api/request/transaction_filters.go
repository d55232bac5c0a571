package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
)

// ParseTransactionFilters extracts and validates transaction listing filters from query parameters.
//
// Validation rules:
//   - productId: must be a UUID
//   - type: comma-separated list of BUY, SELL (case-insensitive)
//   - category: comma-separated list of product categories (case-insensitive)
//   - startDate/endDate: YYYY-MM-DD or RFC3339; startDate must not be after endDate
//   - sortDir: "asc" or "desc" (defaults to "desc")
//
// All parameters are optional.
func ParseTransactionFilters(
	productIDParam, typesParam, categoriesParam, startDateParam, endDateParam, sortDirParam string,
) (*model.TransactionFilter, error) {
	filters := &model.TransactionFilter{}

	if productIDParam != "" {
		if _, err := uuid.Parse(productIDParam); err != nil {
			return nil, fmt.Errorf("invalid productId: %s", productIDParam)
		}
		filters.ProductID = productIDParam
	}

	// Parse types (comma-separated)
	if typesParam != "" {
		for _, raw := range strings.Split(typesParam, ",") {
			t := model.TransactionType(strings.ToUpper(strings.TrimSpace(raw)))
			if !t.Valid() {
				return nil, fmt.Errorf("invalid transaction type: %s", raw)
			}
			filters.Types = append(filters.Types, t)
		}
	}

	// Parse categories (comma-separated)
	if categoriesParam != "" {
		for _, raw := range strings.Split(categoriesParam, ",") {
			c, ok := model.ParseProductCategory(raw)
			if !ok {
				return nil, fmt.Errorf("invalid category: %s", raw)
			}
			filters.Categories = append(filters.Categories, c)
		}
	}

	if startDateParam != "" {
		startTime, err := parseFilterTime(startDateParam)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate format: %w", err)
		}
		filters.StartDate = &startTime
	}

	if endDateParam != "" {
		endTime, err := parseFilterTime(endDateParam)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate format: %w", err)
		}
		filters.EndDate = &endTime
	}

	if filters.StartDate != nil && filters.EndDate != nil && filters.StartDate.After(*filters.EndDate) {
		return nil, fmt.Errorf("startDate must not be after endDate")
	}

	// Validate sortDir
	if sortDirParam != "" {
		sortDir := strings.ToLower(sortDirParam)
		if sortDir != "asc" && sortDir != "desc" {
			return nil, fmt.Errorf("invalid sortDir: must be 'asc' or 'desc'")
		}
		filters.SortDir = sortDir
	} else {
		filters.SortDir = "desc" // Default
	}

	return filters, nil
}

// parseFilterTime accepts YYYY-MM-DD and RFC3339 (with or without fractional seconds).
func parseFilterTime(str string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05.000Z07:00"} {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date or datetime", str)
}
