package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
)

// MoneyPlaces is the number of decimal places used for monetary values in responses and for
// stored realized profit/loss amounts.
const MoneyPlaces = 2

// round rounds a decimal value to two decimal places, half away from zero.
//
// Example:
//
//	round(decimal.RequireFromString("123.456789"))  // 123.46
//	round(decimal.RequireFromString("0.005"))       // 0.01
//	round(decimal.RequireFromString("1.994"))       // 1.99
func round(value decimal.Decimal) decimal.Decimal {
	return value.Round(MoneyPlaces)
}

// parseDate parses a request date (YYYY-MM-DD or RFC3339) into a calendar day at UTC midnight.
// An RFC3339 value keeps the day of its own offset. An empty string means today.
func parseDate(str string, now time.Time) (time.Time, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return truncateDay(now.UTC()), nil
	}
	t, err := time.Parse(time.DateOnly, str)
	if err != nil {
		t, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, apperrors.ErrInvalidDate
		}
	}
	return truncateDay(t), nil
}

// truncateDay keeps the calendar day of t in its own location.
func truncateDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// timestamp returns the current time at the precision timestamps are stored with.
func timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
