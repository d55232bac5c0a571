package position

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// MetricsInput is everything ComputeDerivedMetrics needs.
type MetricsInput struct {
	Position  Position
	LivePrice decimal.Decimal
	Dividends []decimal.Decimal
	Expenses  []decimal.Decimal
}

// Metrics are the reporting figures derived from a position and a market price.
// Values are not rounded.
type Metrics struct {
	CurrentValue        decimal.Decimal
	CostBasis           decimal.Decimal
	UnrealizedPL        decimal.Decimal
	UnrealizedPLPercent decimal.Decimal
	Dividends           decimal.Decimal
	Expenses            decimal.Decimal
	TotalReturn         decimal.Decimal
}

// ComputeDerivedMetrics values a position at LivePrice.
//
//	currentValue        = quantity * livePrice
//	costBasis           = quantity * averagePrice
//	unrealizedPL        = currentValue - costBasis
//	unrealizedPLPercent = unrealizedPL / costBasis * 100 (zero when costBasis is zero)
//	totalReturn         = unrealizedPL + sum(dividends) - sum(expenses)
func ComputeDerivedMetrics(in MetricsInput) Metrics {
	currentValue := in.Position.Quantity.Mul(in.LivePrice)
	costBasis := in.Position.CostBasis()
	unrealized := currentValue.Sub(costBasis)

	percent := decimal.Zero
	if !costBasis.IsZero() {
		percent = unrealized.Div(costBasis).Mul(hundred)
	}

	dividends := decimal.Sum(decimal.Zero, in.Dividends...)
	expenses := decimal.Sum(decimal.Zero, in.Expenses...)

	return Metrics{
		CurrentValue:        currentValue,
		CostBasis:           costBasis,
		UnrealizedPL:        unrealized,
		UnrealizedPLPercent: percent,
		Dividends:           dividends,
		Expenses:            expenses,
		TotalReturn:         unrealized.Add(dividends).Sub(expenses),
	}
}
