// Package position maintains the quantity and weighted-average cost of a holding.
//
// Every function in this package is pure: inputs are never mutated and no state is kept between
// calls. Callers persist the returned Position themselves. On error the input position is
// returned unchanged, so a failed operation never yields a partial update.
package position

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
)

// Position is the quantity held and the weighted-average acquisition price per unit.
//
// Positions built by this package also carry the running cost of the units held, so the
// average after any run of buys is exactly sum(qty*price) / sum(qty). A Position built from
// stored fields has no running cost and starts from quantity*averagePrice.
type Position struct {
	Quantity     decimal.Decimal
	AveragePrice decimal.Decimal

	cost decimal.Decimal
}

// FromProduct extracts the stored position of a product.
func FromProduct(p model.Product) Position {
	return Position{Quantity: p.Quantity, AveragePrice: p.AveragePrice}
}

// CostBasis returns the acquisition cost of the units held: the running cost when known,
// otherwise quantity times average price.
func (p Position) CostBasis() decimal.Decimal {
	if !p.cost.IsZero() {
		return p.cost
	}
	return p.Quantity.Mul(p.AveragePrice)
}

// Equal reports whether both fields are numerically equal.
func (p Position) Equal(other Position) bool {
	return p.Quantity.Equal(other.Quantity) && p.AveragePrice.Equal(other.AveragePrice)
}

// SellResult describes the effect of a sell against the average cost at the time of sale.
type SellResult struct {
	Quantity     decimal.Decimal
	Price        decimal.Decimal
	AveragePrice decimal.Decimal
	Proceeds     decimal.Decimal
	CostBasis    decimal.Decimal
	RealizedGain decimal.Decimal
}

// ApplyBuy adds qty units bought at price to the position.
//
// The new average price is (quantity*averagePrice + qty*price) / (quantity + qty).
// Returns apperrors.ErrInvalidAmount if qty or price is not positive.
func ApplyBuy(p Position, qty, price decimal.Decimal) (Position, error) {
	if err := requirePositive(qty, price); err != nil {
		return p, err
	}

	newQuantity := p.Quantity.Add(qty)
	newCost := p.CostBasis().Add(qty.Mul(price))

	return Position{
		Quantity:     newQuantity,
		AveragePrice: newCost.Div(newQuantity),
		cost:         newCost,
	}, nil
}

// ApplySell removes qty units sold at price from the position.
//
// The average price is left unchanged; the realized gain qty*(price-averagePrice) is reported
// in the SellResult and not recorded anywhere by this package.
// Returns apperrors.ErrInvalidAmount for non-positive input and apperrors.ErrInsufficientShares
// when qty exceeds the held quantity.
func ApplySell(p Position, qty, price decimal.Decimal) (Position, SellResult, error) {
	if err := requirePositive(qty, price); err != nil {
		return p, SellResult{}, err
	}
	if qty.GreaterThan(p.Quantity) {
		return p, SellResult{}, fmt.Errorf("%w: selling %s, holding %s", apperrors.ErrInsufficientShares, qty, p.Quantity)
	}

	proceeds := qty.Mul(price)
	costBasis := qty.Mul(p.AveragePrice)

	result := SellResult{
		Quantity:     qty,
		Price:        price,
		AveragePrice: p.AveragePrice,
		Proceeds:     proceeds,
		CostBasis:    costBasis,
		RealizedGain: proceeds.Sub(costBasis),
	}

	remaining := p.Quantity.Sub(qty)
	cost := decimal.Zero
	if remaining.IsPositive() {
		cost = p.CostBasis().Sub(costBasis)
	}

	return Position{
		Quantity:     remaining,
		AveragePrice: p.AveragePrice,
		cost:         cost,
	}, result, nil
}

// Apply applies a single transaction to the position.
func Apply(p Position, tx model.Transaction) (Position, error) {
	switch tx.Type {
	case model.TransactionBuy:
		return ApplyBuy(p, tx.Quantity, tx.Price)
	case model.TransactionSell:
		next, _, err := ApplySell(p, tx.Quantity, tx.Price)
		return next, err
	default:
		return p, fmt.Errorf("%w: %q", apperrors.ErrInvalidTransactionType, tx.Type)
	}
}

func requirePositive(qty, price decimal.Decimal) error {
	if !qty.IsPositive() {
		return fmt.Errorf("%w: quantity %s", apperrors.ErrInvalidAmount, qty)
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: price %s", apperrors.ErrInvalidAmount, price)
	}
	return nil
}
