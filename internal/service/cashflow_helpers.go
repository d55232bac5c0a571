package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/repository"
)

// cashTotals recomputes the dividend and expense totals stored on a product.
// Both dividend and expense writes go through it so the totals always equal the record sums.
type cashTotals struct {
	productRepo  *repository.ProductRepository
	dividendRepo *repository.DividendRepository
	expenseRepo  *repository.ExpenseRepository
}

func (c cashTotals) refresh(ctx context.Context, tx *sql.Tx, productID string, now time.Time) error {
	dividend, err := c.dividendRepo.WithTx(tx).SumDividends(ctx, productID)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
	}
	expenses, err := c.expenseRepo.WithTx(tx).SumExpenses(ctx, productID)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
	}
	return c.productRepo.WithTx(tx).UpdateCashTotals(ctx, productID, dividend, expenses, now)
}
