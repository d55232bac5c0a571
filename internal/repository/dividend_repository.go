package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
)

// DividendRepository provides data access methods for the dividend table.
type DividendRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewDividendRepository creates a new DividendRepository with the provided database connection.
func NewDividendRepository(db *sql.DB) *DividendRepository {
	return &DividendRepository{db: db}
}

// WithTx returns a copy of the repository that runs its queries inside tx.
func (r *DividendRepository) WithTx(tx *sql.Tx) *DividendRepository {
	return &DividendRepository{db: r.db, tx: tx}
}

func (r *DividendRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const dividendColumns = `d.id, d.product_id, d.amount, d.date, d.created_at, d.updated_at`

// ListDividendsForUser retrieves the dividends of every product owned by userID, newest first.
func (r *DividendRepository) ListDividendsForUser(ctx context.Context, userID string) ([]model.Dividend, error) {
	query := `
		SELECT ` + dividendColumns + `
		FROM dividend d
		JOIN product p ON p.id = d.product_id
		WHERE p.user_id = ?
		ORDER BY d.date DESC, d.created_at DESC
	`
	return r.queryDividends(ctx, query, userID)
}

// ListDividends retrieves the dividends of one product, newest first.
func (r *DividendRepository) ListDividends(ctx context.Context, productID string) ([]model.Dividend, error) {
	query := `
		SELECT ` + dividendColumns + `
		FROM dividend d
		WHERE d.product_id = ?
		ORDER BY d.date DESC, d.created_at DESC
	`
	return r.queryDividends(ctx, query, productID)
}

// GetDividend retrieves a dividend whose product is owned by userID.
func (r *DividendRepository) GetDividend(ctx context.Context, dividendID, userID string) (model.Dividend, error) {
	query := `
		SELECT ` + dividendColumns + `
		FROM dividend d
		JOIN product p ON p.id = d.product_id
		WHERE d.id = ? AND p.user_id = ?
	`

	d, err := scanDividend(r.getQuerier().QueryRowContext(ctx, query, dividendID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Dividend{}, apperrors.ErrDividendNotFound
	}
	return d, err
}

// InsertDividend stores a new dividend.
func (r *DividendRepository) InsertDividend(ctx context.Context, d *model.Dividend) error {
	query := `
		INSERT INTO dividend (id, product_id, amount, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		d.ID,
		d.ProductID,
		d.Amount,
		formatDate(d.Date),
		formatTimestamp(d.CreatedAt),
		formatTimestamp(d.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert dividend: %w", err)
	}

	return nil
}

// DeleteDividend removes a dividend.
func (r *DividendRepository) DeleteDividend(ctx context.Context, dividendID string) error {
	res, err := r.getQuerier().ExecContext(ctx, `DELETE FROM dividend WHERE id = ?`, dividendID)
	if err != nil {
		return fmt.Errorf("failed to delete dividend: %w", err)
	}

	return checkAffected(res, apperrors.ErrDividendNotFound)
}

// SumDividends returns the total dividend amount of a product.
// Amounts are summed in Go to keep exact decimal arithmetic.
func (r *DividendRepository) SumDividends(ctx context.Context, productID string) (decimal.Decimal, error) {
	return sumAmounts(ctx, r.getQuerier(), `SELECT amount FROM dividend WHERE product_id = ?`, productID)
}

func (r *DividendRepository) queryDividends(ctx context.Context, query string, args ...any) ([]model.Dividend, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend table: %w", err)
	}
	defer rows.Close()

	dividends := []model.Dividend{}
	for rows.Next() {
		d, err := scanDividend(rows)
		if err != nil {
			return nil, err
		}
		dividends = append(dividends, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dividend table: %w", err)
	}

	return dividends, nil
}

func scanDividend(row rowScanner) (model.Dividend, error) {
	var d model.Dividend
	var dateStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&d.ID,
		&d.ProductID,
		&d.Amount,
		&dateStr,
		&createdAtStr,
		&updatedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Dividend{}, err
	}
	if err != nil {
		return model.Dividend{}, fmt.Errorf("failed to scan dividend: %w", err)
	}

	if err := errors.Join(
		assignTime(&d.Date, dateStr),
		assignTime(&d.CreatedAt, createdAtStr),
		assignTime(&d.UpdatedAt, updatedAtStr),
	); err != nil {
		return model.Dividend{}, err
	}

	return d, nil
}
