package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
)

// ProductRepository provides data access methods for the product table.
// Every user-facing query is scoped by the owning user; a product owned by someone else is
// reported as apperrors.ErrProductNotFound.
type ProductRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewProductRepository creates a new ProductRepository with the provided database connection.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// WithTx returns a copy of the repository that runs its queries inside tx.
func (r *ProductRepository) WithTx(tx *sql.Tx) *ProductRepository {
	return &ProductRepository{db: r.db, tx: tx}
}

func (r *ProductRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const productColumns = `id, user_id, ticker, name, category, quantity, average_price, price, dividend, expenses, version, created_at, updated_at`

// ListProducts returns all products of a user, newest first.
// Returns an empty slice if the user has no products.
func (r *ProductRepository) ListProducts(ctx context.Context, userID string) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM product
		WHERE user_id = ?
		ORDER BY created_at DESC, id
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query product table: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product table: %w", err)
	}

	return products, nil
}

// GetProduct retrieves a single product owned by userID.
func (r *ProductRepository) GetProduct(ctx context.Context, productID, userID string) (model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM product
		WHERE id = ? AND user_id = ?
	`

	p, err := scanProduct(r.getQuerier().QueryRowContext(ctx, query, productID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, apperrors.ErrProductNotFound
	}
	return p, err
}

// InsertProduct stores a new product.
func (r *ProductRepository) InsertProduct(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO product (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.Ticker,
		p.Name,
		p.Category,
		p.Quantity,
		p.AveragePrice,
		p.Price,
		p.Dividend,
		p.Expenses,
		p.Version,
		formatTimestamp(p.CreatedAt),
		formatTimestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

// UpdateProductDetails writes the user-editable fields: ticker, name, category and price.
// Quantity and average price are never touched here.
func (r *ProductRepository) UpdateProductDetails(ctx context.Context, p *model.Product) error {
	query := `
		UPDATE product
		SET ticker = ?, name = ?, category = ?, price = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	res, err := r.getQuerier().ExecContext(ctx, query,
		p.Ticker,
		p.Name,
		p.Category,
		p.Price,
		formatTimestamp(p.UpdatedAt),
		p.ID,
		p.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	return checkAffected(res, apperrors.ErrProductNotFound)
}

// UpdatePosition writes the recomputed quantity and average price.
//
// The write only succeeds when the stored version still equals expectedVersion; otherwise
// apperrors.ErrConcurrentModification is returned. The new version is returned on success.
func (r *ProductRepository) UpdatePosition(ctx context.Context, productID string, quantity, averagePrice decimal.Decimal, expectedVersion int64, now time.Time) (int64, error) {
	query := `
		UPDATE product
		SET quantity = ?, average_price = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`

	res, err := r.getQuerier().ExecContext(ctx, query,
		quantity,
		averagePrice,
		formatTimestamp(now),
		productID,
		expectedVersion,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update product position: %w", err)
	}

	if err := checkAffected(res, apperrors.ErrConcurrentModification); err != nil {
		return 0, err
	}

	return expectedVersion + 1, nil
}

// UpdateCashTotals writes the dividend and expense sums of a product.
func (r *ProductRepository) UpdateCashTotals(ctx context.Context, productID string, dividend, expenses decimal.Decimal, now time.Time) error {
	query := `
		UPDATE product
		SET dividend = ?, expenses = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := r.getQuerier().ExecContext(ctx, query, dividend, expenses, formatTimestamp(now), productID)
	if err != nil {
		return fmt.Errorf("failed to update product totals: %w", err)
	}

	return checkAffected(res, apperrors.ErrProductNotFound)
}

// UpdatePriceByTicker stores a last known market price on every product with the given ticker.
// Returns the number of products updated.
func (r *ProductRepository) UpdatePriceByTicker(ctx context.Context, ticker string, price decimal.Decimal, now time.Time) (int64, error) {
	query := `
		UPDATE product
		SET price = ?, updated_at = ?
		WHERE ticker = ?
	`

	res, err := r.getQuerier().ExecContext(ctx, query, price, formatTimestamp(now), ticker)
	if err != nil {
		return 0, fmt.Errorf("failed to update product price: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// ListTickers returns the distinct tickers of all products, across users.
func (r *ProductRepository) ListTickers(ctx context.Context) ([]string, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `SELECT DISTINCT ticker FROM product ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("failed to query product tickers: %w", err)
	}
	defer rows.Close()

	tickers := []string{}
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("failed to scan product ticker: %w", err)
		}
		tickers = append(tickers, ticker)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product tickers: %w", err)
	}

	return tickers, nil
}

// DeleteProduct removes a product owned by userID. Attached records are removed by cascade.
func (r *ProductRepository) DeleteProduct(ctx context.Context, productID, userID string) error {
	res, err := r.getQuerier().ExecContext(ctx, `DELETE FROM product WHERE id = ? AND user_id = ?`, productID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return checkAffected(res, apperrors.ErrProductNotFound)
}

func scanProduct(row rowScanner) (model.Product, error) {
	var p model.Product
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Ticker,
		&p.Name,
		&p.Category,
		&p.Quantity,
		&p.AveragePrice,
		&p.Price,
		&p.Dividend,
		&p.Expenses,
		&p.Version,
		&createdAtStr,
		&updatedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Product{}, err
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("failed to scan product: %w", err)
	}

	if err := errors.Join(
		assignTime(&p.CreatedAt, createdAtStr),
		assignTime(&p.UpdatedAt, updatedAtStr),
	); err != nil {
		return model.Product{}, err
	}

	return p, nil
}
