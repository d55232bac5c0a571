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

// RealizedProfitLossRepository provides data access methods for the realized_profit_loss table.
// A record is either entered by hand or realized from a SELL transaction, in which case
// transaction_id links it to that sell (at most one record per sell).
type RealizedProfitLossRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewRealizedProfitLossRepository creates a new RealizedProfitLossRepository with the provided database connection.
func NewRealizedProfitLossRepository(db *sql.DB) *RealizedProfitLossRepository {
	return &RealizedProfitLossRepository{db: db}
}

// WithTx returns a copy of the repository that runs its queries inside tx.
func (r *RealizedProfitLossRepository) WithTx(tx *sql.Tx) *RealizedProfitLossRepository {
	return &RealizedProfitLossRepository{db: r.db, tx: tx}
}

func (r *RealizedProfitLossRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const realizedColumns = `r.id, r.product_id, r.transaction_id, r.amount, r.date, r.created_at, r.updated_at`

// ListRealizedForUser retrieves the realized records of every product owned by userID, newest first.
func (r *RealizedProfitLossRepository) ListRealizedForUser(ctx context.Context, userID string) ([]model.RealizedProfitLoss, error) {
	query := `
		SELECT ` + realizedColumns + `
		FROM realized_profit_loss r
		JOIN product p ON p.id = r.product_id
		WHERE p.user_id = ?
		ORDER BY r.date DESC, r.created_at DESC
	`
	return r.queryRealized(ctx, query, userID)
}

// ListRealized retrieves the realized records of one product, newest first.
func (r *RealizedProfitLossRepository) ListRealized(ctx context.Context, productID string) ([]model.RealizedProfitLoss, error) {
	query := `
		SELECT ` + realizedColumns + `
		FROM realized_profit_loss r
		WHERE r.product_id = ?
		ORDER BY r.date DESC, r.created_at DESC
	`
	return r.queryRealized(ctx, query, productID)
}

// GetRealized retrieves a realized record whose product is owned by userID.
func (r *RealizedProfitLossRepository) GetRealized(ctx context.Context, realizedID, userID string) (model.RealizedProfitLoss, error) {
	query := `
		SELECT ` + realizedColumns + `
		FROM realized_profit_loss r
		JOIN product p ON p.id = r.product_id
		WHERE r.id = ? AND p.user_id = ?
	`

	rec, err := scanRealized(r.getQuerier().QueryRowContext(ctx, query, realizedID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.RealizedProfitLoss{}, apperrors.ErrRealizedProfitLossNotFound
	}
	return rec, err
}

// GetRealizedByTransaction retrieves the record realized from the given SELL transaction.
func (r *RealizedProfitLossRepository) GetRealizedByTransaction(ctx context.Context, transactionID string) (model.RealizedProfitLoss, error) {
	query := `
		SELECT ` + realizedColumns + `
		FROM realized_profit_loss r
		WHERE r.transaction_id = ?
	`

	rec, err := scanRealized(r.getQuerier().QueryRowContext(ctx, query, transactionID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.RealizedProfitLoss{}, apperrors.ErrRealizedProfitLossNotFound
	}
	return rec, err
}

// ListLinkedRealized returns the realized records of a product that were realized from a sell,
// keyed by transaction ID.
func (r *RealizedProfitLossRepository) ListLinkedRealized(ctx context.Context, productID string) (map[string]model.RealizedProfitLoss, error) {
	query := `
		SELECT ` + realizedColumns + `
		FROM realized_profit_loss r
		WHERE r.product_id = ? AND r.transaction_id IS NOT NULL
	`

	records, err := r.queryRealized(ctx, query, productID)
	if err != nil {
		return nil, err
	}

	linked := make(map[string]model.RealizedProfitLoss, len(records))
	for _, rec := range records {
		linked[rec.TransactionID] = rec
	}
	return linked, nil
}

// InsertRealized stores a new realized record. Returns apperrors.ErrAlreadyRealized when the
// linked transaction already has one.
func (r *RealizedProfitLossRepository) InsertRealized(ctx context.Context, rec *model.RealizedProfitLoss) error {
	query := `
		INSERT INTO realized_profit_loss (id, product_id, transaction_id, amount, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var transactionID sql.NullString
	if rec.TransactionID != "" {
		transactionID = sql.NullString{String: rec.TransactionID, Valid: true}
	}

	_, err := r.getQuerier().ExecContext(ctx, query,
		rec.ID,
		rec.ProductID,
		transactionID,
		rec.Amount,
		formatDate(rec.Date),
		formatTimestamp(rec.CreatedAt),
		formatTimestamp(rec.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return apperrors.ErrAlreadyRealized
	}
	if err != nil {
		return fmt.Errorf("failed to insert realized profit/loss: %w", err)
	}

	return nil
}

// UpdateRealizedAmount overwrites amount and date of a realized record.
func (r *RealizedProfitLossRepository) UpdateRealizedAmount(ctx context.Context, realizedID string, amount decimal.Decimal, date, now time.Time) error {
	query := `
		UPDATE realized_profit_loss
		SET amount = ?, date = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := r.getQuerier().ExecContext(ctx, query, amount, formatDate(date), formatTimestamp(now), realizedID)
	if err != nil {
		return fmt.Errorf("failed to update realized profit/loss: %w", err)
	}

	return checkAffected(res, apperrors.ErrRealizedProfitLossNotFound)
}

// DeleteRealized removes a realized record.
func (r *RealizedProfitLossRepository) DeleteRealized(ctx context.Context, realizedID string) error {
	res, err := r.getQuerier().ExecContext(ctx, `DELETE FROM realized_profit_loss WHERE id = ?`, realizedID)
	if err != nil {
		return fmt.Errorf("failed to delete realized profit/loss: %w", err)
	}

	return checkAffected(res, apperrors.ErrRealizedProfitLossNotFound)
}

// SumRealized returns the total realized amount of a product.
func (r *RealizedProfitLossRepository) SumRealized(ctx context.Context, productID string) (decimal.Decimal, error) {
	return sumAmounts(ctx, r.getQuerier(), `SELECT amount FROM realized_profit_loss WHERE product_id = ?`, productID)
}

func (r *RealizedProfitLossRepository) queryRealized(ctx context.Context, query string, args ...any) ([]model.RealizedProfitLoss, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query realized_profit_loss table: %w", err)
	}
	defer rows.Close()

	records := []model.RealizedProfitLoss{}
	for rows.Next() {
		rec, err := scanRealized(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating realized_profit_loss table: %w", err)
	}

	return records, nil
}

func scanRealized(row rowScanner) (model.RealizedProfitLoss, error) {
	var rec model.RealizedProfitLoss
	var transactionID sql.NullString
	var dateStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&rec.ID,
		&rec.ProductID,
		&transactionID,
		&rec.Amount,
		&dateStr,
		&createdAtStr,
		&updatedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RealizedProfitLoss{}, err
	}
	if err != nil {
		return model.RealizedProfitLoss{}, fmt.Errorf("failed to scan realized profit/loss: %w", err)
	}
	rec.TransactionID = transactionID.String

	if err := errors.Join(
		assignTime(&rec.Date, dateStr),
		assignTime(&rec.CreatedAt, createdAtStr),
		assignTime(&rec.UpdatedAt, updatedAtStr),
	); err != nil {
		return model.RealizedProfitLoss{}, err
	}

	return rec, nil
}
