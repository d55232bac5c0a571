package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
)

// TransactionRepository provides data access methods for the transaction table.
// Ownership is checked through the parent product.
type TransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a copy of the repository that runs its queries inside tx.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{db: r.db, tx: tx}
}

func (r *TransactionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// ListTransactions retrieves the full history of one product in chronological order
// (date, then creation time, then ID), the order in which the position is replayed.
func (r *TransactionRepository) ListTransactions(ctx context.Context, productID string) ([]model.Transaction, error) {
	query := `
		SELECT id, product_id, type, date, price, quantity, created_at, updated_at
		FROM "transaction"
		WHERE product_id = ?
		ORDER BY date ASC, created_at ASC, id ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		var t model.Transaction
		var dateStr, createdAtStr, updatedAtStr string

		err := rows.Scan(
			&t.ID,
			&t.ProductID,
			&t.Type,
			&dateStr,
			&t.Price,
			&t.Quantity,
			&createdAtStr,
			&updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction table results: %w", err)
		}

		if err := errors.Join(
			assignTime(&t.Date, dateStr),
			assignTime(&t.CreatedAt, createdAtStr),
			assignTime(&t.UpdatedAt, updatedAtStr),
		); err != nil {
			return nil, err
		}

		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactions, nil
}

const transactionResponseQuery = `
	SELECT t.id, t.product_id, t.type, t.date, t.price, t.quantity, t.created_at, t.updated_at,
		p.id, p.ticker, p.name, p.category
	FROM "transaction" t
	JOIN product p ON p.id = t.product_id
`

// ListTransactionsForUser retrieves the transactions across all products of a user, each enriched
// with a summary of its product. The filter narrows the result; its SortDir orders by date and
// defaults to newest first.
func (r *TransactionRepository) ListTransactionsForUser(ctx context.Context, userID string, filter model.TransactionFilter) ([]model.TransactionResponse, error) {
	conditions := []string{"p.user_id = ?"}
	args := []any{userID}

	if filter.ProductID != "" {
		conditions = append(conditions, "t.product_id = ?")
		args = append(args, filter.ProductID)
	}
	if len(filter.Types) > 0 {
		conditions = append(conditions, "t.type IN ("+placeholders(len(filter.Types))+")")
		for _, typ := range filter.Types {
			args = append(args, typ)
		}
	}
	if len(filter.Categories) > 0 {
		conditions = append(conditions, "p.category IN ("+placeholders(len(filter.Categories))+")")
		for _, c := range filter.Categories {
			args = append(args, c)
		}
	}
	if filter.StartDate != nil {
		conditions = append(conditions, "t.date >= ?")
		args = append(args, formatDate(*filter.StartDate))
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "t.date <= ?")
		args = append(args, formatDate(*filter.EndDate))
	}

	direction := "DESC"
	if filter.SortDir == "asc" {
		direction = "ASC"
	}

	query := transactionResponseQuery + `
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY t.date ` + direction + `, t.created_at ` + direction + `, t.id ` + direction

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.TransactionResponse{}
	for rows.Next() {
		t, err := scanTransactionResponse(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactions, nil
}

// GetTransaction retrieves a single transaction whose product is owned by userID.
func (r *TransactionRepository) GetTransaction(ctx context.Context, transactionID, userID string) (model.TransactionResponse, error) {
	query := transactionResponseQuery + `
		WHERE t.id = ? AND p.user_id = ?
	`

	t, err := scanTransactionResponse(r.getQuerier().QueryRowContext(ctx, query, transactionID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.TransactionResponse{}, apperrors.ErrTransactionNotFound
	}
	return t, err
}

// InsertTransaction stores a new transaction.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	query := `
		INSERT INTO "transaction" (id, product_id, type, date, price, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		t.ProductID,
		t.Type,
		formatDate(t.Date),
		t.Price,
		t.Quantity,
		formatTimestamp(t.CreatedAt),
		formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// UpdateTransaction overwrites type, date, price and quantity of a transaction.
// The product and creation time of a transaction never change.
func (r *TransactionRepository) UpdateTransaction(ctx context.Context, t *model.Transaction) error {
	query := `
		UPDATE "transaction"
		SET type = ?, date = ?, price = ?, quantity = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := r.getQuerier().ExecContext(ctx, query,
		t.Type,
		formatDate(t.Date),
		t.Price,
		t.Quantity,
		formatTimestamp(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	return checkAffected(res, apperrors.ErrTransactionNotFound)
}

// DeleteTransaction removes a transaction. A realized profit/loss record linked to it is removed
// by cascade.
func (r *TransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	res, err := r.getQuerier().ExecContext(ctx, `DELETE FROM "transaction" WHERE id = ?`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	return checkAffected(res, apperrors.ErrTransactionNotFound)
}

func scanTransactionResponse(row rowScanner) (model.TransactionResponse, error) {
	var t model.TransactionResponse
	var dateStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&t.ID,
		&t.ProductID,
		&t.Type,
		&dateStr,
		&t.Price,
		&t.Quantity,
		&createdAtStr,
		&updatedAtStr,
		&t.Product.ID,
		&t.Product.Ticker,
		&t.Product.Name,
		&t.Product.Category,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TransactionResponse{}, err
	}
	if err != nil {
		return model.TransactionResponse{}, fmt.Errorf("failed to scan transaction: %w", err)
	}

	if err := errors.Join(
		assignTime(&t.Date, dateStr),
		assignTime(&t.CreatedAt, createdAtStr),
		assignTime(&t.UpdatedAt, updatedAtStr),
	); err != nil {
		return model.TransactionResponse{}, err
	}

	return t, nil
}
