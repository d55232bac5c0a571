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

// ExpenseRepository provides data access methods for the expense table.
type ExpenseRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewExpenseRepository creates a new ExpenseRepository with the provided database connection.
func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// WithTx returns a copy of the repository that runs its queries inside tx.
func (r *ExpenseRepository) WithTx(tx *sql.Tx) *ExpenseRepository {
	return &ExpenseRepository{db: r.db, tx: tx}
}

func (r *ExpenseRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const expenseColumns = `e.id, e.product_id, e.amount, e.description, e.date, e.created_at, e.updated_at`

// ListExpensesForUser retrieves the expenses of every product owned by userID, newest first.
func (r *ExpenseRepository) ListExpensesForUser(ctx context.Context, userID string) ([]model.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expense e
		JOIN product p ON p.id = e.product_id
		WHERE p.user_id = ?
		ORDER BY e.date DESC, e.created_at DESC
	`
	return r.queryExpenses(ctx, query, userID)
}

// ListExpenses retrieves the expenses of one product, newest first.
func (r *ExpenseRepository) ListExpenses(ctx context.Context, productID string) ([]model.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expense e
		WHERE e.product_id = ?
		ORDER BY e.date DESC, e.created_at DESC
	`
	return r.queryExpenses(ctx, query, productID)
}

// GetExpense retrieves an expense whose product is owned by userID.
func (r *ExpenseRepository) GetExpense(ctx context.Context, expenseID, userID string) (model.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expense e
		JOIN product p ON p.id = e.product_id
		WHERE e.id = ? AND p.user_id = ?
	`

	e, err := scanExpense(r.getQuerier().QueryRowContext(ctx, query, expenseID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Expense{}, apperrors.ErrExpenseNotFound
	}
	return e, err
}

// InsertExpense stores a new expense.
func (r *ExpenseRepository) InsertExpense(ctx context.Context, e *model.Expense) error {
	query := `
		INSERT INTO expense (id, product_id, amount, description, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		e.ID,
		e.ProductID,
		e.Amount,
		e.Description,
		formatDate(e.Date),
		formatTimestamp(e.CreatedAt),
		formatTimestamp(e.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	return nil
}

// DeleteExpense removes an expense.
func (r *ExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := r.getQuerier().ExecContext(ctx, `DELETE FROM expense WHERE id = ?`, expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	return checkAffected(res, apperrors.ErrExpenseNotFound)
}

// SumExpenses returns the total expense amount of a product.
func (r *ExpenseRepository) SumExpenses(ctx context.Context, productID string) (decimal.Decimal, error) {
	return sumAmounts(ctx, r.getQuerier(), `SELECT amount FROM expense WHERE product_id = ?`, productID)
}

func (r *ExpenseRepository) queryExpenses(ctx context.Context, query string, args ...any) ([]model.Expense, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense table: %w", err)
	}
	defer rows.Close()

	expenses := []model.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense table: %w", err)
	}

	return expenses, nil
}

func scanExpense(row rowScanner) (model.Expense, error) {
	var e model.Expense
	var dateStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&e.ID,
		&e.ProductID,
		&e.Amount,
		&e.Description,
		&dateStr,
		&createdAtStr,
		&updatedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Expense{}, err
	}
	if err != nil {
		return model.Expense{}, fmt.Errorf("failed to scan expense: %w", err)
	}

	if err := errors.Join(
		assignTime(&e.Date, dateStr),
		assignTime(&e.CreatedAt, createdAtStr),
		assignTime(&e.UpdatedAt, updatedAtStr),
	); err != nil {
		return model.Expense{}, err
	}

	return e, nil
}
