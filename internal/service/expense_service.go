package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/repository"
)

// ExpenseService handles expense-related business logic operations.
type ExpenseService struct {
	db          *sql.DB
	productRepo *repository.ProductRepository
	expenseRepo *repository.ExpenseRepository
	totals      cashTotals
}

// NewExpenseService creates a new ExpenseService with the provided repository dependencies.
func NewExpenseService(
	db *sql.DB,
	productRepo *repository.ProductRepository,
	dividendRepo *repository.DividendRepository,
	expenseRepo *repository.ExpenseRepository,
) *ExpenseService {
	return &ExpenseService{
		db:          db,
		productRepo: productRepo,
		expenseRepo: expenseRepo,
		totals:      cashTotals{productRepo: productRepo, dividendRepo: dividendRepo, expenseRepo: expenseRepo},
	}
}

// ListExpenses returns all expenses of the user's products, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID string) ([]model.Expense, error) {
	return s.expenseRepo.ListExpensesForUser(ctx, userID)
}

// CreateExpense records an expense and updates the product's expense total.
func (s *ExpenseService) CreateExpense(ctx context.Context, userID string, req request.CreateExpenseRequest) (*model.Expense, error) {
	now := timestamp()
	date, err := parseDate(req.Date, now)
	if err != nil {
		return nil, err
	}

	expense := &model.Expense{
		ID:          uuid.New().String(),
		ProductID:   req.ProductID,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = repository.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := s.productRepo.WithTx(tx).GetProduct(ctx, req.ProductID, userID); err != nil {
			return err
		}
		if err := s.expenseRepo.WithTx(tx).InsertExpense(ctx, expense); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
		}
		return s.totals.refresh(ctx, tx, req.ProductID, now)
	})
	if err != nil {
		return nil, err
	}

	return expense, nil
}

// DeleteExpense removes an expense and updates the product's expense total.
func (s *ExpenseService) DeleteExpense(ctx context.Context, expenseID, userID string) error {
	return repository.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		expense, err := s.expenseRepo.WithTx(tx).GetExpense(ctx, expenseID, userID)
		if err != nil {
			return err
		}
		if err := s.expenseRepo.WithTx(tx).DeleteExpense(ctx, expense.ID); err != nil {
			return err
		}
		return s.totals.refresh(ctx, tx, expense.ProductID, timestamp())
	})
}
