package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/repository"
)

// DividendService handles dividend-related business logic operations.
type DividendService struct {
	db           *sql.DB
	productRepo  *repository.ProductRepository
	dividendRepo *repository.DividendRepository
	totals       cashTotals
}

// NewDividendService creates a new DividendService with the provided repository dependencies.
func NewDividendService(
	db *sql.DB,
	productRepo *repository.ProductRepository,
	dividendRepo *repository.DividendRepository,
	expenseRepo *repository.ExpenseRepository,
) *DividendService {
	return &DividendService{
		db:           db,
		productRepo:  productRepo,
		dividendRepo: dividendRepo,
		totals:       cashTotals{productRepo: productRepo, dividendRepo: dividendRepo, expenseRepo: expenseRepo},
	}
}

// ListDividends returns all dividends of the user's products, newest first.
func (s *DividendService) ListDividends(ctx context.Context, userID string) ([]model.Dividend, error) {
	return s.dividendRepo.ListDividendsForUser(ctx, userID)
}

// CreateDividend records a dividend payment and updates the product's dividend total.
func (s *DividendService) CreateDividend(ctx context.Context, userID string, req request.CreateDividendRequest) (*model.Dividend, error) {
	now := timestamp()
	date, err := parseDate(req.Date, now)
	if err != nil {
		return nil, err
	}

	dividend := &model.Dividend{
		ID:        uuid.New().String(),
		ProductID: req.ProductID,
		Amount:    req.Amount,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = repository.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := s.productRepo.WithTx(tx).GetProduct(ctx, req.ProductID, userID); err != nil {
			return err
		}
		if err := s.dividendRepo.WithTx(tx).InsertDividend(ctx, dividend); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
		}
		return s.totals.refresh(ctx, tx, req.ProductID, now)
	})
	if err != nil {
		return nil, err
	}

	return dividend, nil
}

// DeleteDividend removes a dividend and updates the product's dividend total.
func (s *DividendService) DeleteDividend(ctx context.Context, dividendID, userID string) error {
	return repository.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		dividend, err := s.dividendRepo.WithTx(tx).GetDividend(ctx, dividendID, userID)
		if err != nil {
			return err
		}
		if err := s.dividendRepo.WithTx(tx).DeleteDividend(ctx, dividend.ID); err != nil {
			return err
		}
		return s.totals.refresh(ctx, tx, dividend.ProductID, timestamp())
	})
}
