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

// RealizedProfitLossService handles manually entered realized profit/loss records.
// Records realized from a sell are created by TransactionService.RealizeTransaction.
type RealizedProfitLossService struct {
	db           *sql.DB
	productRepo  *repository.ProductRepository
	realizedRepo *repository.RealizedProfitLossRepository
}

// NewRealizedProfitLossService creates a new RealizedProfitLossService.
func NewRealizedProfitLossService(
	db *sql.DB,
	productRepo *repository.ProductRepository,
	realizedRepo *repository.RealizedProfitLossRepository,
) *RealizedProfitLossService {
	return &RealizedProfitLossService{
		db:           db,
		productRepo:  productRepo,
		realizedRepo: realizedRepo,
	}
}

// ListRealized returns all realized records of the user's products, newest first.
func (s *RealizedProfitLossService) ListRealized(ctx context.Context, userID string) ([]model.RealizedProfitLoss, error) {
	return s.realizedRepo.ListRealizedForUser(ctx, userID)
}

// CreateRealized stores a manual realized record, not linked to any transaction.
func (s *RealizedProfitLossService) CreateRealized(ctx context.Context, userID string, req request.CreateRealizedProfitLossRequest) (*model.RealizedProfitLoss, error) {
	now := timestamp()
	date, err := parseDate(req.Date, now)
	if err != nil {
		return nil, err
	}

	record := &model.RealizedProfitLoss{
		ID:        uuid.New().String(),
		ProductID: req.ProductID,
		Amount:    round(req.Amount),
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = repository.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := s.productRepo.WithTx(tx).GetProduct(ctx, req.ProductID, userID); err != nil {
			return err
		}
		if err := s.realizedRepo.WithTx(tx).InsertRealized(ctx, record); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// DeleteRealized removes a realized record. Deleting a record linked to a sell allows that sell
// to be realized again.
func (s *RealizedProfitLossService) DeleteRealized(ctx context.Context, realizedID, userID string) error {
	return repository.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		record, err := s.realizedRepo.WithTx(tx).GetRealized(ctx, realizedID, userID)
		if err != nil {
			return err
		}
		return s.realizedRepo.WithTx(tx).DeleteRealized(ctx, record.ID)
	})
}
