package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/position"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/repository"
)

// TransactionService handles buy/sell transactions and keeps every product's position equal to
// the replay of its transaction history.
//
// Each write reads the product and its history, replays, and writes the product back inside one
// database transaction. The product write is guarded by the product version, so a concurrent
// writer that slipped in between makes the operation fail with
// apperrors.ErrConcurrentModification instead of losing an update.
type TransactionService struct {
	db              *sql.DB
	productRepo     *repository.ProductRepository
	transactionRepo *repository.TransactionRepository
	realizedRepo    *repository.RealizedProfitLossRepository
	realizeOnSell   bool
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
// When realizeOnSell is set, creating a SELL also records its realized profit/loss.
func NewTransactionService(
	db *sql.DB,
	productRepo *repository.ProductRepository,
	transactionRepo *repository.TransactionRepository,
	realizedRepo *repository.RealizedProfitLossRepository,
	realizeOnSell bool,
) *TransactionService {
	return &TransactionService{
		db:              db,
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
		realizedRepo:    realizedRepo,
		realizeOnSell:   realizeOnSell,
	}
}

// ListTransactions returns the user's transactions across all products, with product info.
func (s *TransactionService) ListTransactions(ctx context.Context, userID string, filter model.TransactionFilter) ([]model.TransactionResponse, error) {
	return s.transactionRepo.ListTransactionsForUser(ctx, userID, filter)
}

// ListProductTransactions returns the history of one product in chronological order.
func (s *TransactionService) ListProductTransactions(ctx context.Context, productID, userID string) ([]model.Transaction, error) {
	if _, err := s.productRepo.GetProduct(ctx, productID, userID); err != nil {
		return nil, err
	}
	return s.transactionRepo.ListTransactions(ctx, productID)
}

// GetTransaction returns a single transaction owned by userID.
func (s *TransactionService) GetTransaction(ctx context.Context, transactionID, userID string) (model.TransactionResponse, error) {
	return s.transactionRepo.GetTransaction(ctx, transactionID, userID)
}

// CreateTransaction records a buy or sell and recomputes the product position.
//
// A sell larger than the quantity held at its date is rejected with
// apperrors.ErrInsufficientShares and nothing is written.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID string, req request.CreateTransactionRequest) (*model.Transaction, error) {
	now := timestamp()
	date, err := parseDate(req.Date, now)
	if err != nil {
		return nil, err
	}

	transaction := &model.Transaction{
		ID:        uuid.New().String(),
		ProductID: req.ProductID,
		Type:      model.TransactionType(strings.ToUpper(strings.TrimSpace(req.Type))),
		Date:      date,
		Price:     req.Price,
		Quantity:  req.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = repository.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		product, history, err := s.loadForUpdate(ctx, tx, req.ProductID, userID)
		if err != nil {
			return err
		}

		history = append(history, *transaction)
		pos, err := position.Replay(history)
		if err != nil {
			return err
		}

		if err := s.transactionRepo.WithTx(tx).InsertTransaction(ctx, transaction); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
		}
		if err := s.writePosition(ctx, tx, product, pos, now); err != nil {
			return err
		}

		if s.realizeOnSell && transaction.Type == model.TransactionSell {
			if _, err := s.realize(ctx, tx, history, *transaction, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// UpdateTransaction edits a transaction and replays the product history with the new values.
// Realized profit/loss records linked to sells of the product are recomputed as well.
func (s *TransactionService) UpdateTransaction(ctx context.Context, transactionID, userID string, req request.UpdateTransactionRequest) (*model.Transaction, error) {
	now := timestamp()

	var updated model.Transaction
	err := repository.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		existing, err := s.transactionRepo.WithTx(tx).GetTransaction(ctx, transactionID, userID)
		if err != nil {
			return err
		}

		product, history, err := s.loadForUpdate(ctx, tx, existing.ProductID, userID)
		if err != nil {
			return err
		}

		updated = existing.Transaction
		if req.Type != nil {
			updated.Type = model.TransactionType(strings.ToUpper(strings.TrimSpace(*req.Type)))
		}
		if req.Date != nil {
			date, err := parseDate(*req.Date, now)
			if err != nil {
				return err
			}
			updated.Date = date
		}
		if req.Price != nil {
			updated.Price = *req.Price
		}
		if req.Quantity != nil {
			updated.Quantity = *req.Quantity
		}
		updated.UpdatedAt = now

		pos, err := position.RecomputeOnTransactionEdit(history, updated)
		if err != nil {
			return err
		}

		if err := s.transactionRepo.WithTx(tx).UpdateTransaction(ctx, &updated); err != nil {
			return err
		}
		if err := s.writePosition(ctx, tx, product, pos, now); err != nil {
			return err
		}

		return s.syncRealized(ctx, tx, product.ID, replaceTransaction(history, updated), now)
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteTransaction removes a transaction and replays the remaining history.
//
// Deleting a buy that later sells depend on is rejected with apperrors.ErrInsufficientShares.
// A realized record linked to a deleted sell is removed with it.
func (s *TransactionService) DeleteTransaction(ctx context.Context, transactionID, userID string) error {
	now := timestamp()

	return repository.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		existing, err := s.transactionRepo.WithTx(tx).GetTransaction(ctx, transactionID, userID)
		if err != nil {
			return err
		}

		product, history, err := s.loadForUpdate(ctx, tx, existing.ProductID, userID)
		if err != nil {
			return err
		}

		pos, err := position.RecomputeOnTransactionDelete(history, transactionID)
		if err != nil {
			return err
		}

		if err := s.transactionRepo.WithTx(tx).DeleteTransaction(ctx, transactionID); err != nil {
			return err
		}
		if err := s.writePosition(ctx, tx, product, pos, now); err != nil {
			return err
		}

		return s.syncRealized(ctx, tx, product.ID, removeTransaction(history, transactionID), now)
	})
}

// RealizeTransaction records the realized profit/loss of a sell, computed against the average
// price held at the moment of sale and rounded to cents.
//
// Returns apperrors.ErrTransactionNotSell for a buy and apperrors.ErrAlreadyRealized when the
// sell already has a record.
func (s *TransactionService) RealizeTransaction(ctx context.Context, transactionID, userID string) (*model.RealizedProfitLoss, error) {
	now := timestamp()

	var record *model.RealizedProfitLoss
	err := repository.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		existing, err := s.transactionRepo.WithTx(tx).GetTransaction(ctx, transactionID, userID)
		if err != nil {
			return err
		}
		if existing.Type != model.TransactionSell {
			return apperrors.ErrTransactionNotSell
		}

		history, err := s.transactionRepo.WithTx(tx).ListTransactions(ctx, existing.ProductID)
		if err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
		}

		record, err = s.realize(ctx, tx, history, existing.Transaction, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// RecomputeProduct replays the full history of a product and stores the result.
// It repairs a product whose stored position drifted from its transactions, for example after
// manual database edits. Returns the product as stored afterwards.
func (s *TransactionService) RecomputeProduct(ctx context.Context, productID, userID string) (*model.Product, error) {
	now := timestamp()

	var product model.Product
	err := repository.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		var history []model.Transaction
		var err error
		product, history, err = s.loadForUpdate(ctx, tx, productID, userID)
		if err != nil {
			return err
		}

		pos, err := position.Replay(history)
		if err != nil {
			return err
		}

		if !pos.Equal(position.FromProduct(product)) {
			if err := s.writePosition(ctx, tx, product, pos, now); err != nil {
				return err
			}
			product.Quantity = pos.Quantity
			product.AveragePrice = pos.AveragePrice
			product.Version++
			product.UpdatedAt = now
		}

		return s.syncRealized(ctx, tx, product.ID, history, now)
	})
	if err != nil {
		return nil, err
	}

	return &product, nil
}

// loadForUpdate reads a product owned by userID and its chronological history inside tx.
func (s *TransactionService) loadForUpdate(ctx context.Context, tx *sql.Tx, productID, userID string) (model.Product, []model.Transaction, error) {
	product, err := s.productRepo.WithTx(tx).GetProduct(ctx, productID, userID)
	if err != nil {
		return model.Product{}, nil, err
	}

	history, err := s.transactionRepo.WithTx(tx).ListTransactions(ctx, product.ID)
	if err != nil {
		return model.Product{}, nil, fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
	}

	return product, history, nil
}

func (s *TransactionService) writePosition(ctx context.Context, tx *sql.Tx, product model.Product, pos position.Position, now time.Time) error {
	_, err := s.productRepo.WithTx(tx).UpdatePosition(ctx, product.ID, pos.Quantity, pos.AveragePrice, product.Version, now)
	if err != nil && !errors.Is(err, apperrors.ErrConcurrentModification) {
		return fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
	}
	return err
}

// realize computes and stores the realized profit/loss of sell.
func (s *TransactionService) realize(ctx context.Context, tx *sql.Tx, history []model.Transaction, sell model.Transaction, now time.Time) (*model.RealizedProfitLoss, error) {
	result, err := position.RealizedGainFor(history, sell.ID)
	if err != nil {
		return nil, err
	}

	record := &model.RealizedProfitLoss{
		ID:            uuid.New().String(),
		ProductID:     sell.ProductID,
		TransactionID: sell.ID,
		Amount:        round(result.RealizedGain),
		Date:          sell.Date,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.realizedRepo.WithTx(tx).InsertRealized(ctx, record); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyRealized) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
	}

	return record, nil
}

// syncRealized brings realized records linked to sells of a product in line with history.
// A record whose transaction is no longer a sell is deleted; the others get the recomputed
// amount and the sell's current date.
func (s *TransactionService) syncRealized(ctx context.Context, tx *sql.Tx, productID string, history []model.Transaction, now time.Time) error {
	realizedRepo := s.realizedRepo.WithTx(tx)

	linked, err := realizedRepo.ListLinkedRealized(ctx, productID)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
	}
	if len(linked) == 0 {
		return nil
	}

	dates := make(map[string]time.Time, len(history))
	for _, t := range history {
		dates[t.ID] = t.Date
	}

	for transactionID, record := range linked {
		result, err := position.RealizedGainFor(history, transactionID)
		if errors.Is(err, apperrors.ErrTransactionNotSell) || errors.Is(err, apperrors.ErrTransactionNotFound) {
			if err := realizedRepo.DeleteRealized(ctx, record.ID); err != nil {
				return fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
			}
			continue
		}
		if err != nil {
			return err
		}

		amount := round(result.RealizedGain)
		date := dates[transactionID]
		if amount.Equal(record.Amount) && date.Equal(record.Date) {
			continue
		}
		if err := realizedRepo.UpdateRealizedAmount(ctx, record.ID, amount, date, now); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
		}
	}

	return nil
}

func replaceTransaction(history []model.Transaction, updated model.Transaction) []model.Transaction {
	replaced := make([]model.Transaction, len(history))
	for i, t := range history {
		if t.ID == updated.ID {
			t = updated
		}
		replaced[i] = t
	}
	return replaced
}

func removeTransaction(history []model.Transaction, transactionID string) []model.Transaction {
	remaining := make([]model.Transaction, 0, len(history))
	for _, t := range history {
		if t.ID != transactionID {
			remaining = append(remaining, t)
		}
	}
	return remaining
}
