package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/position"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/repository"
)

// ProductService handles product-related business logic operations.
type ProductService struct {
	db              *sql.DB
	productRepo     *repository.ProductRepository
	transactionRepo *repository.TransactionRepository
	dividendRepo    *repository.DividendRepository
	expenseRepo     *repository.ExpenseRepository
	realizedRepo    *repository.RealizedProfitLossRepository
}

// NewProductService creates a new ProductService with the provided repository dependencies.
func NewProductService(
	db *sql.DB,
	productRepo *repository.ProductRepository,
	transactionRepo *repository.TransactionRepository,
	dividendRepo *repository.DividendRepository,
	expenseRepo *repository.ExpenseRepository,
	realizedRepo *repository.RealizedProfitLossRepository,
) *ProductService {
	return &ProductService{
		db:              db,
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
		dividendRepo:    dividendRepo,
		expenseRepo:     expenseRepo,
		realizedRepo:    realizedRepo,
	}
}

// ListProducts returns every product of the user, newest first, each with its transactions,
// dividends, expenses and realized profit/loss records.
//
// The attached records are loaded with one query per record type for all products at once.
func (s *ProductService) ListProducts(ctx context.Context, userID string) ([]model.ProductDetail, error) {
	products, err := s.productRepo.ListProducts(ctx, userID)
	if err != nil {
		return nil, err
	}

	details := make([]model.ProductDetail, len(products))
	index := make(map[string]int, len(products))
	for i, p := range products {
		details[i] = newProductDetail(p)
		index[p.ID] = i
	}
	if len(products) == 0 {
		return details, nil
	}

	transactions, err := s.transactionRepo.ListTransactionsForUser(ctx, userID, model.TransactionFilter{SortDir: "asc"})
	if err != nil {
		return nil, err
	}
	for _, t := range transactions {
		if i, ok := index[t.ProductID]; ok {
			details[i].Transactions = append(details[i].Transactions, t.Transaction)
		}
	}

	dividends, err := s.dividendRepo.ListDividendsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, d := range dividends {
		if i, ok := index[d.ProductID]; ok {
			details[i].Dividends = append(details[i].Dividends, d)
		}
	}

	expenses, err := s.expenseRepo.ListExpensesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, e := range expenses {
		if i, ok := index[e.ProductID]; ok {
			details[i].ExpenseRecords = append(details[i].ExpenseRecords, e)
		}
	}

	realized, err := s.realizedRepo.ListRealizedForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, r := range realized {
		if i, ok := index[r.ProductID]; ok {
			details[i].RealizedProfitLoss = append(details[i].RealizedProfitLoss, r)
		}
	}

	return details, nil
}

// GetProduct returns one product of the user with all attached records.
func (s *ProductService) GetProduct(ctx context.Context, productID, userID string) (*model.ProductDetail, error) {
	product, err := s.productRepo.GetProduct(ctx, productID, userID)
	if err != nil {
		return nil, err
	}

	detail := newProductDetail(product)

	if detail.Transactions, err = s.transactionRepo.ListTransactions(ctx, product.ID); err != nil {
		return nil, err
	}
	if detail.Dividends, err = s.dividendRepo.ListDividends(ctx, product.ID); err != nil {
		return nil, err
	}
	if detail.ExpenseRecords, err = s.expenseRepo.ListExpenses(ctx, product.ID); err != nil {
		return nil, err
	}
	if detail.RealizedProfitLoss, err = s.realizedRepo.ListRealized(ctx, product.ID); err != nil {
		return nil, err
	}

	return &detail, nil
}

// CreateProduct registers a new holding for the user.
//
// When the request carries a quantity and a price, an opening BUY with those values is recorded
// in the same database transaction and the product starts with that position. The last known
// market price starts at the opening price.
func (s *ProductService) CreateProduct(ctx context.Context, userID string, req request.CreateProductRequest) (*model.Product, error) {
	category, ok := model.ParseProductCategory(req.Type)
	if !ok {
		return nil, apperrors.ErrInvalidCategory
	}

	now := timestamp()
	product := &model.Product{
		ID:           uuid.New().String(),
		UserID:       userID,
		Ticker:       normalizeTicker(req.Ticker),
		Name:         strings.TrimSpace(req.Name),
		Category:     category,
		Quantity:     decimal.Zero,
		AveragePrice: decimal.Zero,
		Price:        decimal.Zero,
		Dividend:     decimal.Zero,
		Expenses:     decimal.Zero,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var opening *model.Transaction
	if req.Quantity != nil && req.Price != nil {
		date, err := parseDate(req.Date, now)
		if err != nil {
			return nil, err
		}
		opening = &model.Transaction{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Type:      model.TransactionBuy,
			Date:      date,
			Price:     *req.Price,
			Quantity:  *req.Quantity,
			CreatedAt: now,
			UpdatedAt: now,
		}

		pos, err := position.Replay([]model.Transaction{*opening})
		if err != nil {
			return nil, err
		}
		product.Quantity = pos.Quantity
		product.AveragePrice = pos.AveragePrice
		product.Price = *req.Price
	}

	err := repository.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.productRepo.WithTx(tx).InsertProduct(ctx, product); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
		}
		if opening == nil {
			return nil
		}
		if err := s.transactionRepo.WithTx(tx).InsertTransaction(ctx, opening); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct edits ticker, name, category and last known price.
// Quantity and average price are derived from transactions and cannot be changed here.
func (s *ProductService) UpdateProduct(ctx context.Context, productID, userID string, req request.UpdateProductRequest) (*model.Product, error) {
	product, err := s.productRepo.GetProduct(ctx, productID, userID)
	if err != nil {
		return nil, err
	}

	if req.Ticker != nil {
		product.Ticker = normalizeTicker(*req.Ticker)
	}
	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		category, ok := model.ParseProductCategory(*req.Type)
		if !ok {
			return nil, apperrors.ErrInvalidCategory
		}
		product.Category = category
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	product.UpdatedAt = timestamp()

	if err := s.productRepo.UpdateProductDetails(ctx, &product); err != nil {
		return nil, err
	}

	return &product, nil
}

// DeleteProduct removes a product together with all of its records.
func (s *ProductService) DeleteProduct(ctx context.Context, productID, userID string) error {
	return s.productRepo.DeleteProduct(ctx, productID, userID)
}

func newProductDetail(p model.Product) model.ProductDetail {
	return model.ProductDetail{
		Product:            p,
		Transactions:       []model.Transaction{},
		Dividends:          []model.Dividend{},
		ExpenseRecords:     []model.Expense{},
		RealizedProfitLoss: []model.RealizedProfitLoss{},
	}
}
