package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/metrics"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/position"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/pricing"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/repository"
)

// Refresh run results reported to metrics.
const (
	refreshOK      = "ok"
	refreshPartial = "partial"
	refreshFailed  = "failed"
)

var hundred = decimal.NewFromInt(100)

// PortfolioService values the user's products with live quotes and aggregates them.
//
// Quotes come from the pricing service; a ticker without a quote is valued at its last known
// price, never at zero.
type PortfolioService struct {
	productRepo  *repository.ProductRepository
	realizedRepo *repository.RealizedProfitLossRepository
	pricing      *pricing.Service
	logger       *zap.Logger
	metrics      *metrics.Metrics
}

// NewPortfolioService creates a new PortfolioService. logger and m may be nil.
func NewPortfolioService(
	productRepo *repository.ProductRepository,
	realizedRepo *repository.RealizedProfitLossRepository,
	pricingService *pricing.Service,
	logger *zap.Logger,
	m *metrics.Metrics,
) *PortfolioService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortfolioService{
		productRepo:  productRepo,
		realizedRepo: realizedRepo,
		pricing:      pricingService,
		logger:       logger,
		metrics:      m,
	}
}

// GetSummary returns the metrics of every product of the user together with portfolio totals
// and the market value allocation by category.
func (s *PortfolioService) GetSummary(ctx context.Context, userID string) (*model.PortfolioSummary, error) {
	products, err := s.productRepo.ListProducts(ctx, userID)
	if err != nil {
		return nil, err
	}

	realized, err := s.realizedRepo.ListRealizedForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	realizedByProduct := make(map[string]decimal.Decimal, len(products))
	for _, r := range realized {
		realizedByProduct[r.ProductID] = realizedByProduct[r.ProductID].Add(r.Amount)
	}

	tickers := make([]string, 0, len(products))
	seen := make(map[string]bool, len(products))
	for _, p := range products {
		if !seen[p.Ticker] {
			seen[p.Ticker] = true
			tickers = append(tickers, p.Ticker)
		}
	}
	quotes := s.pricing.Quotes(ctx, tickers)

	summary := &model.PortfolioSummary{
		Products:   make([]model.ProductMetrics, 0, len(products)),
		Allocation: []model.CategoryAllocation{},
	}

	var totalValue, totalCost, totalUnrealized, totalDividends, totalExpenses, totalRealized, totalReturn decimal.Decimal
	byCategory := make(map[model.ProductCategory]decimal.Decimal)

	for _, p := range products {
		var quote *model.Quote
		if q, ok := quotes[normalizeTicker(p.Ticker)]; ok {
			quote = &q
		}

		raw := valueProduct(p, quote)
		pm := productMetrics(p, quote, raw, realizedByProduct[p.ID])
		if pm.PriceSource != model.PriceSourceLive {
			summary.StaleQuotes++
		}
		summary.Products = append(summary.Products, pm)

		totalValue = totalValue.Add(raw.CurrentValue)
		totalCost = totalCost.Add(raw.CostBasis)
		totalUnrealized = totalUnrealized.Add(raw.UnrealizedPL)
		totalDividends = totalDividends.Add(raw.Dividends)
		totalExpenses = totalExpenses.Add(raw.Expenses)
		totalRealized = totalRealized.Add(realizedByProduct[p.ID])
		totalReturn = totalReturn.Add(raw.TotalReturn)
		byCategory[p.Category] = byCategory[p.Category].Add(raw.CurrentValue)
	}

	summary.TotalValue = round(totalValue)
	summary.TotalCost = round(totalCost)
	summary.TotalUnrealizedPL = round(totalUnrealized)
	summary.TotalDividends = round(totalDividends)
	summary.TotalExpenses = round(totalExpenses)
	summary.TotalRealizedPL = round(totalRealized)
	summary.TotalReturn = round(totalReturn)
	summary.Allocation = allocation(byCategory, totalValue)

	return summary, nil
}

// GetProductMetrics values a single product of the user with a live quote when available.
func (s *PortfolioService) GetProductMetrics(ctx context.Context, productID, userID string) (*model.ProductMetrics, error) {
	product, err := s.productRepo.GetProduct(ctx, productID, userID)
	if err != nil {
		return nil, err
	}

	realized, err := s.realizedRepo.SumRealized(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	quote := s.pricing.Quote(ctx, product.Ticker)
	pm := productMetrics(product, quote, valueProduct(product, quote), realized)
	return &pm, nil
}

// Quote looks a ticker up through the price cache.
func (s *PortfolioService) Quote(ctx context.Context, ticker string) model.QuoteResponse {
	ticker = normalizeTicker(ticker)
	q := s.pricing.Quote(ctx, ticker)
	return model.QuoteResponse{
		Ticker:    ticker,
		Available: q != nil,
		Quote:     q,
	}
}

// RefreshPrices fetches a fresh quote for every held ticker and stores it as the products' last
// known price. Tickers the feed has no data for keep their previous price.
//
// Used by the scheduler; the returned error is only set when the ticker list cannot be read or
// no price could be stored at all.
func (s *PortfolioService) RefreshPrices(ctx context.Context) error {
	tickers, err := s.productRepo.ListTickers(ctx)
	if err != nil {
		s.metrics.RefreshRun(refreshFailed)
		return err
	}
	if len(tickers) == 0 {
		s.metrics.RefreshRun(refreshOK)
		return nil
	}

	quotes := s.pricing.Refresh(ctx, tickers)

	now := timestamp()
	var updated int64
	var lastErr error
	for _, ticker := range tickers {
		q, ok := quotes[normalizeTicker(ticker)]
		if !ok {
			continue
		}
		n, err := s.productRepo.UpdatePriceByTicker(ctx, ticker, q.Price, now)
		if err != nil {
			lastErr = err
			s.logger.Error("failed to store price", zap.String("ticker", ticker), zap.Error(err))
			continue
		}
		updated += n
	}

	result := refreshOK
	switch {
	case len(quotes) == 0 || (lastErr != nil && updated == 0):
		result = refreshFailed
	case len(quotes) < len(tickers) || lastErr != nil:
		result = refreshPartial
	}
	s.metrics.RefreshRun(result)

	s.logger.Info("price refresh finished",
		zap.Int("tickers", len(tickers)),
		zap.Int("quotes", len(quotes)),
		zap.Int64("products_updated", updated),
		zap.String("result", result),
	)

	if lastErr != nil && updated == 0 {
		return lastErr
	}
	return nil
}

// valueProduct picks the valuation price and computes the unrounded metrics.
func valueProduct(p model.Product, quote *model.Quote) position.Metrics {
	price, _ := valuationPrice(p, quote)
	return position.ComputeDerivedMetrics(position.MetricsInput{
		Position:  position.FromProduct(p),
		LivePrice: price,
		Dividends: []decimal.Decimal{p.Dividend},
		Expenses:  []decimal.Decimal{p.Expenses},
	})
}

// valuationPrice prefers the live quote, then the stored last known price, then the average
// price when the product was never priced.
func valuationPrice(p model.Product, quote *model.Quote) (decimal.Decimal, model.PriceSource) {
	switch {
	case quote != nil:
		return quote.Price, model.PriceSourceLive
	case p.Price.IsPositive():
		return p.Price, model.PriceSourceLastKnown
	default:
		return p.AveragePrice, model.PriceSourceCost
	}
}

func productMetrics(p model.Product, quote *model.Quote, m position.Metrics, realized decimal.Decimal) model.ProductMetrics {
	price, source := valuationPrice(p, quote)

	pm := model.ProductMetrics{
		ProductID:           p.ID,
		Ticker:              p.Ticker,
		Name:                p.Name,
		Category:            p.Category,
		Quantity:            p.Quantity,
		AveragePrice:        round(p.AveragePrice),
		Price:               price,
		PriceSource:         source,
		CurrentValue:        round(m.CurrentValue),
		CostBasis:           round(m.CostBasis),
		UnrealizedPL:        round(m.UnrealizedPL),
		UnrealizedPLPercent: round(m.UnrealizedPLPercent),
		Dividends:           round(m.Dividends),
		Expenses:            round(m.Expenses),
		RealizedPL:          round(realized),
		TotalReturn:         round(m.TotalReturn),
	}
	if quote != nil {
		change := quote.ChangePercent
		pm.ChangePercent = &change
	}
	return pm
}

func allocation(byCategory map[model.ProductCategory]decimal.Decimal, total decimal.Decimal) []model.CategoryAllocation {
	result := []model.CategoryAllocation{}
	for _, c := range model.ProductCategories {
		value, ok := byCategory[c]
		if !ok || !value.IsPositive() {
			continue
		}
		percent := decimal.Zero
		if total.IsPositive() {
			percent = value.Div(total).Mul(hundred)
		}
		result = append(result, model.CategoryAllocation{
			Category: c,
			Label:    c.Label(),
			Value:    round(value),
			Percent:  round(percent),
		})
	}
	return result
}

