package pricing

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/brapi"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/metrics"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
)

// Lookup outcomes reported to metrics.
const (
	outcomeHit         = "hit"
	outcomeLive        = "live"
	outcomeUnavailable = "unavailable"
)

// Service answers quote lookups from the cache and falls back to the quote feed.
//
// A failed lookup is never an error for callers: it yields nil, meaning "no live data, use the
// last known price".
type Service struct {
	client      brapi.Client
	cache       *Cache
	concurrency int
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

// NewService creates a pricing service. concurrency bounds the number of simultaneous upstream
// requests during Refresh.
func NewService(client brapi.Client, cache *Cache, concurrency int, logger *zap.Logger, m *metrics.Metrics) *Service {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:      client,
		cache:       cache,
		concurrency: concurrency,
		logger:      logger,
		metrics:     m,
	}
}

// Quote returns a quote for ticker, or nil when none could be obtained.
func (s *Service) Quote(ctx context.Context, ticker string) *model.Quote {
	ticker = normalize(ticker)
	if ticker == "" {
		return nil
	}

	if q, ok := s.cache.Get(ticker); ok {
		s.metrics.QuoteLookup(outcomeHit)
		return &q
	}

	q, err := s.fetch(ctx, ticker)
	if err != nil {
		s.metrics.QuoteLookup(outcomeUnavailable)
		s.logFailure(ticker, err)
		return nil
	}

	s.metrics.QuoteLookup(outcomeLive)
	return &q
}

// Quotes looks up several tickers concurrently and returns the ones that succeeded, keyed by
// upper-cased ticker.
func (s *Service) Quotes(ctx context.Context, tickers []string) map[string]model.Quote {
	return s.collect(ctx, tickers, func(ctx context.Context, ticker string) *model.Quote {
		return s.Quote(ctx, ticker)
	})
}

// Refresh fetches every ticker from the feed regardless of the cache and stores the results.
// One failing ticker does not affect the others; the call returns once all lookups finished.
func (s *Service) Refresh(ctx context.Context, tickers []string) map[string]model.Quote {
	return s.collect(ctx, tickers, func(ctx context.Context, ticker string) *model.Quote {
		q, err := s.fetch(ctx, ticker)
		if err != nil {
			s.logFailure(ticker, err)
			return nil
		}
		return &q
	})
}

func (s *Service) collect(ctx context.Context, tickers []string, lookup func(context.Context, string) *model.Quote) map[string]model.Quote {
	results := make([]*model.Quote, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, ticker := range tickers {
		g.Go(func() error {
			results[i] = lookup(gctx, ticker)
			return nil
		})
	}
	_ = g.Wait()

	quotes := make(map[string]model.Quote, len(tickers))
	for _, q := range results {
		if q != nil {
			quotes[normalize(q.Ticker)] = *q
		}
	}
	return quotes
}

func (s *Service) fetch(ctx context.Context, ticker string) (model.Quote, error) {
	start := time.Now()
	q, err := s.client.GetQuote(ctx, normalize(ticker))
	s.metrics.ObserveQuoteFetch(time.Since(start))
	if err != nil {
		return model.Quote{}, err
	}

	// Keep the cache keyed by the requested ticker even if the feed answers with another spelling.
	q.Ticker = normalize(ticker)
	s.cache.Set(q)
	return q, nil
}

func (s *Service) logFailure(ticker string, err error) {
	if errors.Is(err, apperrors.ErrSymbolNotFound) {
		s.logger.Debug("no quote for ticker", zap.String("ticker", ticker), zap.Error(err))
		return
	}
	s.logger.Warn("quote lookup failed, using last known price", zap.String("ticker", ticker), zap.Error(err))
}
