package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
)

// MockQuoteClient is a mock implementation of brapi.Client for testing.
// It returns predefined prices instead of making actual API calls.
// Tickers without a configured price return apperrors.ErrSymbolNotFound.
type MockQuoteClient struct {
	mu sync.Mutex
	// Prices maps upper-cased ticker to the price returned
	Prices map[string]decimal.Decimal
	// Errors maps upper-cased ticker to an error returned instead of a price
	Errors map[string]error
	// MockError, when set, is returned for every ticker
	MockError error
	// QueryCount tracks how many times GetQuote was called
	QueryCount int
}

// NewMockQuoteClient creates a mock client with no prices configured.
func NewMockQuoteClient() *MockQuoteClient {
	return &MockQuoteClient{
		Prices: make(map[string]decimal.Decimal),
		Errors: make(map[string]error),
	}
}

// WithPrice configures the price returned for ticker.
func (m *MockQuoteClient) WithPrice(ticker, price string) *MockQuoteClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prices[strings.ToUpper(ticker)] = decimal.RequireFromString(price)
	return m
}

// WithTickerError configures ticker to fail with err.
func (m *MockQuoteClient) WithTickerError(ticker string, err error) *MockQuoteClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[strings.ToUpper(ticker)] = err
	return m
}

// WithError configures the mock to fail every lookup with err.
func (m *MockQuoteClient) WithError(err error) *MockQuoteClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MockError = err
	return m
}

// Calls returns the number of GetQuote calls so far.
func (m *MockQuoteClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.QueryCount
}

// GetQuote returns the configured price for ticker.
func (m *MockQuoteClient) GetQuote(ctx context.Context, ticker string) (model.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QueryCount++
	if err := ctx.Err(); err != nil {
		return model.Quote{}, fmt.Errorf("%w: %w", apperrors.ErrUpstreamUnavailable, err)
	}
	if m.MockError != nil {
		return model.Quote{}, m.MockError
	}

	key := strings.ToUpper(ticker)
	if err, ok := m.Errors[key]; ok {
		return model.Quote{}, err
	}
	price, ok := m.Prices[key]
	if !ok {
		return model.Quote{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, ticker)
	}

	return model.Quote{
		Ticker:    key,
		Name:      key + " Test Corp",
		Price:     price,
		FetchedAt: time.Now().UTC(),
	}, nil
}
