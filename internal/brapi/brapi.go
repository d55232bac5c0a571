// Package brapi fetches market quotes from the brapi.dev API.
package brapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/config"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
)

// Client is the quote lookup used by the pricing layer.
type Client interface {
	GetQuote(ctx context.Context, ticker string) (model.Quote, error)
}

// QuoteClient queries brapi.dev over HTTP.
// Requests are throttled by a token bucket so that a refresh of many tickers does not trip the
// upstream rate limit.
type QuoteClient struct {
	client  *resty.Client
	limiter *rate.Limiter
	token   string
	now     func() time.Time
}

// NewQuoteClient creates a client from the brapi configuration.
func NewQuoteClient(cfg config.BrapiConfig) *QuoteClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	burst := int(cfg.RatePerSecond)
	if burst < 1 {
		burst = 1
	}

	return &QuoteClient{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst),
		token:   cfg.Token,
		now:     time.Now,
	}
}

// GetQuote returns the current market price of ticker.
//
// Returns:
//   - apperrors.ErrSymbolNotFound when brapi does not know the ticker or returns no price
//   - apperrors.ErrUpstreamUnavailable for transport failures and unexpected statuses
func (c *QuoteClient) GetQuote(ctx context.Context, ticker string) (model.Quote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return model.Quote{}, fmt.Errorf("%w: %w", apperrors.ErrUpstreamUnavailable, err)
	}

	req := c.client.R().
		SetContext(ctx).
		SetPathParam("ticker", ticker).
		SetResult(&Response{}).
		SetError(&ErrorResponse{})
	if c.token != "" {
		req.SetQueryParam("token", c.token)
	}

	resp, err := req.Get("/api/quote/{ticker}")
	if err != nil {
		return model.Quote{}, fmt.Errorf("%w: %w", apperrors.ErrUpstreamUnavailable, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return model.Quote{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, ticker)
	case resp.IsError():
		msg := resp.Status()
		if e, ok := resp.Error().(*ErrorResponse); ok && e.Message != "" {
			msg = e.Message
		}
		return model.Quote{}, fmt.Errorf("%w: brapi returned %s", apperrors.ErrUpstreamUnavailable, msg)
	}

	body, ok := resp.Result().(*Response)
	if !ok || body == nil {
		return model.Quote{}, fmt.Errorf("%w: empty response for %s", apperrors.ErrUpstreamUnavailable, ticker)
	}

	return c.parseQuote(ticker, *body)
}

// parseQuote maps the first result of a response to a Quote.
func (c *QuoteClient) parseQuote(ticker string, body Response) (model.Quote, error) {
	if len(body.Results) == 0 {
		return model.Quote{}, fmt.Errorf("%w: no results returned for %s", apperrors.ErrSymbolNotFound, ticker)
	}

	result := body.Results[0]
	if !result.RegularMarketPrice.Valid || !result.RegularMarketPrice.Decimal.IsPositive() {
		return model.Quote{}, fmt.Errorf("%w: no market price for %s", apperrors.ErrSymbolNotFound, ticker)
	}

	name := result.LongName
	if name == "" {
		name = result.ShortName
	}

	symbol := result.Symbol
	if symbol == "" {
		symbol = ticker
	}

	return model.Quote{
		Ticker:        symbol,
		Name:          name,
		Price:         result.RegularMarketPrice.Decimal,
		Change:        result.RegularMarketChange.Decimal,
		ChangePercent: result.RegularMarketChangePercent.Decimal,
		FetchedAt:     c.now().UTC(),
	}, nil
}
