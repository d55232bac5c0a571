package pricing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/pricing"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/testutil"
)

func TestService_Quote(t *testing.T) {
	t.Run("fetches and caches a quote", func(t *testing.T) {
		client := testutil.NewMockQuoteClient().WithPrice("ITSA4", "10.50")
		svc := pricing.NewService(client, pricing.NewCache(time.Minute), 2, nil, nil)

		q := svc.Quote(context.Background(), "itsa4")
		if q == nil {
			t.Fatal("Expected a quote, got nil")
		}
		if !q.Price.Equal(decimal.RequireFromString("10.50")) {
			t.Errorf("Expected price 10.50, got %s", q.Price)
		}

		_ = svc.Quote(context.Background(), "ITSA4")
		if client.Calls() != 1 {
			t.Errorf("Expected 1 upstream call, got %d", client.Calls())
		}
	})

	t.Run("returns nil when the feed fails", func(t *testing.T) {
		client := testutil.NewMockQuoteClient().WithError(apperrors.ErrUpstreamUnavailable)
		svc := pricing.NewService(client, pricing.NewCache(time.Minute), 2, nil, nil)

		if q := svc.Quote(context.Background(), "ITSA4"); q != nil {
			t.Errorf("Expected nil quote, got %+v", q)
		}
	})

	t.Run("returns nil for unknown tickers", func(t *testing.T) {
		client := testutil.NewMockQuoteClient()
		svc := pricing.NewService(client, pricing.NewCache(time.Minute), 2, nil, nil)

		if q := svc.Quote(context.Background(), "NOPE3"); q != nil {
			t.Errorf("Expected nil quote, got %+v", q)
		}
	})

	t.Run("returns nil for a blank ticker without calling the feed", func(t *testing.T) {
		client := testutil.NewMockQuoteClient()
		svc := pricing.NewService(client, pricing.NewCache(time.Minute), 2, nil, nil)

		if q := svc.Quote(context.Background(), "  "); q != nil {
			t.Errorf("Expected nil quote, got %+v", q)
		}
		if client.Calls() != 0 {
			t.Errorf("Expected no upstream calls, got %d", client.Calls())
		}
	})
}

func TestService_Refresh(t *testing.T) {
	t.Run("isolates failures per ticker", func(t *testing.T) {
		client := testutil.NewMockQuoteClient().
			WithPrice("PETR4", "38.00").
			WithPrice("VALE3", "61.20").
			WithTickerError("BBAS3", errors.New("connection reset"))
		svc := pricing.NewService(client, pricing.NewCache(time.Minute), 2, nil, nil)

		quotes := svc.Refresh(context.Background(), []string{"PETR4", "BBAS3", "VALE3", "NOPE3"})

		if len(quotes) != 2 {
			t.Fatalf("Expected 2 quotes, got %d", len(quotes))
		}
		if _, ok := quotes["BBAS3"]; ok {
			t.Error("Expected failing ticker to be absent")
		}
		if q := quotes["VALE3"]; !q.Price.Equal(decimal.RequireFromString("61.20")) {
			t.Errorf("Expected VALE3 at 61.20, got %s", q.Price)
		}
		if client.Calls() != 4 {
			t.Errorf("Expected 4 upstream calls, got %d", client.Calls())
		}
	})

	t.Run("bypasses the cache", func(t *testing.T) {
		client := testutil.NewMockQuoteClient().WithPrice("PETR4", "38.00")
		svc := pricing.NewService(client, pricing.NewCache(time.Hour), 1, nil, nil)

		_ = svc.Quote(context.Background(), "PETR4")
		_ = svc.Refresh(context.Background(), []string{"PETR4"})

		if client.Calls() != 2 {
			t.Errorf("Expected 2 upstream calls, got %d", client.Calls())
		}
	})

	t.Run("quotes uses the cache", func(t *testing.T) {
		client := testutil.NewMockQuoteClient().WithPrice("PETR4", "38.00").WithPrice("VALE3", "61.20")
		svc := pricing.NewService(client, pricing.NewCache(time.Hour), 4, nil, nil)

		_ = svc.Quotes(context.Background(), []string{"PETR4", "VALE3"})
		quotes := svc.Quotes(context.Background(), []string{"PETR4", "VALE3"})

		if len(quotes) != 2 {
			t.Errorf("Expected 2 quotes, got %d", len(quotes))
		}
		if client.Calls() != 2 {
			t.Errorf("Expected 2 upstream calls, got %d", client.Calls())
		}
	})
}
