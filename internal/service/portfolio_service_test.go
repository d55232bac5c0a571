package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/testutil"
)

// TestPortfolioService_GetSummary tests valuation and aggregation.
//
// WHY: a missing quote must fall back to the last known price, never to zero, and must not
// affect the valuation of the other products.
func TestPortfolioService_GetSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("returns empty summary when the user has no products", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockQuoteClient())
		user := testutil.CreateUser(t, db)

		summary, err := svc.GetSummary(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetSummary() returned unexpected error: %v", err)
		}
		if len(summary.Products) != 0 || !summary.TotalValue.IsZero() || len(summary.Allocation) != 0 {
			t.Errorf("Expected empty summary, got %+v", summary)
		}
	})

	t.Run("values live, stale and never priced products", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		quotes := testutil.NewMockQuoteClient().WithPrice("PETR4", "25")
		svc := testutil.NewTestPortfolioService(t, db, quotes)
		user := testutil.CreateUser(t, db)

		live := testutil.NewProduct(user.ID).WithTicker("PETR4").WithPosition("100", "20").
			WithPrice("22").WithCashTotals("10", "2").Build(t, db)
		testutil.NewProduct(user.ID).WithTicker("HGLG11").WithCategory(model.CategoryFII).
			WithPosition("10", "150").WithPrice("160").Build(t, db)
		testutil.NewProduct(user.ID).WithTicker("NOPRICE").WithCategory(model.CategoryETF).
			WithPosition("4", "50").Build(t, db)
		testutil.NewRealized(live.ID).WithAmount("30").Build(t, db)

		summary, err := svc.GetSummary(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetSummary() returned unexpected error: %v", err)
		}

		byTicker := map[string]model.ProductMetrics{}
		for _, pm := range summary.Products {
			byTicker[pm.Ticker] = pm
		}

		petr := byTicker["PETR4"]
		if petr.PriceSource != model.PriceSourceLive || !petr.CurrentValue.Equal(testutil.Dec("2500")) {
			t.Errorf("Expected live value 2500, got %s (%s)", petr.CurrentValue, petr.PriceSource)
		}
		if !petr.UnrealizedPL.Equal(testutil.Dec("500")) || !petr.UnrealizedPLPercent.Equal(testutil.Dec("25")) {
			t.Errorf("Expected unrealized 500 (25%%), got %s (%s%%)", petr.UnrealizedPL, petr.UnrealizedPLPercent)
		}
		if !petr.TotalReturn.Equal(testutil.Dec("508")) || !petr.RealizedPL.Equal(testutil.Dec("30")) {
			t.Errorf("Expected total return 508 and realized 30, got %s and %s", petr.TotalReturn, petr.RealizedPL)
		}

		hglg := byTicker["HGLG11"]
		if hglg.PriceSource != model.PriceSourceLastKnown || !hglg.CurrentValue.Equal(testutil.Dec("1600")) {
			t.Errorf("Expected last known value 1600, got %s (%s)", hglg.CurrentValue, hglg.PriceSource)
		}

		never := byTicker["NOPRICE"]
		if never.PriceSource != model.PriceSourceCost || !never.CurrentValue.Equal(testutil.Dec("200")) {
			t.Errorf("Expected value at cost 200, got %s (%s)", never.CurrentValue, never.PriceSource)
		}

		if summary.StaleQuotes != 2 {
			t.Errorf("Expected 2 stale quotes, got %d", summary.StaleQuotes)
		}
		if !summary.TotalValue.Equal(testutil.Dec("4300")) {
			t.Errorf("Expected total value 4300, got %s", summary.TotalValue)
		}
		if !summary.TotalRealizedPL.Equal(testutil.Dec("30")) {
			t.Errorf("Expected total realized 30, got %s", summary.TotalRealizedPL)
		}

		if len(summary.Allocation) != 3 {
			t.Fatalf("Expected 3 allocation entries, got %d", len(summary.Allocation))
		}
		if summary.Allocation[0].Category != model.CategoryStock || !summary.Allocation[0].Percent.Equal(testutil.Dec("58.14")) {
			t.Errorf("Expected STOCK first at 58.14%%, got %+v", summary.Allocation[0])
		}
	})

	t.Run("feed outage values everything at last known prices", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		quotes := testutil.NewMockQuoteClient().WithError(apperrors.ErrUpstreamUnavailable)
		svc := testutil.NewTestPortfolioService(t, db, quotes)
		user := testutil.CreateUser(t, db)
		testutil.NewProduct(user.ID).WithPosition("10", "10").WithPrice("12").Build(t, db)

		summary, err := svc.GetSummary(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetSummary() returned unexpected error: %v", err)
		}
		if !summary.TotalValue.Equal(testutil.Dec("120")) {
			t.Errorf("Expected total value 120, got %s", summary.TotalValue)
		}
	})
}

func TestPortfolioService_GetProductMetrics(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockQuoteClient().WithPrice("VALE3", "70"))
	user := testutil.CreateUser(t, db)
	product := testutil.NewProduct(user.ID).WithTicker("VALE3").WithPosition("3", "60").Build(t, db)

	pm, err := svc.GetProductMetrics(ctx, product.ID, user.ID)
	if err != nil {
		t.Fatalf("GetProductMetrics() returned unexpected error: %v", err)
	}
	if !pm.CurrentValue.Equal(testutil.Dec("210")) || !pm.CostBasis.Equal(testutil.Dec("180")) {
		t.Errorf("Expected 210/180, got %s/%s", pm.CurrentValue, pm.CostBasis)
	}

	other := testutil.CreateUser(t, db)
	if _, err := svc.GetProductMetrics(ctx, product.ID, other.ID); !errors.Is(err, apperrors.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestPortfolioService_RefreshPrices(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	quotes := testutil.NewMockQuoteClient().WithPrice("ITUB4", "33.10")
	svc := testutil.NewTestPortfolioService(t, db, quotes)
	productRepo := repository.NewProductRepository(db)

	alice := testutil.CreateUser(t, db)
	bob := testutil.CreateUser(t, db)
	a := testutil.NewProduct(alice.ID).WithTicker("ITUB4").WithPrice("30").Build(t, db)
	b := testutil.NewProduct(bob.ID).WithTicker("ITUB4").WithPrice("31").Build(t, db)
	missing := testutil.NewProduct(bob.ID).WithTicker("GONE3").WithPrice("9").Build(t, db)

	if err := svc.RefreshPrices(ctx); err != nil {
		t.Fatalf("RefreshPrices() returned unexpected error: %v", err)
	}

	if p := storedProduct(t, productRepo, a.ID, alice.ID); !p.Price.Equal(testutil.Dec("33.1")) {
		t.Errorf("Expected price 33.1, got %s", p.Price)
	}
	if p := storedProduct(t, productRepo, b.ID, bob.ID); !p.Price.Equal(testutil.Dec("33.1")) {
		t.Errorf("Expected price 33.1 for every holder, got %s", p.Price)
	}
	if p := storedProduct(t, productRepo, missing.ID, bob.ID); !p.Price.Equal(testutil.Dec("9")) {
		t.Errorf("Expected last known price 9 to be kept, got %s", p.Price)
	}
}

func TestPortfolioService_Quote(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	quotes := testutil.NewMockQuoteClient().WithPrice("BBAS3", "27.5")
	svc := testutil.NewTestPortfolioService(t, db, quotes)

	got := svc.Quote(ctx, "bbas3")
	if !got.Available || got.Quote == nil || !got.Quote.Price.Equal(testutil.Dec("27.5")) {
		t.Errorf("Expected available quote 27.5, got %+v", got)
	}

	svc.Quote(ctx, "BBAS3")
	if quotes.Calls() != 1 {
		t.Errorf("Expected second lookup to hit the cache, got %d upstream calls", quotes.Calls())
	}

	if missing := svc.Quote(ctx, "XXXX3"); missing.Available || missing.Quote != nil {
		t.Errorf("Expected unavailable quote, got %+v", missing)
	}
}
