package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/testutil"
)

func TestPortfolioHandler_Summary(t *testing.T) {
	t.Run("values holdings at live quotes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		quotes := testutil.NewMockQuoteClient().WithPrice("ITSA4", "11")
		handler := NewPortfolioHandler(testutil.NewTestPortfolioService(t, db, quotes))
		user := testutil.CreateUser(t, db)
		testutil.NewProduct(user.ID).WithTicker("ITSA4").WithPosition("100", "10").Build(t, db)

		w := httptest.NewRecorder()
		handler.Summary(w, testutil.WithUserID(httptest.NewRequest(http.MethodGet, "/api/portfolio/summary", nil), user.ID))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var summary model.PortfolioSummary
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&summary)

		if !summary.TotalValue.Equal(testutil.Dec("1100")) || !summary.TotalUnrealizedPL.Equal(testutil.Dec("100")) {
			t.Errorf("Expected value 1100 and P/L 100, got %s and %s", summary.TotalValue, summary.TotalUnrealizedPL)
		}
	})

	t.Run("an unreachable quote feed still returns 200", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		quotes := testutil.NewMockQuoteClient().WithError(apperrors.ErrUpstreamUnavailable)
		handler := NewPortfolioHandler(testutil.NewTestPortfolioService(t, db, quotes))
		user := testutil.CreateUser(t, db)
		testutil.NewProduct(user.ID).WithPosition("10", "10").Build(t, db)

		w := httptest.NewRecorder()
		handler.Summary(w, testutil.WithUserID(httptest.NewRequest(http.MethodGet, "/api/portfolio/summary", nil), user.ID))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var summary model.PortfolioSummary
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&summary)
		if summary.StaleQuotes != 1 {
			t.Errorf("Expected 1 stale quote, got %d", summary.StaleQuotes)
		}
	})
}

func TestPortfolioHandler_Quote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	quotes := testutil.NewMockQuoteClient().WithPrice("WEGE3", "38.2")
	handler := NewPortfolioHandler(testutil.NewTestPortfolioService(t, db, quotes))

	tests := []struct {
		name          string
		ticker        string
		wantAvailable bool
	}{
		{"known ticker", "wege3", true},
		{"unknown ticker", "NOPE3", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/quote/"+tt.ticker, map[string]string{"ticker": tt.ticker})
			w := httptest.NewRecorder()

			handler.Quote(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", w.Code)
			}

			var response model.QuoteResponse
			//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
			json.NewDecoder(w.Body).Decode(&response)
			if response.Available != tt.wantAvailable {
				t.Errorf("Expected available=%v, got %v", tt.wantAvailable, response.Available)
			}
		})
	}
}
