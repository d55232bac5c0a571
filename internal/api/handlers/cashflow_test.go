package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/testutil"
)

// storedCashTotals reads the persisted dividend and expense totals of a product.
func storedCashTotals(t *testing.T, db *sql.DB, productID string) (string, string) {
	t.Helper()
	var dividend, expenses string
	err := db.QueryRow(`SELECT dividend, expenses FROM product WHERE id = ?`, productID).Scan(&dividend, &expenses)
	if err != nil {
		t.Fatalf("Failed to read product totals: %v", err)
	}
	return dividend, expenses
}

func TestDividendHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewDividendHandler(testutil.NewTestDividendService(t, db))
	user := testutil.CreateUser(t, db)
	product := testutil.NewProduct(user.ID).Build(t, db)

	var created model.Dividend

	t.Run("creates a dividend and updates the product total", func(t *testing.T) {
		body := map[string]any{"productId": product.ID, "amount": 12.5, "date": "2024-05-15"}
		req := testutil.WithUserID(testutil.NewJSONRequest(t, http.MethodPost, "/api/dividend", body), user.ID)
		w := httptest.NewRecorder()

		handler.CreateDividend(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&created)

		if dividend, _ := storedCashTotals(t, db, product.ID); dividend != "12.5" {
			t.Errorf("Expected dividend total 12.5, got %s", dividend)
		}
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		body := map[string]any{"productId": product.ID, "amount": 0, "date": "2024-05-15"}
		req := testutil.WithUserID(testutil.NewJSONRequest(t, http.MethodPost, "/api/dividend", body), user.ID)
		w := httptest.NewRecorder()

		handler.CreateDividend(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("lists the user's dividends", func(t *testing.T) {
		w := httptest.NewRecorder()

		handler.ListDividends(w, testutil.WithUserID(httptest.NewRequest(http.MethodGet, "/api/dividend", nil), user.ID))

		var dividends []model.Dividend
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&dividends)
		if len(dividends) != 1 || dividends[0].ID != created.ID {
			t.Errorf("Expected the created dividend, got %d records", len(dividends))
		}
	})

	t.Run("deleting resets the product total", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/dividend/"+created.ID, map[string]string{"uuid": created.ID})
		w := httptest.NewRecorder()

		handler.DeleteDividend(w, testutil.WithUserID(req, user.ID))

		if w.Code != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d: %s", w.Code, w.Body.String())
		}
		if dividend, _ := storedCashTotals(t, db, product.ID); dividend != "0" {
			t.Errorf("Expected dividend total 0, got %s", dividend)
		}
	})
}

func TestExpenseHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewExpenseHandler(testutil.NewTestExpenseService(t, db))
	user := testutil.CreateUser(t, db)
	product := testutil.NewProduct(user.ID).Build(t, db)

	t.Run("creates an expense", func(t *testing.T) {
		body := map[string]any{"productId": product.ID, "amount": 4.9, "description": "Custody fee", "date": "2024-05-15"}
		req := testutil.WithUserID(testutil.NewJSONRequest(t, http.MethodPost, "/api/expense", body), user.ID)
		w := httptest.NewRecorder()

		handler.CreateExpense(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		if _, expenses := storedCashTotals(t, db, product.ID); expenses != "4.9" {
			t.Errorf("Expected expense total 4.9, got %s", expenses)
		}
	})

	t.Run("returns 404 for another user's product", func(t *testing.T) {
		other := testutil.CreateUser(t, db)
		body := map[string]any{"productId": product.ID, "amount": 1, "description": "Fee", "date": "2024-05-15"}
		req := testutil.WithUserID(testutil.NewJSONRequest(t, http.MethodPost, "/api/expense", body), other.ID)
		w := httptest.NewRecorder()

		handler.CreateExpense(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("deleting an unknown expense returns 404", func(t *testing.T) {
		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/expense/"+id, map[string]string{"uuid": id})
		w := httptest.NewRecorder()

		handler.DeleteExpense(w, testutil.WithUserID(req, user.ID))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}

func TestRealizedProfitLossHandler(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewRealizedProfitLossHandler(testutil.NewTestRealizedProfitLossService(t, db))
	user := testutil.CreateUser(t, db)
	product := testutil.NewProduct(user.ID).Build(t, db)

	t.Run("accepts a manual loss", func(t *testing.T) {
		body := map[string]any{"productId": product.ID, "amount": -150.255, "date": "2024-06-01"}
		req := testutil.WithUserID(testutil.NewJSONRequest(t, http.MethodPost, "/api/realized", body), user.ID)
		w := httptest.NewRecorder()

		handler.CreateRealized(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var record model.RealizedProfitLoss
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&record)
		if record.TransactionID != "" {
			t.Errorf("Expected an unlinked record, got %q", record.TransactionID)
		}
		if record.Amount.IsPositive() {
			t.Errorf("Expected a loss, got %s", record.Amount)
		}
	})

	t.Run("rejects a zero amount", func(t *testing.T) {
		body := map[string]any{"productId": product.ID, "amount": 0, "date": "2024-06-01"}
		req := testutil.WithUserID(testutil.NewJSONRequest(t, http.MethodPost, "/api/realized", body), user.ID)
		w := httptest.NewRecorder()

		handler.CreateRealized(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}
