package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/testutil"
)

// TestCashFlowTotals tests that the dividend and expense totals stored on a product follow the
// records attached to it.
func TestCashFlowTotals(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	dividends := testutil.NewTestDividendService(t, db)
	expenses := testutil.NewTestExpenseService(t, db)
	productRepo := repository.NewProductRepository(db)
	user := testutil.CreateUser(t, db)
	product := testutil.NewProduct(user.ID).Build(t, db)

	d1, err := dividends.CreateDividend(ctx, user.ID, request.CreateDividendRequest{ProductID: product.ID, Amount: testutil.Dec("12.50"), Date: "2024-03-01"})
	if err != nil {
		t.Fatalf("CreateDividend() returned unexpected error: %v", err)
	}
	if _, err := dividends.CreateDividend(ctx, user.ID, request.CreateDividendRequest{ProductID: product.ID, Amount: testutil.Dec("7.50"), Date: "2024-04-01"}); err != nil {
		t.Fatalf("CreateDividend() returned unexpected error: %v", err)
	}
	e1, err := expenses.CreateExpense(ctx, user.ID, request.CreateExpenseRequest{ProductID: product.ID, Amount: testutil.Dec("4.90"), Description: "Custody", Date: "2024-03-01"})
	if err != nil {
		t.Fatalf("CreateExpense() returned unexpected error: %v", err)
	}

	stored := storedProduct(t, productRepo, product.ID, user.ID)
	if !stored.Dividend.Equal(testutil.Dec("20")) || !stored.Expenses.Equal(testutil.Dec("4.9")) {
		t.Errorf("Expected totals 20/4.9, got %s/%s", stored.Dividend, stored.Expenses)
	}

	if err := dividends.DeleteDividend(ctx, d1.ID, user.ID); err != nil {
		t.Fatalf("DeleteDividend() returned unexpected error: %v", err)
	}
	if err := expenses.DeleteExpense(ctx, e1.ID, user.ID); err != nil {
		t.Fatalf("DeleteExpense() returned unexpected error: %v", err)
	}

	stored = storedProduct(t, productRepo, product.ID, user.ID)
	if !stored.Dividend.Equal(testutil.Dec("7.5")) || !stored.Expenses.IsZero() {
		t.Errorf("Expected totals 7.5/0 after deletes, got %s/%s", stored.Dividend, stored.Expenses)
	}

	list, err := dividends.ListDividends(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListDividends() returned unexpected error: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Expected 1 dividend, got %d", len(list))
	}
}

func TestCashFlowOwnership(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	owner := testutil.CreateUser(t, db)
	intruder := testutil.CreateUser(t, db)
	product := testutil.NewProduct(owner.ID).Build(t, db)
	dividend := testutil.NewDividend(product.ID).Build(t, db)
	expense := testutil.NewExpense(product.ID).Build(t, db)
	realized := testutil.NewRealized(product.ID).Build(t, db)

	t.Run("cannot attach records to a foreign product", func(t *testing.T) {
		_, err := testutil.NewTestDividendService(t, db).CreateDividend(ctx, intruder.ID, request.CreateDividendRequest{
			ProductID: product.ID, Amount: testutil.Dec("1"), Date: "2024-01-01",
		})
		if !errors.Is(err, apperrors.ErrProductNotFound) {
			t.Errorf("Expected ErrProductNotFound, got %v", err)
		}
	})

	t.Run("cannot delete foreign records", func(t *testing.T) {
		if err := testutil.NewTestDividendService(t, db).DeleteDividend(ctx, dividend.ID, intruder.ID); !errors.Is(err, apperrors.ErrDividendNotFound) {
			t.Errorf("Expected ErrDividendNotFound, got %v", err)
		}
		if err := testutil.NewTestExpenseService(t, db).DeleteExpense(ctx, expense.ID, intruder.ID); !errors.Is(err, apperrors.ErrExpenseNotFound) {
			t.Errorf("Expected ErrExpenseNotFound, got %v", err)
		}
		if err := testutil.NewTestRealizedProfitLossService(t, db).DeleteRealized(ctx, realized.ID, intruder.ID); !errors.Is(err, apperrors.ErrRealizedProfitLossNotFound) {
			t.Errorf("Expected ErrRealizedProfitLossNotFound, got %v", err)
		}
	})

	t.Run("foreign records are not listed", func(t *testing.T) {
		list, err := testutil.NewTestRealizedProfitLossService(t, db).ListRealized(ctx, intruder.ID)
		if err != nil {
			t.Fatalf("ListRealized() returned unexpected error: %v", err)
		}
		if len(list) != 0 {
			t.Errorf("Expected no records, got %d", len(list))
		}
	})
}

func TestRealizedProfitLossService_CreateRealized(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestRealizedProfitLossService(t, db)
	user := testutil.CreateUser(t, db)
	product := testutil.NewProduct(user.ID).Build(t, db)

	rec, err := svc.CreateRealized(ctx, user.ID, request.CreateRealizedProfitLossRequest{
		ProductID: product.ID,
		Amount:    testutil.Dec("-30.456"),
		Date:      "2024-05-01",
	})
	if err != nil {
		t.Fatalf("CreateRealized() returned unexpected error: %v", err)
	}
	if !rec.Amount.Equal(testutil.Dec("-30.46")) {
		t.Errorf("Expected amount rounded to -30.46, got %s", rec.Amount)
	}
	if rec.TransactionID != "" {
		t.Errorf("Expected manual record without transaction, got %q", rec.TransactionID)
	}
}
