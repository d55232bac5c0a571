package testutil

import (
	"database/sql"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/auth"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/pricing"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/repository"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/service"
)

// TestSecret is the token secret used by test issuers.
const TestSecret = "test-secret-do-not-use-in-production"

// NewTestIssuer returns a Fernet token issuer with a one hour TTL.
func NewTestIssuer(t *testing.T) auth.TokenIssuer {
	t.Helper()
	return auth.NewFernetIssuer(TestSecret, time.Hour)
}

func NewTestUserService(t *testing.T, db *sql.DB, proEmail string) *service.UserService {
	t.Helper()

	return service.NewUserService(
		repository.NewUserRepository(db),
		NewTestIssuer(t),
		proEmail,
	)
}

func NewTestProductService(t *testing.T, db *sql.DB) *service.ProductService {
	t.Helper()

	return service.NewProductService(
		db,
		repository.NewProductRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewDividendRepository(db),
		repository.NewExpenseRepository(db),
		repository.NewRealizedProfitLossRepository(db),
	)
}

func NewTestTransactionService(t *testing.T, db *sql.DB, realizeOnSell bool) *service.TransactionService {
	t.Helper()

	return service.NewTransactionService(
		db,
		repository.NewProductRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewRealizedProfitLossRepository(db),
		realizeOnSell,
	)
}

func NewTestDividendService(t *testing.T, db *sql.DB) *service.DividendService {
	t.Helper()

	return service.NewDividendService(
		db,
		repository.NewProductRepository(db),
		repository.NewDividendRepository(db),
		repository.NewExpenseRepository(db),
	)
}

func NewTestExpenseService(t *testing.T, db *sql.DB) *service.ExpenseService {
	t.Helper()

	return service.NewExpenseService(
		db,
		repository.NewProductRepository(db),
		repository.NewDividendRepository(db),
		repository.NewExpenseRepository(db),
	)
}

func NewTestRealizedProfitLossService(t *testing.T, db *sql.DB) *service.RealizedProfitLossService {
	t.Helper()

	return service.NewRealizedProfitLossService(
		db,
		repository.NewProductRepository(db),
		repository.NewRealizedProfitLossRepository(db),
	)
}

// NewTestPortfolioService creates a PortfolioService backed by the given mock quote client.
// Quotes are cached for a minute.
func NewTestPortfolioService(t *testing.T, db *sql.DB, quotes *MockQuoteClient) *service.PortfolioService {
	t.Helper()

	pricingService := pricing.NewService(quotes, pricing.NewCache(time.Minute), 2, nil, nil)

	return service.NewPortfolioService(
		repository.NewProductRepository(db),
		repository.NewRealizedProfitLossRepository(db),
		pricingService,
		nil,
		nil,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeTicker generates an upper-case ticker for testing.
//
// Example usage:
//
//	ticker := testutil.MakeTicker("PETR")
//	// Returns: "PETR1A2B"
func MakeTicker(base string) string {
	if base == "" {
		base = "TEST"
	}
	return strings.ToUpper(base) + randomAlphanumeric(4)
}

// MakeProductName generates a unique product name for testing.
//
// Example usage:
//
//	name := testutil.MakeProductName("Tech Stock")
//	// Returns: "Tech Stock XYZ789"
func MakeProductName(base string) string {
	if base == "" {
		base = "Product"
	}
	return base + " " + randomAlphanumeric(6)
}

// MakeEmail generates a unique lower-case email address for testing.
//
// Example usage:
//
//	email := testutil.MakeEmail("ana")
//	// Returns: "ana.x1y2z3@example.com"
func MakeEmail(base string) string {
	if base == "" {
		base = "user"
	}
	return strings.ToLower(base + "." + randomAlphanumeric(6) + "@example.com")
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
