package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
// A resource owned by another user is reported with the same error as a missing one.
var (
	// ErrUserNotFound indicates that no user exists for the given ID or email.
	ErrUserNotFound = errors.New("user not found")

	// ErrProductNotFound indicates that a product with the given ID does not exist for the owner.
	ErrProductNotFound = errors.New("product not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist for the owner.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrDividendNotFound indicates that a dividend record with the given ID does not exist for the owner.
	ErrDividendNotFound = errors.New("dividend not found")

	// ErrExpenseNotFound indicates that an expense record with the given ID does not exist for the owner.
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrRealizedProfitLossNotFound indicates that a realized profit/loss record does not exist for the owner.
	ErrRealizedProfitLossNotFound = errors.New("realized profit/loss not found")

	// ErrSymbolNotFound indicates that the price feed returned no results for a ticker.
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientShares indicates that a sell transaction would sell more than is held,
	// either directly or after replaying an edited history.
	ErrInsufficientShares = errors.New("insufficient shares for sale")

	// ErrInvalidAmount indicates a non-positive quantity, price or amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidDate indicates a malformed date.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidCategory indicates an unknown product category.
	ErrInvalidCategory = errors.New("invalid product category")

	// ErrInvalidTransactionType indicates a transaction type other than BUY or SELL.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrTransactionNotSell indicates that realized profit/loss was requested for a BUY.
	ErrTransactionNotSell = errors.New("transaction is not a sell")

	// ErrAlreadyRealized indicates that a sell already has a realized profit/loss record.
	ErrAlreadyRealized = errors.New("transaction already realized")

	// ErrEmailTaken indicates that a user with the same email already exists.
	ErrEmailTaken = errors.New("email already registered")
)

// Authentication errors.
var (
	// ErrUnauthorized indicates a missing, invalid or expired credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials indicates a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Infrastructure errors.
var (
	// ErrUpstreamUnavailable indicates that the price feed could not be reached or answered with an error.
	ErrUpstreamUnavailable = errors.New("price feed unavailable")

	// ErrConcurrentModification indicates that a product changed between read and write.
	ErrConcurrentModification = errors.New("product was modified concurrently")

	// ErrPersistence wraps storage-layer failures. The operation is considered not applied.
	ErrPersistence = errors.New("storage failure")
)

// Generic operation failure messages used in HTTP responses.
var (
	ErrFailedToRetrieveProducts     = errors.New("failed to retrieve products")
	ErrFailedToRetrieveProduct      = errors.New("failed to retrieve product")
	ErrFailedToCreateProduct        = errors.New("failed to create product")
	ErrFailedToUpdateProduct        = errors.New("failed to update product")
	ErrFailedToDeleteProduct        = errors.New("failed to delete product")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToCreateTransaction    = errors.New("failed to create transaction")
	ErrFailedToUpdateTransaction    = errors.New("failed to update transaction")
	ErrFailedToDeleteTransaction    = errors.New("failed to delete transaction")
	ErrFailedToRealizeTransaction   = errors.New("failed to realize transaction")
	ErrFailedToRetrieveDividends    = errors.New("failed to retrieve dividends")
	ErrFailedToRetrieveExpenses     = errors.New("failed to retrieve expenses")
	ErrFailedToRetrieveRealized     = errors.New("failed to retrieve realized profit/loss")
	ErrFailedToSaveRecord           = errors.New("failed to save record")
	ErrFailedToDeleteRecord         = errors.New("failed to delete record")
	ErrFailedToGetPortfolioSummary  = errors.New("failed to get portfolio summary")
	ErrFailedToGetProductMetrics    = errors.New("failed to get product metrics")
	ErrFailedToSignup               = errors.New("failed to create user")
	ErrFailedToLogin                = errors.New("failed to log in")
	ErrFailedToGetVersionInfo       = errors.New("failed to get version information")
)

var notFoundErrors = []error{
	ErrUserNotFound,
	ErrProductNotFound,
	ErrTransactionNotFound,
	ErrDividendNotFound,
	ErrExpenseNotFound,
	ErrRealizedProfitLossNotFound,
	ErrSymbolNotFound,
}

var validationErrors = []error{
	ErrInsufficientShares,
	ErrInvalidAmount,
	ErrInvalidDate,
	ErrInvalidCategory,
	ErrInvalidTransactionType,
	ErrTransactionNotSell,
	ErrAlreadyRealized,
}

// IsNotFound reports whether err wraps one of the entity not-found errors.
func IsNotFound(err error) bool {
	return isAny(err, notFoundErrors)
}

// IsValidation reports whether err wraps one of the business validation errors.
func IsValidation(err error) bool {
	return isAny(err, validationErrors)
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
