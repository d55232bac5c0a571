package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000000Z07:00"
)

// Date parses a "2006-01-02" string and fails the test on error.
func Date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		t.Fatalf("Failed to parse date %q: %v", s, err)
	}
	return d
}

// Dec parses a decimal string and panics on error. Only use it with literals.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func stamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// UserBuilder provides a fluent interface for creating test users.
//
// Example usage:
//
//	user := testutil.NewUser().
//	    WithEmail("investor@example.com").
//	    Build(t, db)
type UserBuilder struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Plan         model.Plan
}

// NewUser creates a UserBuilder with sensible defaults.
// The default password hash does not match any password; use WithPasswordHash for login tests.
func NewUser() *UserBuilder {
	return &UserBuilder{
		ID:           MakeID(),
		Name:         "Test User",
		Email:        MakeEmail("user"),
		PasswordHash: "not-a-hash",
		Plan:         model.PlanFree,
	}
}

// WithID sets a custom ID.
func (b *UserBuilder) WithID(id string) *UserBuilder {
	b.ID = id
	return b
}

// WithEmail sets a custom email.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.Email = email
	return b
}

// WithPasswordHash sets the stored bcrypt hash.
func (b *UserBuilder) WithPasswordHash(hash string) *UserBuilder {
	b.PasswordHash = hash
	return b
}

// WithPlan sets the subscription plan.
func (b *UserBuilder) WithPlan(plan model.Plan) *UserBuilder {
	b.Plan = plan
	return b
}

// Build creates the user in the database and returns it.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	now := time.Now().UTC()
	query := `
		INSERT INTO app_user (id, name, email, password_hash, plan, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.Email, b.PasswordHash, b.Plan, stamp(now), stamp(now))
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return model.User{
		ID:           b.ID,
		Name:         b.Name,
		Email:        b.Email,
		PasswordHash: b.PasswordHash,
		Plan:         b.Plan,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// CreateUser creates a user with default values.
func CreateUser(t *testing.T, db *sql.DB) model.User {
	t.Helper()
	return NewUser().Build(t, db)
}

// ProductBuilder provides a fluent interface for creating test products.
//
// The stored quantity and average price are written as given; they are not derived from
// transactions. Use WithPosition together with matching transactions when a test depends on
// the two agreeing.
//
// Example usage:
//
//	product := testutil.NewProduct(user.ID).
//	    WithTicker("PETR4").
//	    WithPosition("100", "20").
//	    Build(t, db)
type ProductBuilder struct {
	ID           string
	UserID       string
	Ticker       string
	Name         string
	Category     model.ProductCategory
	Quantity     decimal.Decimal
	AveragePrice decimal.Decimal
	Price        decimal.Decimal
	Dividend     decimal.Decimal
	Expenses     decimal.Decimal
	CreatedAt    time.Time
}

// NewProduct creates a ProductBuilder owned by userID with an empty position.
func NewProduct(userID string) *ProductBuilder {
	return &ProductBuilder{
		ID:           MakeID(),
		UserID:       userID,
		Ticker:       MakeTicker("TST"),
		Name:         MakeProductName("Test Product"),
		Category:     model.CategoryStock,
		Quantity:     decimal.Zero,
		AveragePrice: decimal.Zero,
		Price:        decimal.Zero,
		Dividend:     decimal.Zero,
		Expenses:     decimal.Zero,
		CreatedAt:    time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *ProductBuilder) WithID(id string) *ProductBuilder {
	b.ID = id
	return b
}

// WithTicker sets the ticker.
func (b *ProductBuilder) WithTicker(ticker string) *ProductBuilder {
	b.Ticker = ticker
	return b
}

// WithName sets the display name.
func (b *ProductBuilder) WithName(name string) *ProductBuilder {
	b.Name = name
	return b
}

// WithCategory sets the category.
func (b *ProductBuilder) WithCategory(category model.ProductCategory) *ProductBuilder {
	b.Category = category
	return b
}

// WithPosition sets the stored quantity and average price.
func (b *ProductBuilder) WithPosition(quantity, averagePrice string) *ProductBuilder {
	b.Quantity = Dec(quantity)
	b.AveragePrice = Dec(averagePrice)
	return b
}

// WithPrice sets the last known market price.
func (b *ProductBuilder) WithPrice(price string) *ProductBuilder {
	b.Price = Dec(price)
	return b
}

// WithCashTotals sets the stored dividend and expense totals.
func (b *ProductBuilder) WithCashTotals(dividend, expenses string) *ProductBuilder {
	b.Dividend = Dec(dividend)
	b.Expenses = Dec(expenses)
	return b
}

// WithCreatedAt sets the creation timestamp, which drives listing order.
func (b *ProductBuilder) WithCreatedAt(createdAt time.Time) *ProductBuilder {
	b.CreatedAt = createdAt
	return b
}

// Build creates the product in the database and returns it.
func (b *ProductBuilder) Build(t *testing.T, db *sql.DB) model.Product {
	t.Helper()

	query := `
		INSERT INTO product (id, user_id, ticker, name, category, quantity, average_price, price,
			dividend, expenses, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.UserID, b.Ticker, b.Name, b.Category,
		b.Quantity.String(), b.AveragePrice.String(), b.Price.String(),
		b.Dividend.String(), b.Expenses.String(),
		stamp(b.CreatedAt), stamp(b.CreatedAt),
	)
	if err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}

	return model.Product{
		ID:           b.ID,
		UserID:       b.UserID,
		Ticker:       b.Ticker,
		Name:         b.Name,
		Category:     b.Category,
		Quantity:     b.Quantity,
		AveragePrice: b.AveragePrice,
		Price:        b.Price,
		Dividend:     b.Dividend,
		Expenses:     b.Expenses,
		Version:      1,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.CreatedAt,
	}
}

// TransactionBuilder provides a fluent interface for creating transactions.
//
// Transactions are inserted directly; the product's stored position is not recomputed.
type TransactionBuilder struct {
	ID        string
	ProductID string
	Type      model.TransactionType
	Date      time.Time
	Price     decimal.Decimal
	Quantity  decimal.Decimal
	CreatedAt time.Time
}

// NewTransaction creates a BUY of 100 @ 10 dated 2024-01-02.
func NewTransaction(productID string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:        MakeID(),
		ProductID: productID,
		Type:      model.TransactionBuy,
		Date:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Price:     Dec("10"),
		Quantity:  Dec("100"),
		CreatedAt: time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	b.ID = id
	return b
}

// Buy sets type BUY with the given quantity and price.
func (b *TransactionBuilder) Buy(quantity, price string) *TransactionBuilder {
	b.Type = model.TransactionBuy
	b.Quantity = Dec(quantity)
	b.Price = Dec(price)
	return b
}

// Sell sets type SELL with the given quantity and price.
func (b *TransactionBuilder) Sell(quantity, price string) *TransactionBuilder {
	b.Type = model.TransactionSell
	b.Quantity = Dec(quantity)
	b.Price = Dec(price)
	return b
}

// WithDate sets the transaction date.
func (b *TransactionBuilder) WithDate(date time.Time) *TransactionBuilder {
	b.Date = date
	return b
}

// WithCreatedAt sets the creation timestamp, the tiebreaker for same-day transactions.
func (b *TransactionBuilder) WithCreatedAt(createdAt time.Time) *TransactionBuilder {
	b.CreatedAt = createdAt
	return b
}

// Build creates the transaction in the database.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	query := `
		INSERT INTO "transaction" (id, product_id, type, date, price, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.ProductID, b.Type, b.Date.UTC().Format(dateLayout),
		b.Price.String(), b.Quantity.String(),
		stamp(b.CreatedAt), stamp(b.CreatedAt),
	)
	if err != nil {
		t.Fatalf("Failed to create transaction: %v", err)
	}

	return model.Transaction{
		ID:        b.ID,
		ProductID: b.ProductID,
		Type:      b.Type,
		Date:      b.Date,
		Price:     b.Price,
		Quantity:  b.Quantity,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.CreatedAt,
	}
}

// DividendBuilder provides a fluent interface for creating dividends.
type DividendBuilder struct {
	ID        string
	ProductID string
	Amount    decimal.Decimal
	Date      time.Time
}

// NewDividend creates a dividend of 10 dated 2024-03-01.
func NewDividend(productID string) *DividendBuilder {
	return &DividendBuilder{
		ID:        MakeID(),
		ProductID: productID,
		Amount:    Dec("10"),
		Date:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithAmount sets the amount.
func (b *DividendBuilder) WithAmount(amount string) *DividendBuilder {
	b.Amount = Dec(amount)
	return b
}

// WithDate sets the payment date.
func (b *DividendBuilder) WithDate(date time.Time) *DividendBuilder {
	b.Date = date
	return b
}

// Build creates the dividend in the database.
func (b *DividendBuilder) Build(t *testing.T, db *sql.DB) model.Dividend {
	t.Helper()

	now := time.Now().UTC()
	query := `
		INSERT INTO dividend (id, product_id, amount, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.ProductID, b.Amount.String(), b.Date.UTC().Format(dateLayout), stamp(now), stamp(now))
	if err != nil {
		t.Fatalf("Failed to create dividend: %v", err)
	}

	return model.Dividend{
		ID:        b.ID,
		ProductID: b.ProductID,
		Amount:    b.Amount,
		Date:      b.Date,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ExpenseBuilder provides a fluent interface for creating expenses.
type ExpenseBuilder struct {
	ID          string
	ProductID   string
	Amount      decimal.Decimal
	Description string
	Date        time.Time
}

// NewExpense creates a brokerage fee of 5 dated 2024-03-01.
func NewExpense(productID string) *ExpenseBuilder {
	return &ExpenseBuilder{
		ID:          MakeID(),
		ProductID:   productID,
		Amount:      Dec("5"),
		Description: "Brokerage fee",
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithAmount sets the amount.
func (b *ExpenseBuilder) WithAmount(amount string) *ExpenseBuilder {
	b.Amount = Dec(amount)
	return b
}

// WithDescription sets the description.
func (b *ExpenseBuilder) WithDescription(description string) *ExpenseBuilder {
	b.Description = description
	return b
}

// Build creates the expense in the database.
func (b *ExpenseBuilder) Build(t *testing.T, db *sql.DB) model.Expense {
	t.Helper()

	now := time.Now().UTC()
	query := `
		INSERT INTO expense (id, product_id, amount, description, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.ProductID, b.Amount.String(), b.Description, b.Date.UTC().Format(dateLayout), stamp(now), stamp(now))
	if err != nil {
		t.Fatalf("Failed to create expense: %v", err)
	}

	return model.Expense{
		ID:          b.ID,
		ProductID:   b.ProductID,
		Amount:      b.Amount,
		Description: b.Description,
		Date:        b.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// RealizedBuilder provides a fluent interface for creating realized profit/loss records.
type RealizedBuilder struct {
	ID            string
	ProductID     string
	TransactionID string
	Amount        decimal.Decimal
	Date          time.Time
}

// NewRealized creates a manual (unlinked) realized gain of 100 dated 2024-04-01.
func NewRealized(productID string) *RealizedBuilder {
	return &RealizedBuilder{
		ID:        MakeID(),
		ProductID: productID,
		Amount:    Dec("100"),
		Date:      time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithAmount sets the amount.
func (b *RealizedBuilder) WithAmount(amount string) *RealizedBuilder {
	b.Amount = Dec(amount)
	return b
}

// ForTransaction links the record to the SELL it was realized from.
func (b *RealizedBuilder) ForTransaction(transactionID string) *RealizedBuilder {
	b.TransactionID = transactionID
	return b
}

// Build creates the realized record in the database.
func (b *RealizedBuilder) Build(t *testing.T, db *sql.DB) model.RealizedProfitLoss {
	t.Helper()

	now := time.Now().UTC()
	query := `
		INSERT INTO realized_profit_loss (id, product_id, transaction_id, amount, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	txID := sql.NullString{String: b.TransactionID, Valid: b.TransactionID != ""}
	_, err := db.Exec(query, b.ID, b.ProductID, txID, b.Amount.String(), b.Date.UTC().Format(dateLayout), stamp(now), stamp(now))
	if err != nil {
		t.Fatalf("Failed to create realized profit/loss: %v", err)
	}

	return model.RealizedProfitLoss{
		ID:            b.ID,
		ProductID:     b.ProductID,
		TransactionID: b.TransactionID,
		Amount:        b.Amount,
		Date:          b.Date,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
