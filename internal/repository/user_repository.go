package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
)

// UserRepository provides data access methods for the app_user table.
type UserRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a copy of the repository that runs its queries inside tx.
func (r *UserRepository) WithTx(tx *sql.Tx) *UserRepository {
	return &UserRepository{db: r.db, tx: tx}
}

func (r *UserRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const userColumns = `id, name, email, password_hash, plan, created_at, updated_at`

// InsertUser stores a new user. Returns apperrors.ErrEmailTaken when the email is already registered.
func (r *UserRepository) InsertUser(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO app_user (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Plan,
		formatTimestamp(u.CreatedAt),
		formatTimestamp(u.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return apperrors.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByEmail looks a user up by (lower-cased) email address.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM app_user WHERE email = ?`
	return r.scanUser(r.getQuerier().QueryRowContext(ctx, query, email))
}

// GetUser retrieves a user by ID.
func (r *UserRepository) GetUser(ctx context.Context, userID string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM app_user WHERE id = ?`
	return r.scanUser(r.getQuerier().QueryRowContext(ctx, query, userID))
}

func (r *UserRepository) scanUser(row rowScanner) (model.User, error) {
	var u model.User
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Plan,
		&createdAtStr,
		&updatedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to scan user: %w", err)
	}

	if err := errors.Join(
		assignTime(&u.CreatedAt, createdAtStr),
		assignTime(&u.UpdatedAt, updatedAtStr),
	); err != nil {
		return model.User{}, err
	}

	return u, nil
}
