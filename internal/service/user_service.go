package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/auth"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/repository"
)

// UserService handles account creation and sign-in.
type UserService struct {
	userRepo *repository.UserRepository
	issuer   auth.TokenIssuer
	proEmail string
}

// NewUserService creates a new UserService. A user signing up with proEmail gets the PRO plan.
func NewUserService(userRepo *repository.UserRepository, issuer auth.TokenIssuer, proEmail string) *UserService {
	return &UserService{
		userRepo: userRepo,
		issuer:   issuer,
		proEmail: normalizeEmail(proEmail),
	}
}

// Signup creates an account. Emails are stored lower-cased; a duplicate returns
// apperrors.ErrEmailTaken.
func (s *UserService) Signup(ctx context.Context, req request.SignupRequest) (*model.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	plan := model.PlanFree
	if s.proEmail != "" && email == s.proEmail {
		plan = model.PlanPro
	}

	now := timestamp()
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Plan:         plan,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.InsertUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login checks the credentials and returns the user with a fresh session token.
// Returns apperrors.ErrUserNotFound for an unknown email and apperrors.ErrInvalidCredentials for
// a wrong password.
func (s *UserService) Login(ctx context.Context, req request.LoginRequest) (*model.User, string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, "", err
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, "", err
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

// GetUser returns the account with the given ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
