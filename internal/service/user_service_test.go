package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/testutil"
)

func TestUserService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("stores lower-cased email and a password hash", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestUserService(t, db, "")

		user, err := svc.Signup(ctx, request.SignupRequest{Name: "Ana", Email: "Ana@Example.com", Password: "correct horse"})
		if err != nil {
			t.Fatalf("Signup() returned unexpected error: %v", err)
		}
		if user.Email != "ana@example.com" {
			t.Errorf("Expected lower-cased email, got %q", user.Email)
		}
		if user.PasswordHash == "" || user.PasswordHash == "correct horse" {
			t.Errorf("Expected a password hash, got %q", user.PasswordHash)
		}
		if user.Plan != model.PlanFree {
			t.Errorf("Expected FREE plan, got %s", user.Plan)
		}
	})

	t.Run("assigns PRO to the configured email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestUserService(t, db, "Owner@Example.com")

		user, err := svc.Signup(ctx, request.SignupRequest{Name: "Owner", Email: "owner@example.com", Password: "correct horse"})
		if err != nil {
			t.Fatalf("Signup() returned unexpected error: %v", err)
		}
		if user.Plan != model.PlanPro {
			t.Errorf("Expected PRO plan, got %s", user.Plan)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestUserService(t, db, "")
		testutil.NewUser().WithEmail("ana@example.com").Build(t, db)

		_, err := svc.Signup(ctx, request.SignupRequest{Name: "Ana", Email: "ANA@example.com", Password: "correct horse"})
		if !errors.Is(err, apperrors.ErrEmailTaken) {
			t.Errorf("Expected ErrEmailTaken, got %v", err)
		}
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestUserService(t, db, "")

	created, err := svc.Signup(ctx, request.SignupRequest{Name: "Ana", Email: "ana@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Signup() returned unexpected error: %v", err)
	}

	t.Run("valid credentials return a verifiable token", func(t *testing.T) {
		user, token, err := svc.Login(ctx, request.LoginRequest{Email: " ANA@example.com", Password: "correct horse"})
		if err != nil {
			t.Fatalf("Login() returned unexpected error: %v", err)
		}
		if user.ID != created.ID {
			t.Errorf("Expected user %s, got %s", created.ID, user.ID)
		}

		userID, err := testutil.NewTestIssuer(t).Verify(token)
		if err != nil {
			t.Fatalf("Verify() returned unexpected error: %v", err)
		}
		if userID != created.ID {
			t.Errorf("Expected token for %s, got %s", created.ID, userID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, request.LoginRequest{Email: "ana@example.com", Password: "battery staple"})
		if !errors.Is(err, apperrors.ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := svc.Login(ctx, request.LoginRequest{Email: "bob@example.com", Password: "correct horse"})
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})
}
