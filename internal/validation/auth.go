package validation

import (
	"net/mail"
	"strings"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/request"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLength = 72
)

// ValidateSignup validates an account creation request.
func ValidateSignup(req request.SignupRequest) error {
	errors := make(map[string]string)

	validateName(errors, req.Name)
	validateEmail(errors, req.Email)

	switch {
	case strings.TrimSpace(req.Password) == "":
		errors["password"] = "password is required"
	case len(req.Password) < minPasswordLength:
		errors["password"] = "password must be at least 8 characters"
	case len(req.Password) > maxPasswordLength:
		errors["password"] = "password must be at most 72 bytes"
	}

	return result(errors)
}

// ValidateLogin validates a sign-in request.
func ValidateLogin(req request.LoginRequest) error {
	errors := make(map[string]string)

	validateEmail(errors, req.Email)
	if req.Password == "" {
		errors["password"] = "password is required"
	}

	return result(errors)
}

func validateEmail(errors map[string]string, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		errors["email"] = "email is required"
		return
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		errors["email"] = "invalid email address"
	}
}
