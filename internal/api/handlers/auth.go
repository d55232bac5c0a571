package handlers

import (
	"net/http"
	"time"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/middleware"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/auth"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/config"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/service"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/validation"
)

// AuthHandler handles account creation and session management.
// Sessions are carried in the userToken cookie; the token is also returned in the login body
// for clients that prefer an Authorization header.
type AuthHandler struct {
	userService *service.UserService
	issuer      auth.TokenIssuer
	cfg         config.AuthConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService *service.UserService, issuer auth.TokenIssuer, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		issuer:      issuer,
		cfg:         cfg,
	}
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// SessionResponse reports whether the request carries a valid session.
type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"userId,omitempty"`
}

// Signup handles POST requests to create an account.
//
// Endpoint: POST /api/auth/signup
// Request Body: SignupRequest (name, email, password)
// Response: 201 Created with User
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the email is already registered
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SignupRequest](r)
	if err != nil {
		respondInvalidBody(w, err)
		return
	}

	if err := validation.ValidateSignup(req); err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToSignup)
		return
	}

	user, err := h.userService.Signup(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToSignup)
		return
	}

	response.RespondJSON(w, http.StatusCreated, user)
}

// Login handles POST requests to sign in and sets the session cookie.
//
// Endpoint: POST /api/auth/login
// Request Body: LoginRequest (email, password)
// Response: 200 OK with LoginResponse
// Error: 401 Unauthorized if the password is wrong
// Error: 404 Not Found if no account exists for the email
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.LoginRequest](r)
	if err != nil {
		respondInvalidBody(w, err)
		return
	}

	if err := validation.ValidateLogin(req); err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToLogin)
		return
	}

	user, token, err := h.userService.Login(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToLogin)
		return
	}

	http.SetCookie(w, h.cookie(token, int(h.cfg.CookieMaxAge/time.Second)))
	response.RespondJSON(w, http.StatusOK, LoginResponse{User: user, Token: token})
}

// Signout clears the session cookie. Tokens are stateless, so a copied token stays valid until
// it expires.
//
// Endpoint: POST /api/auth/signout
// Response: 200 OK
func (h *AuthHandler) Signout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, h.cookie("", -1))
	response.RespondJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

// Session reports whether the request carries a valid session token.
//
// Endpoint: GET /api/auth/session
// Response: 200 OK with SessionResponse
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromRequest(r)
	if token == "" {
		response.RespondJSON(w, http.StatusOK, SessionResponse{})
		return
	}

	userID, err := h.issuer.Verify(token)
	if err != nil {
		response.RespondJSON(w, http.StatusOK, SessionResponse{})
		return
	}

	response.RespondJSON(w, http.StatusOK, SessionResponse{Authenticated: true, UserID: userID})
}

func (h *AuthHandler) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
