package middleware

import (
	"net/http"
	"strings"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/auth"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "userToken"

// TokenFromRequest returns the session token from the userToken cookie, falling back to an
// "Authorization: Bearer" header. Returns "" when neither is present.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// RequireAuth rejects requests without a valid session token with 401 Unauthorized.
// On success the user ID is stored in the request context (see auth.UserIDFromContext).
func RequireAuth(issuer auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				response.RespondError(w, http.StatusUnauthorized, "authentication required", nil)
				return
			}

			userID, err := issuer.Verify(token)
			if err != nil {
				response.RespondError(w, http.StatusUnauthorized, "invalid or expired session", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}
