package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/middleware"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/auth"
)

func TestRequireAuth(t *testing.T) {
	issuer := auth.NewFernetIssuer("middleware-test-secret", time.Hour)
	token, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue() returned unexpected error: %v", err)
	}

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = auth.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	mw := middleware.RequireAuth(issuer)(next)

	tests := []struct {
		name       string
		prepare    func(r *http.Request)
		wantStatus int
		wantUserID string
	}{
		{
			name:       "accepts the session cookie",
			prepare:    func(r *http.Request) { r.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token}) },
			wantStatus: http.StatusOK,
			wantUserID: "user-1",
		},
		{
			name:       "accepts a bearer token",
			prepare:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
			wantStatus: http.StatusOK,
			wantUserID: "user-1",
		},
		{
			name:       "rejects a missing token",
			prepare:    func(*http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "rejects a tampered token",
			prepare:    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token+"x") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "rejects a token from another secret",
			prepare: func(r *http.Request) {
				other, _ := auth.NewFernetIssuer("other-secret", time.Hour).Issue("user-1")
				r.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: other})
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUserID = ""
			req := httptest.NewRequest(http.MethodGet, "/api/product", nil)
			tt.prepare(req)
			w := httptest.NewRecorder()

			mw.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d", tt.wantStatus, w.Code)
			}
			if gotUserID != tt.wantUserID {
				t.Errorf("Expected user ID %q, got %q", tt.wantUserID, gotUserID)
			}
		})
	}
}

func TestTokenFromRequest(t *testing.T) {
	t.Run("prefers the cookie over the header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "cookie-token"})
		req.Header.Set("Authorization", "Bearer header-token")

		if got := middleware.TokenFromRequest(req); got != "cookie-token" {
			t.Errorf("Expected cookie-token, got %q", got)
		}
	})

	t.Run("ignores non-bearer schemes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

		if got := middleware.TokenFromRequest(req); got != "" {
			t.Errorf("Expected empty token, got %q", got)
		}
	})
}
