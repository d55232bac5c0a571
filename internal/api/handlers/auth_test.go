package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/middleware"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/config"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/model"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/testutil"
)

func setupAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewAuthHandler(
		testutil.NewTestUserService(t, db, "owner@example.com"),
		testutil.NewTestIssuer(t),
		config.AuthConfig{CookieMaxAge: time.Hour},
	)
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func TestAuthHandler(t *testing.T) {
	handler := setupAuthHandler(t)
	credentials := map[string]any{"email": "ana@example.com", "password": "correct horse"}

	t.Run("signup creates a free account", func(t *testing.T) {
		body := map[string]any{"name": "Ana", "email": "Ana@Example.com", "password": "correct horse"}
		w := httptest.NewRecorder()

		handler.Signup(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/signup", body))

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var user model.User
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&user)

		if user.Email != "ana@example.com" || user.Plan != model.PlanFree {
			t.Errorf("Expected ana@example.com on FREE, got %s on %s", user.Email, user.Plan)
		}
	})

	t.Run("signup with a registered email returns 409", func(t *testing.T) {
		body := map[string]any{"name": "Ana", "email": "ana@example.com", "password": "another one"}
		w := httptest.NewRecorder()

		handler.Signup(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/signup", body))

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("signup with a short password returns 400", func(t *testing.T) {
		body := map[string]any{"name": "Bob", "email": "bob@example.com", "password": "short"}
		w := httptest.NewRecorder()

		handler.Signup(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/signup", body))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("login sets the session cookie", func(t *testing.T) {
		w := httptest.NewRecorder()

		handler.Login(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/login", credentials))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		cookie := sessionCookie(w)
		if cookie == nil || cookie.Value == "" {
			t.Fatal("Expected a session cookie")
		}
		if !cookie.HttpOnly || cookie.MaxAge != 3600 {
			t.Errorf("Expected an HttpOnly cookie with MaxAge 3600, got HttpOnly=%v MaxAge=%d", cookie.HttpOnly, cookie.MaxAge)
		}

		var response LoginResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)
		if response.Token != cookie.Value {
			t.Error("Expected the body token to match the cookie")
		}

		t.Run("session recognizes the cookie", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
			req.AddCookie(cookie)
			w := httptest.NewRecorder()

			handler.Session(w, req)

			var session SessionResponse
			//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
			json.NewDecoder(w.Body).Decode(&session)
			if !session.Authenticated || session.UserID != response.User.ID {
				t.Errorf("Expected an authenticated session for %s, got %+v", response.User.ID, session)
			}
		})
	})

	t.Run("login with a wrong password returns 401", func(t *testing.T) {
		body := map[string]any{"email": "ana@example.com", "password": "wrong password"}
		w := httptest.NewRecorder()

		handler.Login(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/login", body))

		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", w.Code)
		}
		if sessionCookie(w) != nil {
			t.Error("Expected no session cookie")
		}
	})

	t.Run("login with an unknown email returns 404", func(t *testing.T) {
		body := map[string]any{"email": "nobody@example.com", "password": "whatever1"}
		w := httptest.NewRecorder()

		handler.Login(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/login", body))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("signout expires the cookie", func(t *testing.T) {
		w := httptest.NewRecorder()

		handler.Signout(w, httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil))

		cookie := sessionCookie(w)
		if cookie == nil || cookie.MaxAge >= 0 || cookie.Value != "" {
			t.Errorf("Expected an expired empty cookie, got %+v", cookie)
		}
	})

	t.Run("session without a token is unauthenticated", func(t *testing.T) {
		w := httptest.NewRecorder()

		handler.Session(w, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))

		var session SessionResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&session)
		if session.Authenticated {
			t.Error("Expected an unauthenticated session")
		}
	})
}
