package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/validation"
)

// TestRespondServiceError tests the mapping of service errors onto HTTP statuses.
// This is an internal test (package handlers) because respondServiceError is unexported.
func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"field validation", &validation.Error{Fields: map[string]string{"ticker": "ticker is required"}}, http.StatusBadRequest},
		{"oversell", fmt.Errorf("replay: %w", apperrors.ErrInsufficientShares), http.StatusBadRequest},
		{"not a sell", apperrors.ErrTransactionNotSell, http.StatusBadRequest},
		{"already realized", apperrors.ErrAlreadyRealized, http.StatusConflict},
		{"email taken", apperrors.ErrEmailTaken, http.StatusConflict},
		{"concurrent modification", apperrors.ErrConcurrentModification, http.StatusConflict},
		{"wrong password", apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"missing product", apperrors.ErrProductNotFound, http.StatusNotFound},
		{"missing transaction", fmt.Errorf("load: %w", apperrors.ErrTransactionNotFound), http.StatusNotFound},
		{"storage failure", fmt.Errorf("%w: %w", apperrors.ErrPersistence, errors.New("disk I/O error")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			respondServiceError(w, httptest.NewRequest(http.MethodGet, "/", nil), tt.err, apperrors.ErrFailedToSaveRecord)

			if w.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, w.Code)
			}
		})
	}

	t.Run("internal errors do not leak details", func(t *testing.T) {
		w := httptest.NewRecorder()

		respondServiceError(w, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("near \"SELECT\": syntax error"), apperrors.ErrFailedToSaveRecord)

		if strings.Contains(w.Body.String(), "syntax") {
			t.Errorf("Expected a generic message, got %s", w.Body.String())
		}
	})
}

func TestParseJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("decodes a valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))

		got, err := parseJSON[payload](req)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if got.Name != "x" {
			t.Errorf("Expected name x, got %q", got.Name)
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","quantity":1}`))

		if _, err := parseJSON[payload](req); err == nil {
			t.Error("Expected an error for an unknown field")
		}
	})

	t.Run("rejects an empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))

		if _, err := parseJSON[payload](req); err == nil {
			t.Error("Expected an error for an empty body")
		}
	})
}
