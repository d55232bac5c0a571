package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/auth"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/validation"
)

const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T. Unknown fields are rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("invalid JSON: %w", err)
	}
	return v, nil
}

// userID returns the authenticated user. Routes behind RequireAuth always have one; a missing
// value means the route was mounted without it and is answered with 401.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, apperrors.ErrUnauthorized.Error(), nil)
	}
	return id, ok
}

// respondServiceError maps a service error onto an HTTP status.
// Unexpected errors are logged and answered with the generic fallback message.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, fallback error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, apperrors.ErrAlreadyRealized),
		errors.Is(err, apperrors.ErrEmailTaken),
		errors.Is(err, apperrors.ErrConcurrentModification):
		response.RespondError(w, http.StatusConflict, err.Error(), nil)
	case apperrors.IsValidation(err):
		response.RespondError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, apperrors.ErrUnauthorized), errors.Is(err, apperrors.ErrInvalidCredentials):
		response.RespondError(w, http.StatusUnauthorized, err.Error(), nil)
	case apperrors.IsNotFound(err):
		response.RespondError(w, http.StatusNotFound, err.Error(), nil)
	default:
		zap.L().Error(fallback.Error(),
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
		response.RespondError(w, http.StatusInternalServerError, fallback.Error(), nil)
	}
}

// respondInvalidBody answers a body that could not be decoded.
func respondInvalidBody(w http.ResponseWriter, err error) {
	response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
}
