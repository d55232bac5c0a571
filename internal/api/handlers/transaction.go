package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/service"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/validation"
)

// TransactionHandler handles HTTP requests for transaction endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the transactionService.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// ListTransactions handles GET requests to retrieve the transactions of all products of the user.
//
// Endpoint: GET /api/transaction
// Query Parameters: productId, type, category, startDate, endDate, sortDir (all optional)
// Response: 200 OK with array of TransactionResponse
// Error: 400 Bad Request if a filter is invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter, err := request.ParseTransactionFilters(
		q.Get("productId"),
		q.Get("type"),
		q.Get("category"),
		q.Get("startDate"),
		q.Get("endDate"),
		q.Get("sortDir"),
	)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	transactions, err := h.transactionService.ListTransactions(r.Context(), uid, *filter)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveTransactions)
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// GetTransaction handles GET requests to retrieve a single transaction by ID.
//
// Endpoint: GET /api/transaction/{uuid}
// Response: 200 OK with TransactionResponse
// Error: 404 Not Found if transaction not found
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	transaction, err := h.transactionService.GetTransaction(r.Context(), chi.URLParam(r, "uuid"), uid)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveTransaction)
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// CreateTransaction handles POST requests to record a buy or sell. The product position is
// updated in the same database transaction; a sell exceeding the held quantity is rejected.
//
// Endpoint: POST /api/transaction
// Request Body: CreateTransactionRequest (productId, type, date, price, quantity)
// Response: 201 Created with Transaction
// Error: 400 Bad Request if validation fails or the sell exceeds the position
// Error: 404 Not Found if the product does not exist for the user
// Error: 409 Conflict if the product changed concurrently
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		respondInvalidBody(w, err)
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToCreateTransaction)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(r.Context(), uid, req)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToCreateTransaction)
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// UpdateTransaction handles PUT requests to edit an existing transaction. The position is
// rebuilt from the edited history.
//
// Endpoint: PUT /api/transaction/{uuid}
// Request Body: UpdateTransactionRequest (all fields optional)
// Response: 200 OK with updated Transaction
// Error: 400 Bad Request if validation fails or the edited history oversells
// Error: 404 Not Found if transaction not found
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.UpdateTransactionRequest](r)
	if err != nil {
		respondInvalidBody(w, err)
		return
	}

	if err := validation.ValidateUpdateTransaction(req); err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToUpdateTransaction)
		return
	}

	transaction, err := h.transactionService.UpdateTransaction(r.Context(), chi.URLParam(r, "uuid"), uid, req)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToUpdateTransaction)
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// DeleteTransaction handles DELETE requests to remove a transaction. The position is rebuilt
// from the remaining history.
//
// Endpoint: DELETE /api/transaction/{uuid}
// Response: 204 No Content on successful deletion
// Error: 400 Bad Request if the remaining history oversells
// Error: 404 Not Found if transaction not found
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	if err := h.transactionService.DeleteTransaction(r.Context(), chi.URLParam(r, "uuid"), uid); err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToDeleteTransaction)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// RealizeTransaction handles POST requests to record the realized profit/loss of a sell.
//
// Endpoint: POST /api/transaction/{uuid}/realize
// Response: 201 Created with RealizedProfitLoss
// Error: 400 Bad Request if the transaction is not a sell
// Error: 404 Not Found if transaction not found
// Error: 409 Conflict if the sell was already realized
func (h *TransactionHandler) RealizeTransaction(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	realized, err := h.transactionService.RealizeTransaction(r.Context(), chi.URLParam(r, "uuid"), uid)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRealizeTransaction)
		return
	}

	response.RespondJSON(w, http.StatusCreated, realized)
}
