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

// DividendHandler handles HTTP requests for dividend endpoints.
type DividendHandler struct {
	dividendService *service.DividendService
}

// NewDividendHandler creates a new DividendHandler.
func NewDividendHandler(dividendService *service.DividendService) *DividendHandler {
	return &DividendHandler{dividendService: dividendService}
}

// ListDividends handles GET /api/dividend.
func (h *DividendHandler) ListDividends(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	dividends, err := h.dividendService.ListDividends(r.Context(), uid)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveDividends)
		return
	}

	response.RespondJSON(w, http.StatusOK, dividends)
}

// CreateDividend handles POST /api/dividend. The product's dividend total is updated in the same
// database transaction.
//
// Response: 201 Created with Dividend
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the product does not exist for the user
func (h *DividendHandler) CreateDividend(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.CreateDividendRequest](r)
	if err != nil {
		respondInvalidBody(w, err)
		return
	}

	if err := validation.ValidateCreateDividend(req); err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToSaveRecord)
		return
	}

	dividend, err := h.dividendService.CreateDividend(r.Context(), uid, req)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToSaveRecord)
		return
	}

	response.RespondJSON(w, http.StatusCreated, dividend)
}

// DeleteDividend handles DELETE /api/dividend/{uuid}.
func (h *DividendHandler) DeleteDividend(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	if err := h.dividendService.DeleteDividend(r.Context(), chi.URLParam(r, "uuid"), uid); err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToDeleteRecord)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// ExpenseHandler handles HTTP requests for expense endpoints.
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// ListExpenses handles GET /api/expense.
func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	expenses, err := h.expenseService.ListExpenses(r.Context(), uid)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveExpenses)
		return
	}

	response.RespondJSON(w, http.StatusOK, expenses)
}

// CreateExpense handles POST /api/expense.
func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.CreateExpenseRequest](r)
	if err != nil {
		respondInvalidBody(w, err)
		return
	}

	if err := validation.ValidateCreateExpense(req); err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToSaveRecord)
		return
	}

	expense, err := h.expenseService.CreateExpense(r.Context(), uid, req)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToSaveRecord)
		return
	}

	response.RespondJSON(w, http.StatusCreated, expense)
}

// DeleteExpense handles DELETE /api/expense/{uuid}.
func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	if err := h.expenseService.DeleteExpense(r.Context(), chi.URLParam(r, "uuid"), uid); err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToDeleteRecord)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// RealizedProfitLossHandler handles HTTP requests for realized profit/loss endpoints.
type RealizedProfitLossHandler struct {
	realizedService *service.RealizedProfitLossService
}

// NewRealizedProfitLossHandler creates a new RealizedProfitLossHandler.
func NewRealizedProfitLossHandler(realizedService *service.RealizedProfitLossService) *RealizedProfitLossHandler {
	return &RealizedProfitLossHandler{realizedService: realizedService}
}

// ListRealized handles GET /api/realized.
func (h *RealizedProfitLossHandler) ListRealized(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	records, err := h.realizedService.ListRealized(r.Context(), uid)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveRealized)
		return
	}

	response.RespondJSON(w, http.StatusOK, records)
}

// CreateRealized handles POST /api/realized for manually entered gains and losses.
func (h *RealizedProfitLossHandler) CreateRealized(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.CreateRealizedProfitLossRequest](r)
	if err != nil {
		respondInvalidBody(w, err)
		return
	}

	if err := validation.ValidateCreateRealizedProfitLoss(req); err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToSaveRecord)
		return
	}

	record, err := h.realizedService.CreateRealized(r.Context(), uid, req)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToSaveRecord)
		return
	}

	response.RespondJSON(w, http.StatusCreated, record)
}

// DeleteRealized handles DELETE /api/realized/{uuid}.
func (h *RealizedProfitLossHandler) DeleteRealized(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	if err := h.realizedService.DeleteRealized(r.Context(), chi.URLParam(r, "uuid"), uid); err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToDeleteRecord)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
