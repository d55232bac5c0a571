package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/response"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/service"
)

// PortfolioHandler serves the valuation endpoints: the portfolio summary and quote lookups.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// Summary handles GET requests for the per-product metrics, totals and category allocation of
// the user's holdings. An unreachable quote feed degrades valuation but never fails the request.
//
// Endpoint: GET /api/portfolio/summary
// Response: 200 OK with PortfolioSummary
// Error: 500 Internal Server Error if the products cannot be read
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	summary, err := h.portfolioService.GetSummary(r.Context(), uid)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToGetPortfolioSummary)
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// Quote handles GET requests for the market quote of a ticker. Missing data is reported as
// {"available": false} with status 200.
//
// Endpoint: GET /api/quote/{ticker}
// Response: 200 OK with QuoteResponse
func (h *PortfolioHandler) Quote(w http.ResponseWriter, r *http.Request) {
	ticker := strings.TrimSpace(chi.URLParam(r, "ticker"))
	if ticker == "" {
		response.RespondError(w, http.StatusBadRequest, "ticker is required", nil)
		return
	}

	response.RespondJSON(w, http.StatusOK, h.portfolioService.Quote(r.Context(), ticker))
}
