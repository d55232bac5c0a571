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

// ProductHandler handles HTTP requests for product endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the product, transaction and portfolio services.
type ProductHandler struct {
	productService     *service.ProductService
	transactionService *service.TransactionService
	portfolioService   *service.PortfolioService
}

// NewProductHandler creates a new ProductHandler with the provided service dependencies.
func NewProductHandler(
	productService *service.ProductService,
	transactionService *service.TransactionService,
	portfolioService *service.PortfolioService,
) *ProductHandler {
	return &ProductHandler{
		productService:     productService,
		transactionService: transactionService,
		portfolioService:   portfolioService,
	}
}

// ListProducts handles GET requests to retrieve all products of the user with their
// transactions, dividends, expenses and realized profit/loss.
//
// Endpoint: GET /api/product
// Response: 200 OK with array of ProductDetail
// Error: 500 Internal Server Error if retrieval fails
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	products, err := h.productService.ListProducts(r.Context(), uid)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveProducts)
		return
	}

	response.RespondJSON(w, http.StatusOK, products)
}

// GetProduct handles GET requests to retrieve a single product with its records.
//
// Endpoint: GET /api/product/{uuid}
// Response: 200 OK with ProductDetail
// Error: 404 Not Found if the product does not exist for the user
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(r.Context(), chi.URLParam(r, "uuid"), uid)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveProduct)
		return
	}

	response.RespondJSON(w, http.StatusOK, product)
}

// CreateProduct handles POST requests to create a product, optionally with an opening position
// recorded as a BUY transaction.
//
// Endpoint: POST /api/product
// Request Body: CreateProductRequest (ticker, name, type, quantity?, price?, date?)
// Response: 201 Created with Product
// Error: 400 Bad Request if validation fails or request body is invalid
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.CreateProductRequest](r)
	if err != nil {
		respondInvalidBody(w, err)
		return
	}

	if err := validation.ValidateCreateProduct(req); err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToCreateProduct)
		return
	}

	product, err := h.productService.CreateProduct(r.Context(), uid, req)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToCreateProduct)
		return
	}

	response.RespondJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT requests to edit descriptive fields and the last known price.
//
// Endpoint: PUT /api/product/{uuid}
// Request Body: UpdateProductRequest (all fields optional)
// Response: 200 OK with updated Product
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the product does not exist for the user
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.UpdateProductRequest](r)
	if err != nil {
		respondInvalidBody(w, err)
		return
	}

	if err := validation.ValidateUpdateProduct(req); err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToUpdateProduct)
		return
	}

	product, err := h.productService.UpdateProduct(r.Context(), chi.URLParam(r, "uuid"), uid, req)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToUpdateProduct)
		return
	}

	response.RespondJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE requests. All attached records are removed with the product.
//
// Endpoint: DELETE /api/product/{uuid}
// Response: 204 No Content on successful deletion
// Error: 404 Not Found if the product does not exist for the user
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(r.Context(), chi.URLParam(r, "uuid"), uid); err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToDeleteProduct)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// ProductMetrics handles GET requests for the derived performance figures of a product,
// valued at the live quote when one is available.
//
// Endpoint: GET /api/product/{uuid}/metrics
// Response: 200 OK with ProductMetrics
// Error: 404 Not Found if the product does not exist for the user
func (h *ProductHandler) ProductMetrics(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	metrics, err := h.portfolioService.GetProductMetrics(r.Context(), chi.URLParam(r, "uuid"), uid)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToGetProductMetrics)
		return
	}

	response.RespondJSON(w, http.StatusOK, metrics)
}

// ProductTransactions handles GET requests for the transaction history of a product in
// chronological order.
//
// Endpoint: GET /api/product/{uuid}/transactions
// Response: 200 OK with array of Transaction
// Error: 404 Not Found if the product does not exist for the user
func (h *ProductHandler) ProductTransactions(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	transactions, err := h.transactionService.ListProductTransactions(r.Context(), chi.URLParam(r, "uuid"), uid)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveTransactions)
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// RecomputeProduct handles POST requests to rebuild quantity and average price from the full
// transaction history.
//
// Endpoint: POST /api/product/{uuid}/recompute
// Response: 200 OK with the recomputed Product
// Error: 400 Bad Request if the stored history oversells
// Error: 404 Not Found if the product does not exist for the user
func (h *ProductHandler) RecomputeProduct(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	product, err := h.transactionService.RecomputeProduct(r.Context(), chi.URLParam(r, "uuid"), uid)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToUpdateProduct)
		return
	}

	response.RespondJSON(w, http.StatusOK, product)
}
