package transport

import (
	"errors"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AddToCartRequest represents the add-to-cart payload
type AddToCartRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Qty       int   `json:"qty" validate:"required,gt=0"`
}

// UpdateCartItemRequest represents the quantity-change payload
type UpdateCartItemRequest struct {
	Qty int `json:"qty" validate:"required,gt=0"`
}

// CartResponse is the envelope for cart endpoints; every cart response
// carries the current grand total alongside the payload.
type CartResponse struct {
	Success bool            `json:"success"`
	Data    any             `json:"data"`
	Total   decimal.Decimal `json:"total"`
	Message string          `json:"message"`
}

// CartHandler handles HTTP requests for cart operations
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Post("/", h.AddToCart)
		r.Delete("/", h.ClearCart)
		r.Put("/{id}", h.UpdateCartItem)
		r.Delete("/{id}", h.RemoveFromCart)
	})
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartService.GetCartItems(r.Context())
	if err != nil {
		h.logger.Error("Failed to retrieve cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to retrieve cart items")
		return
	}

	message := "Cart items retrieved successfully"
	if len(cart.Items) == 0 {
		message = "Cart is empty"
	}

	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{
		Success: true,
		Data:    cart.Items,
		Total:   cart.Total,
		Message: message,
	})
}

// AddToCart handles POST /api/cart
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	line, total, err := h.cartService.AddToCart(r.Context(), req.ProductID, req.Qty)
	if err != nil {
		h.respondError(w, err, "failed to add item to cart")
		return
	}

	h.logger.Info("Item added to cart",
		zap.Int64("product_id", req.ProductID),
		zap.Int("qty", req.Qty),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, CartResponse{
		Success: true,
		Data:    line,
		Total:   total,
		Message: "Item added to cart successfully",
	})
}

// UpdateCartItem handles PUT /api/cart/{id}
func (h *CartHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	line, total, err := h.cartService.UpdateCartItem(r.Context(), id, req.Qty)
	if err != nil {
		h.respondError(w, err, "failed to update cart item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{
		Success: true,
		Data:    line,
		Total:   total,
		Message: "Cart item updated successfully",
	})
}

// RemoveFromCart handles DELETE /api/cart/{id}. A missing line is a normal
// 404 outcome, not an internal error.
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	deleted, total, err := h.cartService.RemoveFromCart(r.Context(), id)
	if err != nil {
		h.respondError(w, err, "failed to remove item from cart")
		return
	}

	if !deleted {
		middleware.RespondWithJSON(w, http.StatusNotFound, CartResponse{
			Success: false,
			Data:    nil,
			Total:   total,
			Message: "Cart item not found",
		})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{
		Success: true,
		Data:    nil,
		Total:   total,
		Message: "Item removed from cart successfully",
	})
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	deletedCount, err := h.cartService.ClearCart(r.Context())
	if err != nil {
		h.logger.Error("Failed to clear cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}

	message := "Cart cleared successfully"
	if deletedCount == 0 {
		message = "Cart was already empty"
	}

	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{
		Success: true,
		Data:    map[string]int64{"deletedCount": deletedCount},
		Total:   decimal.Zero,
		Message: message,
	})
}

func (h *CartHandler) respondError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, repository.ErrCartItemNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "Cart item not found")
	default:
		h.logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
