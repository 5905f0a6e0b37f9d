package transport

import (
	"errors"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ManifestItemRequest is one entry of the optional client cart echo
type ManifestItemRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Qty       int   `json:"qty" validate:"required,gt=0"`
}

// CheckoutRequest represents the checkout payload
type CheckoutRequest struct {
	Name      string                `json:"name" validate:"required,min=2,max=100"`
	Email     string                `json:"email" validate:"required,email"`
	CartItems []ManifestItemRequest `json:"cartItems" validate:"omitempty,dive"`
}

// ReceiptResponse is the envelope for single-receipt endpoints
type ReceiptResponse struct {
	Success bool   `json:"success"`
	Receipt any    `json:"receipt"`
	Message string `json:"message"`
}

// ReceiptsResponse is the envelope for the receipt listing endpoint
type ReceiptsResponse struct {
	Success  bool   `json:"success"`
	Receipts any    `json:"receipts"`
	Message  string `json:"message"`
}

// CheckoutHandler handles HTTP requests for checkout operations
type CheckoutHandler struct {
	checkoutService service.CheckoutService
	logger          *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// RegisterRoutes registers all checkout routes
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/checkout", func(r chi.Router) {
		r.Post("/", h.ProcessCheckout)
		r.Get("/receipt/{id}", h.GetReceipt)
		r.Get("/receipts", h.GetAllReceipts)
	})
}

// ProcessCheckout handles POST /api/checkout
func (h *CheckoutHandler) ProcessCheckout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	manifest := make([]service.ManifestItem, 0, len(req.CartItems))
	for _, item := range req.CartItems {
		manifest = append(manifest, service.ManifestItem{
			ProductID: item.ProductID,
			Qty:       item.Qty,
		})
	}

	receipt, err := h.checkoutService.ProcessCheckout(r.Context(), service.CheckoutInput{
		Name:     req.Name,
		Email:    req.Email,
		Manifest: manifest,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			middleware.RespondWithError(w, http.StatusBadRequest, "Cart is empty")
		case errors.Is(err, service.ErrCartMismatch):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrValidation):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Checkout failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "checkout processing failed")
		}
		return
	}

	h.logger.Info("Checkout completed",
		zap.String("receipt_id", receipt.ReceiptID),
		zap.String("email", receipt.Email),
		zap.String("total", receipt.Total.String()),
		zap.Int("items", len(receipt.Items)),
	)

	middleware.RespondWithJSON(w, http.StatusCreated, ReceiptResponse{
		Success: true,
		Receipt: receipt,
		Message: "Checkout completed successfully",
	})
}

// GetReceipt handles GET /api/checkout/receipt/{id}
func (h *CheckoutHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.checkoutService.GetReceipt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrReceiptNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "Receipt not found")
		case errors.Is(err, service.ErrValidation):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to retrieve receipt", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to retrieve receipt")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ReceiptResponse{
		Success: true,
		Receipt: receipt,
		Message: "Receipt retrieved successfully",
	})
}

// GetAllReceipts handles GET /api/checkout/receipts
func (h *CheckoutHandler) GetAllReceipts(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.checkoutService.GetAllReceipts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list receipts", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to retrieve receipts")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ReceiptsResponse{
		Success:  true,
		Receipts: summaries,
		Message:  "Receipts retrieved successfully",
	})
}
