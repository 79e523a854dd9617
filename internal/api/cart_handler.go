package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/storefront-labs/storefront-api/internal/api/shared"
	"github.com/storefront-labs/storefront-api/internal/domain"
	"github.com/storefront-labs/storefront-api/internal/service"
	"github.com/storefront-labs/storefront-api/internal/validation"
)

// CartService is the cart behavior the handler needs.
type CartService interface {
	AddToCart(ctx context.Context, req validation.CartAddRequest) (*domain.CartItem, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*service.CartSummary, error)
	RemoveFromCart(ctx context.Context, userID, itemID uuid.UUID) error
}

// CartHandler handles cart-related HTTP requests
type CartHandler struct {
	cart   CartService
	logger *slog.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cart CartService, log *slog.Logger) *CartHandler {
	if cart == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cart service cannot be nil for CartHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &CartHandler{
		cart:   cart,
		logger: log.With(slog.String("component", "cart_handler")),
	}
}

// AddToCart handles POST /cart requests.
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) error {
	payload, err := shared.DecodeJSON(w, r)
	if err != nil {
		return err
	}
	req, err := validation.ParseCartAdd(payload)
	if err != nil {
		return err
	}

	item, err := h.cart.AddToCart(r.Context(), req)
	if err != nil {
		return err
	}
	shared.RespondWithSuccess(w, r, http.StatusCreated, item, "Item added to cart")
	return nil
}

// GetCart handles GET /cart?userId= requests.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) error {
	userID, err := getRequiredQueryUUID(r, "userId")
	if err != nil {
		return err
	}

	summary, err := h.cart.GetCart(r.Context(), userID)
	if err != nil {
		return err
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, summary, "Cart items fetched")
	return nil
}

// RemoveFromCart handles DELETE /cart/{itemId}?userId= requests.
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) error {
	itemID, err := getPathUUID(r, "itemId")
	if err != nil {
		return err
	}
	userID, err := getRequiredQueryUUID(r, "userId")
	if err != nil {
		return err
	}

	if err := h.cart.RemoveFromCart(r.Context(), userID, itemID); err != nil {
		return err
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, nil, "Item removed from cart")
	return nil
}
