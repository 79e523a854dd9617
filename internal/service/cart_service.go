package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront-labs/storefront-api/internal/domain"
	"github.com/storefront-labs/storefront-api/internal/platform/logger"
	"github.com/storefront-labs/storefront-api/internal/store"
	"github.com/storefront-labs/storefront-api/internal/validation"
)

// CartSummary is a user's cart with its totals.
type CartSummary struct {
	CartItems     []domain.CartItem `json:"cartItems"`
	TotalQuantity int               `json:"totalQuantity"`
	TotalPrice    decimal.Decimal   `json:"totalPrice"`
}

// CartServiceImpl serves the cart use cases.
type CartServiceImpl struct {
	store  store.Store
	logger *slog.Logger
}

// NewCartService creates a CartServiceImpl.
func NewCartService(s store.Store, log *slog.Logger) *CartServiceImpl {
	if log == nil {
		log = slog.Default()
	}
	return &CartServiceImpl{
		store:  s,
		logger: log.With("component", "cart_service"),
	}
}

// AddToCart puts req.Quantity of a product in a user's cart. Adding a product
// that is already there increases the quantity of the existing item.
func (s *CartServiceImpl) AddToCart(ctx context.Context, req validation.CartAddRequest) (*domain.CartItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.store.Users().GetByID(ctx, req.UserID); err != nil {
		return nil, notFoundAs(err, MsgUserNotFound)
	}
	if _, err := s.store.Products().GetByID(ctx, req.ProductID); err != nil {
		return nil, notFoundAs(err, MsgProductNotFound)
	}

	item, err := s.store.CartItems().AddOrIncrement(ctx, domain.NewCartItem(req.UserID, req.ProductID, req.Quantity))
	if err != nil {
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	log.Info("item added to cart",
		"cart_item_id", item.ID,
		"user_id", item.UserID,
		"product_id", item.ProductID,
		"quantity", item.Quantity)
	return item, nil
}

// GetCart returns a user's items, newest first, with quantity and price totals.
func (s *CartServiceImpl) GetCart(ctx context.Context, userID uuid.UUID) (*CartSummary, error) {
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return nil, notFoundAs(err, MsgUserNotFound)
	}

	items, err := s.store.CartItems().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}

	summary := &CartSummary{CartItems: items, TotalPrice: decimal.Zero}
	for i := range items {
		summary.TotalQuantity += items[i].Quantity
		summary.TotalPrice = summary.TotalPrice.Add(items[i].Subtotal())
	}
	return summary, nil
}

// RemoveFromCart deletes one item from a user's cart. An item that exists
// but belongs to another user is reported as not found.
func (s *CartServiceImpl) RemoveFromCart(ctx context.Context, userID, itemID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return notFoundAs(err, MsgUserNotFound)
	}

	item, err := s.store.CartItems().GetByID(ctx, itemID)
	if err != nil {
		return notFoundAs(err, MsgCartItemNotFound)
	}
	if item.UserID != userID {
		log.Debug("cart item belongs to another user",
			"cart_item_id", itemID,
			"user_id", userID)
		return domain.NotFound(MsgCartItemNotFound)
	}

	if err := s.store.CartItems().Delete(ctx, itemID); err != nil {
		return notFoundAs(err, MsgCartItemNotFound)
	}

	log.Info("item removed from cart",
		"cart_item_id", itemID,
		"user_id", userID)
	return nil
}
