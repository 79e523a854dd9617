package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest quantity a cart item may hold, merges included.
const MaxQuantity = math.MaxInt32

// CartItem is a quantity of one product in one user's cart.
// A (UserID, ProductID) pair appears at most once.
type CartItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Product *Product `json:"product,omitempty"`
}

// NewCartItem creates a CartItem with a fresh ID and timestamps.
func NewCartItem(userID, productID uuid.UUID, quantity int) *CartItem {
	now := time.Now().UTC()
	return &CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the invariants persistence relies on.
func (c *CartItem) Validate() error {
	ve := &ValidationError{}
	if c.UserID == uuid.Nil {
		ve.Add("userId", "Required")
	}
	if c.ProductID == uuid.Nil {
		ve.Add("productId", "Required")
	}
	switch {
	case c.Quantity < 1:
		ve.Add("quantity", "Number must be greater than or equal to 1")
	case c.Quantity > MaxQuantity:
		ve.Add("quantity", "Number must be less than or equal to 2147483647")
	}
	return ve.Err()
}

// Subtotal is quantity times the joined product's price.
// An item without a joined product contributes zero.
func (c *CartItem) Subtotal() decimal.Decimal {
	if c.Product == nil {
		return decimal.Zero
	}
	return c.Product.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
