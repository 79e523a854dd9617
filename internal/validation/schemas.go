package validation

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCartQuantity is used when an add-to-cart request omits quantity.
const DefaultCartQuantity = 1

// CategoryCreateRequest is a validated category-create payload.
type CategoryCreateRequest struct {
	Name string `json:"name" validate:"min=1"`
}

// ProductCreateRequest is a validated product-create payload. Numeric bounds
// follow the stored columns: prices below 1e10 with two decimal places,
// counts within int32.
// ImageURL is accepted for compatibility; stored images come from uploads.
type ProductCreateRequest struct {
	Title       string          `json:"title" validate:"min=1"`
	Description string          `json:"description" validate:"min=1"`
	Price       decimal.Decimal `json:"price" validate:"gt=0,lt=10000000000"`
	Stock       int             `json:"stock" validate:"gte=0,max=2147483647"`
	CategoryID  uuid.UUID       `json:"categoryId"`
	ImageURL    *string         `json:"imageUrl" validate:"omitnil,url"`
}

// ProductUpdateRequest is a validated product-update payload.
// A nil field was absent from the request and must be left unchanged.
type ProductUpdateRequest struct {
	Title       *string          `json:"title" validate:"omitnil,min=1"`
	Description *string          `json:"description" validate:"omitnil,min=1"`
	Price       *decimal.Decimal `json:"price" validate:"omitnil,gt=0,lt=10000000000"`
	Stock       *int             `json:"stock" validate:"omitnil,gte=0,max=2147483647"`
	CategoryID  *uuid.UUID       `json:"categoryId"`
	ImageURL    *string          `json:"imageUrl" validate:"omitnil,url"`
}

// UserCreateRequest is a validated user-create payload.
type UserCreateRequest struct {
	Email string `json:"email" validate:"email"`
}

// UserUpdateRequest is a validated user-update payload.
type UserUpdateRequest struct {
	Email *string `json:"email" validate:"omitnil,email"`
}

// CartAddRequest is a validated cart-add payload.
type CartAddRequest struct {
	UserID    uuid.UUID `json:"userId"`
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity" validate:"min=1,max=2147483647"`
}

var productFields = []string{"title", "description", "price", "stock", "categoryId", "imageUrl"}

// ParseCategoryCreate validates a category-create payload. Unknown keys are rejected.
func ParseCategoryCreate(p Payload) (CategoryCreateRequest, error) {
	r := newReader(p)
	r.strict("name")

	var req CategoryCreateRequest
	if name := r.str("name", true); name != nil {
		req.Name = *name
	}
	return req, check(&req, r)
}

// ParseProductCreate validates a product-create payload. Unknown keys are rejected.
// price and stock may arrive as strings and are coerced.
func ParseProductCreate(p Payload) (ProductCreateRequest, error) {
	r := newReader(p)
	r.strict(productFields...)

	var req ProductCreateRequest
	if v := r.str("title", true); v != nil {
		req.Title = *v
	}
	if v := r.str("description", true); v != nil {
		req.Description = *v
	}
	if v := r.decimal("price", true); v != nil {
		req.Price = *v
	}
	if v := r.integerString("stock", true); v != nil {
		req.Stock = *v
	}
	if v := r.uuid("categoryId", true); v != nil {
		req.CategoryID = *v
	}
	req.ImageURL = r.str("imageUrl", false)
	return req, check(&req, r)
}

// ParseProductUpdate validates a product-update payload. Every field is
// optional; present fields obey the product-create rules.
func ParseProductUpdate(p Payload) (ProductUpdateRequest, error) {
	r := newReader(p)
	r.strict(productFields...)

	req := ProductUpdateRequest{
		Title:       r.str("title", false),
		Description: r.str("description", false),
		Price:       r.decimal("price", false),
		Stock:       r.integerString("stock", false),
		CategoryID:  r.uuid("categoryId", false),
		ImageURL:    r.str("imageUrl", false),
	}
	return req, check(&req, r)
}

// ParseUserCreate validates a user-create payload. Unknown keys are ignored.
func ParseUserCreate(p Payload) (UserCreateRequest, error) {
	r := newReader(p)

	var req UserCreateRequest
	if v := r.str("email", true); v != nil {
		req.Email = *v
	}
	return req, check(&req, r)
}

// ParseUserUpdate validates a user-update payload. Unknown keys are ignored.
func ParseUserUpdate(p Payload) (UserUpdateRequest, error) {
	r := newReader(p)
	req := UserUpdateRequest{Email: r.str("email", false)}
	return req, check(&req, r)
}

// ParseCartAdd validates a cart-add payload. Unknown keys are ignored and
// quantity defaults to DefaultCartQuantity.
func ParseCartAdd(p Payload) (CartAddRequest, error) {
	r := newReader(p)

	req := CartAddRequest{Quantity: DefaultCartQuantity}
	if v := r.uuid("userId", true); v != nil {
		req.UserID = *v
	}
	if v := r.uuid("productId", true); v != nil {
		req.ProductID = *v
	}
	if v := r.integer("quantity", false); v != nil {
		req.Quantity = *v
	}
	return req, check(&req, r)
}
