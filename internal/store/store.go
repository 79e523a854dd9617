package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront-labs/storefront-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// List returns every user, newest first.
	List(ctx context.Context) ([]domain.User, error)

	// Update saves the email and updated timestamp of an existing user.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrEmailExists if the new email belongs to another user.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user by ID.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrReferenced if cart items still reference the user.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryStore defines the interface for category data persistence.
type CategoryStore interface {
	// Create saves a new category.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by ID.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// ListWithProducts returns every category with its products nested.
	ListWithProducts(ctx context.Context) ([]domain.CategoryWithProducts, error)
}

// ProductFilter narrows a product listing. Set fields are AND-combined.
type ProductFilter struct {
	// CategoryID matches products of exactly this category.
	CategoryID *uuid.UUID
	// Search matches titles containing the text, case-insensitively.
	// Wildcard characters in Search match literally.
	Search string
}

// ProductStore defines the interface for product data persistence.
type ProductStore interface {
	// Create saves a new product.
	// Returns ErrInvalidEntity if the category does not exist.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product with its category joined.
	// Returns ErrProductNotFound if the product does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	// List returns the products matching filter with their categories joined.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)

	// Update saves every mutable field of an existing product.
	// Returns ErrProductNotFound if the product does not exist.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product by ID.
	// Returns ErrProductNotFound if the product does not exist and
	// ErrReferenced if cart items still reference it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CartItemStore defines the interface for cart item persistence.
type CartItemStore interface {
	// AddOrIncrement inserts item, or adds item.Quantity to the existing
	// (UserID, ProductID) row, as one atomic operation. It returns the stored row.
	AddOrIncrement(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error)

	// GetByID retrieves a cart item.
	// Returns ErrCartItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CartItem, error)

	// ListByUser returns a user's items with products joined, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error)

	// Delete removes a cart item by ID.
	// Returns ErrCartItemNotFound if the item does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByUser removes every item of a user and reports how many were removed.
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Store aggregates the entity stores over one connection or transaction.
type Store interface {
	Users() UserStore
	Categories() CategoryStore
	Products() ProductStore
	CartItems() CartItemStore

	// RunInTx runs fn against a Store bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
