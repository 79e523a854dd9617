package memstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/storefront-labs/storefront-api/internal/domain"
	"github.com/storefront-labs/storefront-api/internal/store"
)

type userStore struct{ s *Store }

var _ store.UserStore = userStore{}

func (u userStore) Create(ctx context.Context, user *domain.User) error {
	return u.s.do(ctx, OpUserCreate, func(d *data) error {
		if err := user.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
		if d.emailTaken(user.Email, uuid.Nil) {
			return store.ErrEmailExists
		}
		if _, exists := d.users[user.ID]; exists {
			return store.ErrDuplicate
		}
		d.users[user.ID] = *user
		d.track(user.ID)
		return nil
	})
}

func (u userStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var out *domain.User
	err := u.s.do(ctx, OpUserGet, func(d *data) error {
		user, ok := d.users[id]
		if !ok {
			return store.ErrUserNotFound
		}
		out = &user
		return nil
	})
	return out, err
}

func (u userStore) List(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := u.s.do(ctx, OpUserList, func(d *data) error {
		ids := make([]uuid.UUID, 0, len(d.users))
		for id := range d.users {
			ids = append(ids, id)
		}
		d.newestFirst(ids)
		out = make([]domain.User, 0, len(ids))
		for _, id := range ids {
			out = append(out, d.users[id])
		}
		return nil
	})
	return out, err
}

func (u userStore) Update(ctx context.Context, user *domain.User) error {
	return u.s.do(ctx, OpUserUpdate, func(d *data) error {
		existing, ok := d.users[user.ID]
		if !ok {
			return store.ErrUserNotFound
		}
		if err := user.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
		if d.emailTaken(user.Email, user.ID) {
			return store.ErrEmailExists
		}
		existing.Email = user.Email
		existing.UpdatedAt = user.UpdatedAt
		d.users[user.ID] = existing
		return nil
	})
}

func (u userStore) Delete(ctx context.Context, id uuid.UUID) error {
	return u.s.do(ctx, OpUserDelete, func(d *data) error {
		if _, ok := d.users[id]; !ok {
			return store.ErrUserNotFound
		}
		for _, item := range d.cartItems {
			if item.UserID == id {
				return fmt.Errorf("%w: user %s has cart items", store.ErrReferenced, id)
			}
		}
		delete(d.users, id)
		delete(d.order, id)
		return nil
	})
}

func (d *data) emailTaken(email string, except uuid.UUID) bool {
	for id, user := range d.users {
		if id != except && user.Email == email {
			return true
		}
	}
	return false
}

type categoryStore struct{ s *Store }

var _ store.CategoryStore = categoryStore{}

func (c categoryStore) Create(ctx context.Context, category *domain.Category) error {
	return c.s.do(ctx, OpCategoryCreate, func(d *data) error {
		if err := category.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
		if _, exists := d.categories[category.ID]; exists {
			return store.ErrDuplicate
		}
		d.categories[category.ID] = *category
		d.track(category.ID)
		return nil
	})
}

func (c categoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	var out *domain.Category
	err := c.s.do(ctx, OpCategoryGet, func(d *data) error {
		category, ok := d.categories[id]
		if !ok {
			return store.ErrCategoryNotFound
		}
		out = &category
		return nil
	})
	return out, err
}

func (c categoryStore) ListWithProducts(ctx context.Context) ([]domain.CategoryWithProducts, error) {
	var out []domain.CategoryWithProducts
	err := c.s.do(ctx, OpCategoryList, func(d *data) error {
		categoryIDs := make([]uuid.UUID, 0, len(d.categories))
		for id := range d.categories {
			categoryIDs = append(categoryIDs, id)
		}
		d.oldestFirst(categoryIDs)

		productIDs := make([]uuid.UUID, 0, len(d.products))
		for id := range d.products {
			productIDs = append(productIDs, id)
		}
		d.oldestFirst(productIDs)

		out = make([]domain.CategoryWithProducts, 0, len(categoryIDs))
		for _, cid := range categoryIDs {
			entry := domain.CategoryWithProducts{Category: d.categories[cid], Products: []domain.Product{}}
			for _, pid := range productIDs {
				if p := d.products[pid]; p.CategoryID == cid {
					entry.Products = append(entry.Products, p)
				}
			}
			out = append(out, entry)
		}
		return nil
	})
	return out, err
}

type productStore struct{ s *Store }

var _ store.ProductStore = productStore{}

// withCategory returns a copy of p with its category joined.
func (d *data) withCategory(p domain.Product) domain.Product {
	if category, ok := d.categories[p.CategoryID]; ok {
		p.Category = &category
	}
	return p
}

func (d *data) checkProduct(p *domain.Product) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	if _, ok := d.categories[p.CategoryID]; !ok {
		return fmt.Errorf("%w: category %s does not exist", store.ErrInvalidEntity, p.CategoryID)
	}
	return nil
}

func (ps productStore) Create(ctx context.Context, product *domain.Product) error {
	return ps.s.do(ctx, OpProductCreate, func(d *data) error {
		if err := d.checkProduct(product); err != nil {
			return err
		}
		if _, exists := d.products[product.ID]; exists {
			return store.ErrDuplicate
		}
		stored := *product
		stored.Category = nil
		d.products[product.ID] = stored
		d.track(product.ID)
		return nil
	})
}

func (ps productStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var out *domain.Product
	err := ps.s.do(ctx, OpProductGet, func(d *data) error {
		p, ok := d.products[id]
		if !ok {
			return store.ErrProductNotFound
		}
		joined := d.withCategory(p)
		out = &joined
		return nil
	})
	return out, err
}

func (ps productStore) List(ctx context.Context, filter store.ProductFilter) ([]domain.Product, error) {
	var out []domain.Product
	err := ps.s.do(ctx, OpProductList, func(d *data) error {
		ids := make([]uuid.UUID, 0, len(d.products))
		for id := range d.products {
			ids = append(ids, id)
		}
		d.oldestFirst(ids)

		search := strings.ToLower(filter.Search)
		out = make([]domain.Product, 0, len(ids))
		for _, id := range ids {
			p := d.products[id]
			if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
				continue
			}
			out = append(out, d.withCategory(p))
		}
		return nil
	})
	return out, err
}

func (ps productStore) Update(ctx context.Context, product *domain.Product) error {
	return ps.s.do(ctx, OpProductUpdate, func(d *data) error {
		existing, ok := d.products[product.ID]
		if !ok {
			return store.ErrProductNotFound
		}
		if err := d.checkProduct(product); err != nil {
			return err
		}
		stored := *product
		stored.Category = nil
		stored.CreatedAt = existing.CreatedAt
		d.products[product.ID] = stored
		return nil
	})
}

func (ps productStore) Delete(ctx context.Context, id uuid.UUID) error {
	return ps.s.do(ctx, OpProductDelete, func(d *data) error {
		if _, ok := d.products[id]; !ok {
			return store.ErrProductNotFound
		}
		for _, item := range d.cartItems {
			if item.ProductID == id {
				return fmt.Errorf("%w: product %s is in a cart", store.ErrReferenced, id)
			}
		}
		delete(d.products, id)
		delete(d.order, id)
		return nil
	})
}

type cartStore struct{ s *Store }

var _ store.CartItemStore = cartStore{}

func (cs cartStore) AddOrIncrement(ctx context.Context, item *domain.CartItem) (*domain.CartItem, error) {
	var out *domain.CartItem
	err := cs.s.do(ctx, OpCartAdd, func(d *data) error {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
		if _, ok := d.users[item.UserID]; !ok {
			return fmt.Errorf("%w: user %s does not exist", store.ErrInvalidEntity, item.UserID)
		}
		if _, ok := d.products[item.ProductID]; !ok {
			return fmt.Errorf("%w: product %s does not exist", store.ErrInvalidEntity, item.ProductID)
		}

		for id, existing := range d.cartItems {
			if existing.UserID == item.UserID && existing.ProductID == item.ProductID {
				if existing.Quantity > domain.MaxQuantity-item.Quantity {
					return fmt.Errorf("%w: merged quantity exceeds %d", store.ErrInvalidEntity, domain.MaxQuantity)
				}
				existing.Quantity += item.Quantity
				existing.UpdatedAt = cs.s.now()
				d.cartItems[id] = existing
				out = &existing
				return nil
			}
		}

		stored := *item
		stored.Product = nil
		d.cartItems[item.ID] = stored
		d.track(item.ID)
		out = &stored
		return nil
	})
	return out, err
}

func (cs cartStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.CartItem, error) {
	var out *domain.CartItem
	err := cs.s.do(ctx, OpCartGet, func(d *data) error {
		item, ok := d.cartItems[id]
		if !ok {
			return store.ErrCartItemNotFound
		}
		out = &item
		return nil
	})
	return out, err
}

func (cs cartStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error) {
	var out []domain.CartItem
	err := cs.s.do(ctx, OpCartList, func(d *data) error {
		var ids []uuid.UUID
		for id, item := range d.cartItems {
			if item.UserID == userID {
				ids = append(ids, id)
			}
		}
		d.newestFirst(ids)

		out = make([]domain.CartItem, 0, len(ids))
		for _, id := range ids {
			item := d.cartItems[id]
			if p, ok := d.products[item.ProductID]; ok {
				item.Product = &p
			}
			out = append(out, item)
		}
		return nil
	})
	return out, err
}

func (cs cartStore) Delete(ctx context.Context, id uuid.UUID) error {
	return cs.s.do(ctx, OpCartDelete, func(d *data) error {
		if _, ok := d.cartItems[id]; !ok {
			return store.ErrCartItemNotFound
		}
		delete(d.cartItems, id)
		delete(d.order, id)
		return nil
	})
}

func (cs cartStore) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var removed int64
	err := cs.s.do(ctx, OpCartDeleteByUser, func(d *data) error {
		for id, item := range d.cartItems {
			if item.UserID == userID {
				delete(d.cartItems, id)
				delete(d.order, id)
				removed++
			}
		}
		return nil
	})
	return removed, err
}
