// Package memstore is an in-memory implementation of store.Store.
//
// It enforces the same uniqueness and referential rules as the PostgreSQL
// schema and reports violations with the store sentinel errors, which makes
// it suitable for service and handler tests. Transactions run under a single
// mutex against a copy of the data that replaces the original on success.
// FailOn injects errors into named operations.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storefront-labs/storefront-api/internal/domain"
	"github.com/storefront-labs/storefront-api/internal/store"
)

// Operation names accepted by FailOn.
const (
	OpUserCreate        = "users.create"
	OpUserGet           = "users.get"
	OpUserList          = "users.list"
	OpUserUpdate        = "users.update"
	OpUserDelete        = "users.delete"
	OpCategoryCreate    = "categories.create"
	OpCategoryGet       = "categories.get"
	OpCategoryList      = "categories.list"
	OpProductCreate     = "products.create"
	OpProductGet        = "products.get"
	OpProductList       = "products.list"
	OpProductUpdate     = "products.update"
	OpProductDelete     = "products.delete"
	OpCartAdd           = "cart.add"
	OpCartGet           = "cart.get"
	OpCartList          = "cart.list"
	OpCartDelete        = "cart.delete"
	OpCartDeleteByUser  = "cart.delete_by_user"
	OpTransactionCommit = "tx.commit"
)

type data struct {
	users      map[uuid.UUID]domain.User
	categories map[uuid.UUID]domain.Category
	products   map[uuid.UUID]domain.Product
	cartItems  map[uuid.UUID]domain.CartItem
	// order records insertion sequence for stable newest-first sorting.
	order map[uuid.UUID]uint64
	seq   uint64
}

func newData() *data {
	return &data{
		users:      make(map[uuid.UUID]domain.User),
		categories: make(map[uuid.UUID]domain.Category),
		products:   make(map[uuid.UUID]domain.Product),
		cartItems:  make(map[uuid.UUID]domain.CartItem),
		order:      make(map[uuid.UUID]uint64),
	}
}

func (d *data) clone() *data {
	c := &data{
		users:      make(map[uuid.UUID]domain.User, len(d.users)),
		categories: make(map[uuid.UUID]domain.Category, len(d.categories)),
		products:   make(map[uuid.UUID]domain.Product, len(d.products)),
		cartItems:  make(map[uuid.UUID]domain.CartItem, len(d.cartItems)),
		order:      make(map[uuid.UUID]uint64, len(d.order)),
		seq:        d.seq,
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.categories {
		c.categories[k] = v
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.cartItems {
		c.cartItems[k] = v
	}
	for k, v := range d.order {
		c.order[k] = v
	}
	return c
}

func (d *data) track(id uuid.UUID) {
	d.seq++
	d.order[id] = d.seq
}

// Store is an in-memory store.Store. The zero value is not usable; call New.
type Store struct {
	mu       *sync.Mutex
	data     *data
	inTx     bool
	failures map[string]error
	now      func() time.Time
}

var _ store.Store = (*Store)(nil)

// New creates an empty Store.
func New() *Store {
	return &Store{
		mu:       &sync.Mutex{},
		data:     newData(),
		failures: make(map[string]error),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// FailOn makes every subsequent call of op return err. A nil err clears it.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Users implements store.Store.
func (s *Store) Users() store.UserStore { return userStore{s} }

// Categories implements store.Store.
func (s *Store) Categories() store.CategoryStore { return categoryStore{s} }

// Products implements store.Store.
func (s *Store) Products() store.ProductStore { return productStore{s} }

// CartItems implements store.Store.
func (s *Store) CartItems() store.CartItemStore { return cartStore{s} }

// RunInTx implements store.Store. Writes made by fn become visible only if
// fn returns nil.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{
		mu:       s.mu,
		data:     s.data.clone(),
		inTx:     true,
		failures: s.failures,
		now:      s.now,
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := s.failures[OpTransactionCommit]; err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

// do runs fn with the data locked, unless already inside a transaction.
func (s *Store) do(ctx context.Context, op string, fn func(d *data) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	if err := s.failures[op]; err != nil {
		return err
	}
	return fn(s.data)
}

// newestFirst sorts ids by insertion sequence, latest first.
func (d *data) newestFirst(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return d.order[ids[i]] > d.order[ids[j]] })
}

// oldestFirst sorts ids by insertion sequence, earliest first.
func (d *data) oldestFirst(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool { return d.order[ids[i]] < d.order[ids[j]] })
}
