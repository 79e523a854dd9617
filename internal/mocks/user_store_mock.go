package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/storefront-labs/storefront-api/internal/domain"
	"github.com/storefront-labs/storefront-api/internal/store"
)

// TestifyMockUserStore is a mock of store.UserStore interface for use with testify/mock
type TestifyMockUserStore struct {
	mock.Mock
}

var _ store.UserStore = (*TestifyMockUserStore)(nil)

// Create is a mock implementation of store.UserStore.Create
func (m *TestifyMockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// GetByID is a mock implementation of store.UserStore.GetByID
func (m *TestifyMockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// List is a mock implementation of store.UserStore.List
func (m *TestifyMockUserStore) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if users, ok := args.Get(0).([]domain.User); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update is a mock implementation of store.UserStore.Update
func (m *TestifyMockUserStore) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// Delete is a mock implementation of store.UserStore.Delete
func (m *TestifyMockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockStore is a store.Store whose entity stores are supplied by the test.
// RunInTx runs fn against the same MockStore.
type MockStore struct {
	UserStore     store.UserStore
	CategoryStore store.CategoryStore
	ProductStore  store.ProductStore
	CartItemStore store.CartItemStore
}

var _ store.Store = (*MockStore)(nil)

// Users returns the configured UserStore.
func (m *MockStore) Users() store.UserStore { return m.UserStore }

// Categories returns the configured CategoryStore.
func (m *MockStore) Categories() store.CategoryStore { return m.CategoryStore }

// Products returns the configured ProductStore.
func (m *MockStore) Products() store.ProductStore { return m.ProductStore }

// CartItems returns the configured CartItemStore.
func (m *MockStore) CartItems() store.CartItemStore { return m.CartItemStore }

// RunInTx runs fn without a real transaction.
func (m *MockStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	return fn(ctx, m)
}
