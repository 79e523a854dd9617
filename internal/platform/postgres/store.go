package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/storefront-labs/storefront-api/internal/store"
)

// Store bundles the PostgreSQL entity stores behind store.Store.
type Store struct {
	// db is nil on a Store already bound to a transaction.
	db     *sql.DB
	logger *slog.Logger

	users      *PostgresUserStore
	categories *PostgresCategoryStore
	products   *PostgresProductStore
	cartItems  *PostgresCartItemStore
}

var _ store.Store = (*Store)(nil)

// NewStore creates a Store over an open connection pool.
func NewStore(db *sql.DB, log *slog.Logger) *Store {
	if db == nil {
		panic("db cannot be nil")
	}
	return newStore(db, db, log)
}

func newStore(conn store.DBTX, db *sql.DB, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		db:         db,
		logger:     log,
		users:      NewPostgresUserStore(conn, log),
		categories: NewPostgresCategoryStore(conn, log),
		products:   NewPostgresProductStore(conn, log),
		cartItems:  NewPostgresCartItemStore(conn, log),
	}
}

// Users implements store.Store.
func (s *Store) Users() store.UserStore { return s.users }

// Categories implements store.Store.
func (s *Store) Categories() store.CategoryStore { return s.categories }

// Products implements store.Store.
func (s *Store) Products() store.ProductStore { return s.products }

// CartItems implements store.Store.
func (s *Store) CartItems() store.CartItemStore { return s.cartItems }

// RunInTx implements store.Store. Nested calls join the outer transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	if s.db == nil {
		return fn(ctx, s)
	}
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, newStore(tx, nil, s.logger))
	})
}
