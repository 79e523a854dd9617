package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/storefront-labs/storefront-api/internal/domain"
	"github.com/storefront-labs/storefront-api/internal/platform/logger"
	"github.com/storefront-labs/storefront-api/internal/store"
)

// PostgresCartItemStore implements the store.CartItemStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCartItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCartItemStore creates a new PostgreSQL implementation of the CartItemStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresCartItemStore(db store.DBTX, log *slog.Logger) *PostgresCartItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresCartItemStore{
		db:     db,
		logger: log.With(slog.String("component", "cart_item_store")),
	}
}

var _ store.CartItemStore = (*PostgresCartItemStore)(nil)

const cartItemColumns = `id, user_id, product_id, quantity, created_at, updated_at`

// AddOrIncrement implements store.CartItemStore.AddOrIncrement
// The unique (user_id, product_id) constraint makes concurrent adds of the
// same pair merge into one row.
func (s *PostgresCartItemStore) AddOrIncrement(
	ctx context.Context,
	item *domain.CartItem,
) (*domain.CartItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("cart item validation failed",
			slog.String("error", err.Error()),
			slog.String("user_id", item.UserID.String()))
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, product_id) DO UPDATE
		SET quantity = cart_items.quantity + EXCLUDED.quantity,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + cartItemColumns

	var stored domain.CartItem
	err := s.db.QueryRowContext(
		ctx,
		query,
		item.ID,
		item.UserID,
		item.ProductID,
		item.Quantity,
		item.CreatedAt,
		item.UpdatedAt,
	).Scan(
		&stored.ID,
		&stored.UserID,
		&stored.ProductID,
		&stored.Quantity,
		&stored.CreatedAt,
		&stored.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to add cart item",
			slog.String("error", err.Error()),
			slog.String("user_id", item.UserID.String()),
			slog.String("product_id", item.ProductID.String()))
		if IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: user or product does not exist: %v", store.ErrInvalidEntity, err)
		}
		return nil, MapError(err)
	}

	log.Info("cart item saved",
		slog.String("cart_item_id", stored.ID.String()),
		slog.String("user_id", stored.UserID.String()),
		slog.Int("quantity", stored.Quantity))
	return &stored, nil
}

// GetByID implements store.CartItemStore.GetByID
func (s *PostgresCartItemStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.CartItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var item domain.CartItem
	err := s.db.QueryRowContext(ctx, `SELECT `+cartItemColumns+` FROM cart_items WHERE id = $1`, id).Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrNotFound) {
			log.Debug("cart item not found", slog.String("cart_item_id", id.String()))
			return nil, store.ErrCartItemNotFound
		}
		log.Error("failed to get cart item",
			slog.String("error", err.Error()),
			slog.String("cart_item_id", id.String()))
		return nil, mapped
	}

	return &item, nil
}

// ListByUser implements store.CartItemStore.ListByUser
func (s *PostgresCartItemStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
		       p.id, p.title, p.description, p.price, p.stock,
		       p.category_id, p.image_url, p.created_at, p.updated_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at DESC, ci.id
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query cart items",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	items := []domain.CartItem{}
	for rows.Next() {
		var (
			item domain.CartItem
			p    domain.Product
		)
		err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
			&p.ID, &p.Title, &p.Description, &p.Price, &p.Stock,
			&p.CategoryID, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan cart item row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		item.Product = &p
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Debug("listed cart items",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(items)))
	return items, nil
}

// Delete implements store.CartItemStore.Delete
func (s *PostgresCartItemStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete cart item",
			slog.String("error", err.Error()),
			slog.String("cart_item_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrCartItemNotFound); err != nil {
		log.Debug("cart item not deleted",
			slog.String("error", err.Error()),
			slog.String("cart_item_id", id.String()))
		return err
	}

	log.Info("cart item deleted", slog.String("cart_item_id", id.String()))
	return nil
}

// DeleteByUser implements store.CartItemStore.DeleteByUser
func (s *PostgresCartItemStore) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		log.Error("failed to clear cart",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, MapError(err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected", slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Debug("cleared cart",
		slog.String("user_id", userID.String()),
		slog.Int64("removed", removed))
	return removed, nil
}
