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

// PostgresCategoryStore implements the store.CategoryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCategoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCategoryStore creates a new PostgreSQL implementation of the CategoryStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresCategoryStore(db store.DBTX, log *slog.Logger) *PostgresCategoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresCategoryStore{
		db:     db,
		logger: log.With(slog.String("component", "category_store")),
	}
}

var _ store.CategoryStore = (*PostgresCategoryStore)(nil)

// Create implements store.CategoryStore.Create
func (s *PostgresCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := category.Validate(); err != nil {
		log.Warn("category validation failed during create",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO categories (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query, category.ID, category.Name, category.CreatedAt, category.UpdatedAt)
	if err != nil {
		log.Error("failed to create category",
			slog.String("error", err.Error()),
			slog.String("category_id", category.ID.String()))
		return MapError(err)
	}

	log.Info("category created successfully",
		slog.String("category_id", category.ID.String()),
		slog.String("name", category.Name))
	return nil
}

// GetByID implements store.CategoryStore.GetByID
func (s *PostgresCategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT id, name, created_at, updated_at FROM categories WHERE id = $1`

	var category domain.Category
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrNotFound) {
			log.Debug("category not found", slog.String("category_id", id.String()))
			return nil, store.ErrCategoryNotFound
		}
		log.Error("failed to get category by ID",
			slog.String("error", err.Error()),
			slog.String("category_id", id.String()))
		return nil, mapped
	}

	return &category, nil
}

// ListWithProducts implements store.CategoryStore.ListWithProducts
// Categories and their products are both returned oldest first. A single
// LEFT JOIN keeps categories without products.
func (s *PostgresCategoryStore) ListWithProducts(ctx context.Context) ([]domain.CategoryWithProducts, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT c.id, c.name, c.created_at, c.updated_at,
		       p.id, p.title, p.description, p.price, p.stock,
		       p.category_id, p.image_url, p.created_at, p.updated_at
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		ORDER BY c.created_at, c.id, p.created_at, p.id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query categories", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	categories := []domain.CategoryWithProducts{}
	for rows.Next() {
		var (
			category domain.Category
			product  nullableProduct
		)
		err := rows.Scan(
			&category.ID, &category.Name, &category.CreatedAt, &category.UpdatedAt,
			&product.ID, &product.Title, &product.Description, &product.Price, &product.Stock,
			&product.CategoryID, &product.ImageURL, &product.CreatedAt, &product.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan category row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}

		if n := len(categories); n == 0 || categories[n-1].ID != category.ID {
			categories = append(categories, domain.CategoryWithProducts{
				Category: category,
				Products: []domain.Product{},
			})
		}
		if p, ok := product.value(); ok {
			last := &categories[len(categories)-1]
			last.Products = append(last.Products, p)
		}
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Debug("listed categories", slog.Int("count", len(categories)))
	return categories, nil
}
