package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront-labs/storefront-api/internal/domain"
	"github.com/storefront-labs/storefront-api/internal/platform/logger"
	"github.com/storefront-labs/storefront-api/internal/store"
)

// PostgresProductStore implements the store.ProductStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProductStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProductStore creates a new PostgreSQL implementation of the ProductStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresProductStore(db store.DBTX, log *slog.Logger) *PostgresProductStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresProductStore{
		db:     db,
		logger: log.With(slog.String("component", "product_store")),
	}
}

var _ store.ProductStore = (*PostgresProductStore)(nil)

const productWithCategoryQuery = `
		SELECT p.id, p.title, p.description, p.price, p.stock,
		       p.category_id, p.image_url, p.created_at, p.updated_at,
		       c.id, c.name, c.created_at, c.updated_at
		FROM products p
		JOIN categories c ON c.id = p.category_id
	`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProductWithCategory(row rowScanner) (*domain.Product, error) {
	var (
		p domain.Product
		c domain.Category
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Price, &p.Stock,
		&p.CategoryID, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
		&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Category = &c
	return &p, nil
}

// nullableProduct receives the product half of a LEFT JOIN.
type nullableProduct struct {
	ID          uuid.NullUUID
	Title       sql.NullString
	Description sql.NullString
	Price       decimal.NullDecimal
	Stock       sql.NullInt64
	CategoryID  uuid.NullUUID
	ImageURL    *string
	CreatedAt   sql.NullTime
	UpdatedAt   sql.NullTime
}

func (n nullableProduct) value() (domain.Product, bool) {
	if !n.ID.Valid {
		return domain.Product{}, false
	}
	return domain.Product{
		ID:          n.ID.UUID,
		Title:       n.Title.String,
		Description: n.Description.String,
		Price:       n.Price.Decimal,
		Stock:       int(n.Stock.Int64),
		CategoryID:  n.CategoryID.UUID,
		ImageURL:    n.ImageURL,
		CreatedAt:   n.CreatedAt.Time,
		UpdatedAt:   n.UpdatedAt.Time,
	}, true
}

// mapProductWriteError translates a failed insert or update. A foreign key
// violation here means the category does not exist.
func mapProductWriteError(err error, categoryID uuid.UUID) error {
	if IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: category %s does not exist", store.ErrInvalidEntity, categoryID)
	}
	return MapError(err)
}

// Create implements store.ProductStore.Create
func (s *PostgresProductStore) Create(ctx context.Context, product *domain.Product) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := product.Validate(); err != nil {
		log.Warn("product validation failed during create",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO products (id, title, description, price, stock, category_id, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Title,
		product.Description,
		product.Price,
		product.Stock,
		product.CategoryID,
		product.ImageURL,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create product",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()),
			slog.String("category_id", product.CategoryID.String()))
		return mapProductWriteError(err, product.CategoryID)
	}

	log.Info("product created successfully",
		slog.String("product_id", product.ID.String()),
		slog.String("category_id", product.CategoryID.String()))
	return nil
}

// GetByID implements store.ProductStore.GetByID
func (s *PostgresProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	product, err := scanProductWithCategory(
		s.db.QueryRowContext(ctx, productWithCategoryQuery+` WHERE p.id = $1`, id),
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrNotFound) {
			log.Debug("product not found", slog.String("product_id", id.String()))
			return nil, store.ErrProductNotFound
		}
		log.Error("failed to get product by ID",
			slog.String("error", err.Error()),
			slog.String("product_id", id.String()))
		return nil, mapped
	}

	return product, nil
}

// List implements store.ProductStore.List
func (s *PostgresProductStore) List(ctx context.Context, filter store.ProductFilter) ([]domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		conditions []string
		args       []any
	)
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf(`p.title ILIKE $%d ESCAPE '\'`, len(args)))
	}

	query := productWithCategoryQuery
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.created_at, p.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query products", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProductWithCategory(rows)
		if err != nil {
			log.Error("failed to scan product row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Debug("listed products",
		slog.Int("count", len(products)),
		slog.Bool("category_filter", filter.CategoryID != nil),
		slog.Bool("search_filter", filter.Search != ""))
	return products, nil
}

// Update implements store.ProductStore.Update
func (s *PostgresProductStore) Update(ctx context.Context, product *domain.Product) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := product.Validate(); err != nil {
		log.Warn("product validation failed during update",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE products
		SET title = $1, description = $2, price = $3, stock = $4,
		    category_id = $5, image_url = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		product.Title,
		product.Description,
		product.Price,
		product.Stock,
		product.CategoryID,
		product.ImageURL,
		product.UpdatedAt,
		product.ID,
	)
	if err != nil {
		log.Error("failed to update product",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()))
		return mapProductWriteError(err, product.CategoryID)
	}

	if err := CheckRowsAffected(result, store.ErrProductNotFound); err != nil {
		log.Debug("product not updated",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()))
		return err
	}

	log.Info("product updated successfully", slog.String("product_id", product.ID.String()))
	return nil
}

// Delete implements store.ProductStore.Delete
func (s *PostgresProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("product still referenced",
				slog.String("error", err.Error()),
				slog.String("product_id", id.String()))
			return store.NewStoreError("product", "delete", "referenced by cart items",
				fmt.Errorf("%w: %v", store.ErrReferenced, err))
		}
		log.Error("failed to delete product",
			slog.String("error", err.Error()),
			slog.String("product_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrProductNotFound); err != nil {
		log.Debug("product not deleted",
			slog.String("error", err.Error()),
			slog.String("product_id", id.String()))
		return err
	}

	log.Info("product deleted successfully", slog.String("product_id", id.String()))
	return nil
}
