package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/storefront-labs/storefront-api/internal/domain"
	"github.com/storefront-labs/storefront-api/internal/platform/logger"
	"github.com/storefront-labs/storefront-api/internal/redact"
	"github.com/storefront-labs/storefront-api/internal/store"
	"github.com/storefront-labs/storefront-api/internal/validation"
)

// ProductServiceImpl serves the product use cases and applies the image
// policy: a failed upload never fails the request.
type ProductServiceImpl struct {
	store    store.Store
	uploader ImageUploader
	logger   *slog.Logger
}

// NewProductService creates a ProductServiceImpl. A nil uploader disables
// image uploads.
func NewProductService(s store.Store, uploader ImageUploader, log *slog.Logger) *ProductServiceImpl {
	if uploader == nil {
		uploader = DisabledUploader{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &ProductServiceImpl{
		store:    s,
		uploader: uploader,
		logger:   log.With("component", "product_service"),
	}
}

// ListProducts returns the products matching filter with their categories.
func (s *ProductServiceImpl) ListProducts(ctx context.Context, filter store.ProductFilter) ([]domain.Product, error) {
	products, err := s.store.Products().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProduct returns a product with its category.
func (s *ProductServiceImpl) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, MsgProductNotFound)
	}
	return product, nil
}

// CreateProduct saves a new product. When imagePath is set the file is
// uploaded first; if that fails the product is stored without an image.
func (s *ProductServiceImpl) CreateProduct(
	ctx context.Context,
	req validation.ProductCreateRequest,
	imagePath string,
) (*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.store.Categories().GetByID(ctx, req.CategoryID); err != nil {
		return nil, notFoundAs(err, MsgCategoryNotFound)
	}

	var imageURL *string
	if imagePath != "" {
		imageURL = s.upload(ctx, imagePath)
	}

	product := domain.NewProduct(req.Title, req.Description, req.Price, req.Stock, req.CategoryID, imageURL)
	if err := s.store.Products().Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	log.Info("product created",
		"product_id", product.ID,
		"category_id", product.CategoryID,
		"has_image", product.ImageURL != nil)
	return product, nil
}

// UpdateProduct applies the fields present in req to an existing product.
// The current image is kept unless imagePath is set and its upload succeeds.
func (s *ProductServiceImpl) UpdateProduct(
	ctx context.Context,
	id uuid.UUID,
	req validation.ProductUpdateRequest,
	imagePath string,
) (*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	product, err := s.store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, MsgProductNotFound)
	}

	if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
		if _, err := s.store.Categories().GetByID(ctx, *req.CategoryID); err != nil {
			return nil, notFoundAs(err, MsgCategoryNotFound)
		}
		product.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if imagePath != "" {
		if url := s.upload(ctx, imagePath); url != nil {
			product.ImageURL = url
		}
	}
	product.UpdatedAt = time.Now().UTC()
	product.Category = nil

	if err := s.store.Products().Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	log.Info("product updated", "product_id", product.ID)
	return product, nil
}

// DeleteProduct removes a product. A missing product surfaces as
// store.ErrNotFound and a product still in a cart as store.ErrReferenced.
func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.store.Products().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	log.Info("product deleted", "product_id", id)
	return nil
}

// upload returns the hosted URL, or nil when the upload fails.
func (s *ProductServiceImpl) upload(ctx context.Context, path string) *string {
	log := logger.FromContextOrDefault(ctx, s.logger)

	url, err := s.uploader.Upload(ctx, path)
	if err != nil {
		log.Warn("image upload failed, continuing without a new image",
			"error", redact.Error(err),
			"error_type", fmt.Sprintf("%T", err))
		return nil
	}
	return &url
}
