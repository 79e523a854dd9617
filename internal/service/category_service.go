package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/storefront-labs/storefront-api/internal/domain"
	"github.com/storefront-labs/storefront-api/internal/platform/logger"
	"github.com/storefront-labs/storefront-api/internal/store"
	"github.com/storefront-labs/storefront-api/internal/validation"
)

// CategoryServiceImpl serves the category use cases.
type CategoryServiceImpl struct {
	store  store.Store
	logger *slog.Logger
}

// NewCategoryService creates a CategoryServiceImpl.
func NewCategoryService(s store.Store, log *slog.Logger) *CategoryServiceImpl {
	if log == nil {
		log = slog.Default()
	}
	return &CategoryServiceImpl{
		store:  s,
		logger: log.With("component", "category_service"),
	}
}

// ListCategories returns every category with its products nested.
func (s *CategoryServiceImpl) ListCategories(ctx context.Context) ([]domain.CategoryWithProducts, error) {
	categories, err := s.store.Categories().ListWithProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory saves a new category.
func (s *CategoryServiceImpl) CreateCategory(
	ctx context.Context,
	req validation.CategoryCreateRequest,
) (*domain.Category, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	category := domain.NewCategory(req.Name)
	if err := s.store.Categories().Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	log.Info("category created",
		"category_id", category.ID,
		"name", category.Name)
	return category, nil
}
