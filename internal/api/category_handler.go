package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/storefront-labs/storefront-api/internal/api/shared"
	"github.com/storefront-labs/storefront-api/internal/domain"
	"github.com/storefront-labs/storefront-api/internal/platform/logger"
	"github.com/storefront-labs/storefront-api/internal/validation"
)

// CategoryService is the category behavior the handler needs.
type CategoryService interface {
	ListCategories(ctx context.Context) ([]domain.CategoryWithProducts, error)
	CreateCategory(ctx context.Context, req validation.CategoryCreateRequest) (*domain.Category, error)
}

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categories CategoryService
	logger     *slog.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories CategoryService, log *slog.Logger) *CategoryHandler {
	if categories == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("category service cannot be nil for CategoryHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &CategoryHandler{
		categories: categories,
		logger:     log.With(slog.String("component", "category_handler")),
	}
}

// ListCategories handles GET /categories requests.
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) error {
	categories, err := h.categories.ListCategories(r.Context())
	if err != nil {
		return err
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, categories, "Categories fetched successfully")
	return nil
}

// CreateCategory handles POST /categories requests.
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) error {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	payload, err := shared.DecodeJSON(w, r)
	if err != nil {
		return err
	}
	req, err := validation.ParseCategoryCreate(payload)
	if err != nil {
		log.Debug("category payload rejected", slog.String("error", err.Error()))
		return err
	}

	category, err := h.categories.CreateCategory(r.Context(), req)
	if err != nil {
		return err
	}
	shared.RespondWithSuccess(w, r, http.StatusCreated, category, "Category created successfully")
	return nil
}
