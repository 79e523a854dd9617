package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/storefront-labs/storefront-api/internal/api/shared"
	"github.com/storefront-labs/storefront-api/internal/domain"
	"github.com/storefront-labs/storefront-api/internal/platform/logger"
	"github.com/storefront-labs/storefront-api/internal/store"
	"github.com/storefront-labs/storefront-api/internal/validation"
)

// ProductService is the product behavior the handler needs.
type ProductService interface {
	ListProducts(ctx context.Context, filter store.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	CreateProduct(ctx context.Context, req validation.ProductCreateRequest, imagePath string) (*domain.Product, error)
	UpdateProduct(
		ctx context.Context,
		id uuid.UUID,
		req validation.ProductUpdateRequest,
		imagePath string,
	) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	products ProductService
	uploads  *UploadStager
	logger   *slog.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products ProductService, uploads *UploadStager, log *slog.Logger) *ProductHandler {
	if products == nil || uploads == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("product service and upload stager cannot be nil for ProductHandler")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ProductHandler{
		products: products,
		uploads:  uploads,
		logger:   log.With(slog.String("component", "product_handler")),
	}
}

// ListProducts handles GET /products requests, filtered by the optional
// categoryId and search query parameters.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	var filter store.ProductFilter

	categoryID, ok, err := getOptionalQueryUUID(r, "categoryId")
	if err != nil {
		return err
	}
	if ok {
		filter.CategoryID = &categoryID
	}
	filter.Search = strings.TrimSpace(r.URL.Query().Get("search"))

	products, err := h.products.ListProducts(r.Context(), filter)
	if err != nil {
		return err
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, products, "Products fetched successfully")
	return nil
}

// GetProduct handles GET /products/{id} requests.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := getPathUUID(r, "id")
	if err != nil {
		return err
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		return err
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, product, "Product fetched successfully")
	return nil
}

// CreateProduct handles POST /products requests, multipart or JSON.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	staged, err := h.uploads.Stage(w, r)
	if err != nil {
		return err
	}
	defer staged.Cleanup()

	req, err := validation.ParseProductCreate(staged.Payload)
	if err != nil {
		log.Debug("product payload rejected", slog.String("error", err.Error()))
		return err
	}

	product, err := h.products.CreateProduct(r.Context(), req, staged.ImagePath)
	if err != nil {
		return err
	}
	shared.RespondWithSuccess(w, r, http.StatusCreated, product, "Product created successfully")
	return nil
}

// UpdateProduct handles PUT /products/{id} requests, multipart or JSON.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) error {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		return err
	}

	staged, err := h.uploads.Stage(w, r)
	if err != nil {
		return err
	}
	defer staged.Cleanup()

	req, err := validation.ParseProductUpdate(staged.Payload)
	if err != nil {
		log.Debug("product payload rejected",
			slog.String("product_id", id.String()),
			slog.String("error", err.Error()))
		return err
	}

	product, err := h.products.UpdateProduct(r.Context(), id, req, staged.ImagePath)
	if err != nil {
		return err
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, product, "Product updated successfully")
	return nil
}

// DeleteProduct handles DELETE /products/{id} requests.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := getPathUUID(r, "id")
	if err != nil {
		return err
	}

	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		return err
	}
	shared.RespondWithSuccess(w, r, http.StatusOK, nil, "Product deleted successfully")
	return nil
}
