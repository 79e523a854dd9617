package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/storefront-labs/storefront-api/internal/api"
	"github.com/storefront-labs/storefront-api/internal/api/shared"
	apiMiddleware "github.com/storefront-labs/storefront-api/internal/api/middleware"
	"github.com/storefront-labs/storefront-api/internal/service"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.Server.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type", shared.TraceIDHeader},
		ExposedHeaders: []string{shared.TraceIDHeader},
		MaxAge:         300,
	}))
	r.Use(apiMiddleware.Trace(app.logger))

	errs := api.NewErrorHandler(app.logger, app.config.Server.IsDevelopment())
	uploads := api.NewUploadStager(
		app.config.Upload.TempDir,
		app.config.Upload.MaxFileSizeBytes(),
		app.logger,
	)

	api.Handlers{
		Errors: errs,
		Categories: api.NewCategoryHandler(
			service.NewCategoryService(app.store, app.logger),
			app.logger,
		),
		Products: api.NewProductHandler(
			service.NewProductService(app.store, app.uploader, app.logger),
			uploads,
			app.logger,
		),
		Cart: api.NewCartHandler(
			service.NewCartService(app.store, app.logger),
			app.logger,
		),
		Users: api.NewUserHandler(
			service.NewUserService(app.store, app.logger),
			app.logger,
		),
	}.Mount(r)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithSuccess(w, r, http.StatusOK, nil, "Server healthy")
	})

	return r
}
