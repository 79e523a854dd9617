package api

import (
	"github.com/go-chi/chi/v5"
)

// Handlers groups the resource handlers mounted by Mount.
type Handlers struct {
	Errors     *ErrorHandler
	Categories *CategoryHandler
	Products   *ProductHandler
	Cart       *CartHandler
	Users      *UserHandler
}

// Mount registers every resource route on r. Unknown routes and methods are
// answered with error envelopes.
func (hs Handlers) Mount(r chi.Router) {
	wrap := hs.Errors.Wrap

	r.NotFound(hs.Errors.NotFound)
	r.MethodNotAllowed(hs.Errors.MethodNotAllowed)

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", wrap(hs.Categories.ListCategories))
		r.Post("/", wrap(hs.Categories.CreateCategory))
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", wrap(hs.Products.ListProducts))
		r.Post("/", wrap(hs.Products.CreateProduct))
		r.Get("/{id}", wrap(hs.Products.GetProduct))
		r.Put("/{id}", wrap(hs.Products.UpdateProduct))
		r.Delete("/{id}", wrap(hs.Products.DeleteProduct))
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", wrap(hs.Cart.GetCart))
		r.Post("/", wrap(hs.Cart.AddToCart))
		r.Delete("/{itemId}", wrap(hs.Cart.RemoveFromCart))
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", wrap(hs.Users.ListUsers))
		r.Post("/", wrap(hs.Users.CreateUser))
		r.Get("/{id}", wrap(hs.Users.GetUser))
		r.Put("/{id}", wrap(hs.Users.UpdateUser))
		r.Delete("/{id}", wrap(hs.Users.DeleteUser))
	})
}
