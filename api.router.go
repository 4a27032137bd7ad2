package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes enforces the api routes with the given middleware stack.
// The static `search` and `stock/available` segments are declared
// before the generic id pattern: the router matches static routes
// first by construction, and the ordering here keeps that contract
// readable. The tests pin it down.
func (api *APIHandler) SetupRoutes(m Middlewares) *chi.Mux {
	router := chi.NewRouter()
	for _, mw := range m {
		router.Use(mw)
	}

	router.Get("/health", api.Health)
	router.Get("/api", api.Index)

	router.Route("/api/books", func(r chi.Router) {
		r.Post("/", api.CreateBook)
		r.Get("/", api.GetAllBooks)
		r.Get("/search", api.SearchBooks)
		r.Get("/stock/available", api.GetInStockBooks)
		r.Get("/genre/{genre}", api.GetBooksByGenre)
		r.Get("/{id}", api.GetOneBook)
		r.Put("/{id}", api.UpdateBook)
		r.Delete("/{id}", api.DeleteOneBook)
	})

	router.NotFound(api.NotFound)
	router.MethodNotAllowed(api.MethodNotAllowed)
	return router
}

// Handler builds the complete http handler of the api.
func (api *APIHandler) Handler() http.Handler {
	return api.SetupRoutes(api.MiddlewaresStack())
}
