package handlers

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"dashboard/internal/middleware"
)

// NewRouter wires the full API surface. Everything except login sits
// behind token authentication; write routes and user administration sit
// behind the admin check.
func NewRouter(h *Handler, secret string) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Post("/api/login", h.Auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(secret))

		r.Get("/api/me", h.Auth.Me)

		r.Route("/api/records", func(r chi.Router) {
			r.Get("/", h.Records.List)
			r.Get("/{id}", h.Records.Get)
			r.With(middleware.RequireAdmin).Post("/", h.Records.Create)
			r.With(middleware.RequireAdmin).Put("/{id}", h.Records.Update)
			r.With(middleware.RequireAdmin).Delete("/{id}", h.Records.Delete)
		})

		r.Route("/api/users", func(r chi.Router) {
			r.With(middleware.RequireAdmin).Get("/", h.Users.List)
			r.Get("/{id}", h.Users.Get)
			r.With(middleware.RequireAdmin).Post("/", h.Users.Create)
			r.Put("/{id}", h.Users.Update)
			r.With(middleware.RequireAdmin).Delete("/{id}", h.Users.Delete)
		})
	})

	return r
}
