package router

import (
	"net/http"

	"ims-client/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating the dev proxy router.
type Config struct {
	// Proxy forwards requests to the inventory backend.
	Proxy http.Handler
}

// New creates the development proxy router. The backend may be mounted with
// or without the /api prefix depending on the environment, so both the /api
// tree and the bare resource prefixes are forwarded. That is also what makes
// the client's candidate routes resolve during development.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/api", cfg.Proxy)
	r.Handle("/api/*", cfg.Proxy)

	// Alternative routes without the /api prefix, to handle both patterns.
	for _, prefix := range []string{"/items", "/categories", "/sales", "/transactions"} {
		r.Handle(prefix, cfg.Proxy)
		r.Handle(prefix+"/*", cfg.Proxy)
	}

	return r
}
