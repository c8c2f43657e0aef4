package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"Gitcaster/internal/api/middleware"
	"Gitcaster/internal/api/routes"
	"Gitcaster/internal/config"
	"Gitcaster/internal/core/profiles"
	"Gitcaster/internal/core/search"
)

// newRouter mounts middleware and every route. authMiddleware may be nil to
// leave profile writes unmounted.
func newRouter(
	cfg config.Config,
	rateLimiter *middleware.RateLimiter,
	searchService search.Service,
	profileService profiles.Service,
	authMiddleware *middleware.JWTAuthMiddleware,
) chi.Router {
	r := chi.NewRouter()

	// RequestID first so access logs carry it
	r.Use(chiMiddleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(chiMiddleware.RealIP)
	}
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(rateLimiter.Middleware)

	routes.RegisterSearchRoutes(r, searchService)
	routes.RegisterProfileRoutes(r, profileService, authMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
