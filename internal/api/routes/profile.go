package routes

import (
	"github.com/go-chi/chi/v5"

	"Gitcaster/internal/api/handlers/profile"
	"Gitcaster/internal/api/middleware"
	"Gitcaster/internal/core/profiles"
)

// RegisterProfileRoutes registers profile endpoints.
// Writes are only mounted when authMiddleware is non-nil.
func RegisterProfileRoutes(r chi.Router, service profiles.Service, authMiddleware *middleware.JWTAuthMiddleware) {
	getHandler := profile.NewGetHandler(service)
	upsertHandler := profile.NewUpsertHandler(service)

	// "me" is registered first so it never resolves as a username
	if authMiddleware != nil {
		r.With(authMiddleware.RequireAuth).Put("/api/profiles/me", upsertHandler.HandleUpsert)
	}

	r.Get("/api/profiles/{username}", getHandler.HandleGet)
}
