package routes

import (
	"github.com/go-chi/chi/v5"

	"Gitcaster/internal/api/handlers/search"
	searchCore "Gitcaster/internal/core/search"
)

// RegisterSearchRoutes registers the public developer search endpoints
func RegisterSearchRoutes(r chi.Router, service searchCore.Service) {
	searchHandler := search.NewSearchHandler(service)
	suggestionsHandler := search.NewSuggestionsHandler(service)

	// Search is public and only ever returns public profiles
	r.Get("/api/search/developers", searchHandler.HandleSearch)

	// Autocomplete for the search box
	r.Post("/api/search/suggestions", suggestionsHandler.HandleSuggestions)
}
