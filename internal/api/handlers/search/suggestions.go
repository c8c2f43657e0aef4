package search

import (
	"encoding/json"
	"net/http"

	"Gitcaster/internal/core/search"
)

// maxSuggestionBodyBytes bounds the POST body
const maxSuggestionBodyBytes = 4 * 1024

// SuggestionsRequest is the body of POST /api/search/suggestions
type SuggestionsRequest struct {
	Query string `json:"query"`
}

// SuggestionsResponse wraps the suggestion lists
type SuggestionsResponse struct {
	Suggestions *search.Suggestions `json:"suggestions"`
}

// SuggestionsHandler handles search box autocomplete
type SuggestionsHandler struct {
	service search.Service
}

// NewSuggestionsHandler creates a new suggestions handler
func NewSuggestionsHandler(service search.Service) *SuggestionsHandler {
	return &SuggestionsHandler{
		service: service,
	}
}

// HandleSuggestions returns up to five skills, locations and usernames matching the query.
// Queries shorter than two characters return empty lists.
func (h *SuggestionsHandler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SuggestionsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSuggestionBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	suggestions, err := h.service.Suggest(r.Context(), req.Query)
	if err != nil {
		handleServiceError(w, err, "Failed to load suggestions")
		return
	}

	writeJSON(w, http.StatusOK, SuggestionsResponse{Suggestions: suggestions})
}
