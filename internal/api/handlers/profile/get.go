package profile

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Gitcaster/internal/core/profiles"
)

// GetHandler serves public profiles
type GetHandler struct {
	service profiles.Service
}

// NewGetHandler creates a new get profile handler
func NewGetHandler(service profiles.Service) *GetHandler {
	return &GetHandler{
		service: service,
	}
}

// HandleGet returns the public profile linked to a GitHub username
// GET /api/profiles/{username}
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "username is required")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), username)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(profile); err != nil {
		log.Printf("Failed to encode profile response: %v", err)
	}
}
