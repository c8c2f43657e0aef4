package profile

import (
	"encoding/json"
	"log"
	"net/http"

	"Gitcaster/internal/api/middleware"
	"Gitcaster/internal/core/profiles"
)

// maxProfileBodyBytes bounds the PUT body
const maxProfileBodyBytes = 64 * 1024

// UpsertHandler creates or replaces the caller's profile
type UpsertHandler struct {
	service profiles.Service
}

// NewUpsertHandler creates a new upsert profile handler
func NewUpsertHandler(service profiles.Service) *UpsertHandler {
	return &UpsertHandler{
		service: service,
	}
}

// HandleUpsert stores the profile owned by the authenticated user
// PUT /api/profiles/me
func (h *UpsertHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")
		return
	}

	var req profiles.UpsertProfileRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxProfileBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	profile, err := h.service.UpsertProfile(r.Context(), userID, req)
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
