package profile

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"Gitcaster/internal/core/profiles"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError writes an error response
func writeError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errType,
		Message: message,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

// handleServiceError converts service errors to appropriate HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case profiles.IsNotFound(err):
		writeError(w, http.StatusNotFound, "NotFound", "Profile not found")
	case profiles.IsConflict(err):
		writeError(w, http.StatusConflict, "UsernameTaken", "GitHub username is already linked to another profile")
	case profiles.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	case errors.Is(err, profiles.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "AuthenticationRequired", "Authentication required")
	default:
		log.Printf("Profile handler error: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}
