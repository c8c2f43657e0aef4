package search

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"Gitcaster/internal/core/search"
)

// ErrorResponse is the JSON body of a failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	writeJSON(w, status, ErrorResponse{Error: errType, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("[SEARCH] failed to encode response", "error", err)
	}
}

// handleServiceError maps search errors to responses. Storage failures are
// logged and reported without detail.
func handleServiceError(w http.ResponseWriter, err error, failure string) {
	switch {
	case search.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	default:
		slog.Error("[SEARCH] request failed", "error", err)
		writeError(w, http.StatusInternalServerError, failure, "")
	}
}
