package search

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"Gitcaster/internal/core/profiles"
	"Gitcaster/internal/core/search"
	"Gitcaster/internal/db/memory"
)

func TestHandleSuggestions_Success(t *testing.T) {
	mockService := new(MockSearchService)
	handler := NewSuggestionsHandler(mockService)

	mockService.On("Suggest", mock.Anything, "rea").Return(&search.Suggestions{
		Skills:    []string{"React", "React Native"},
		Locations: []string{},
		Usernames: []string{"reader"},
	}, nil)

	w := httptest.NewRecorder()
	handler.HandleSuggestions(w, httptest.NewRequest(http.MethodPost, "/api/search/suggestions",
		strings.NewReader(`{"query":"rea"}`)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"suggestions":{"skills":["React","React Native"],"locations":[],"usernames":["reader"]}}`,
		w.Body.String())
}

func TestHandleSuggestions_ShortQueryReturnsEmptyLists(t *testing.T) {
	store := memory.NewStore()
	store.Seed(&profiles.Profile{ID: "p1", DisplayName: "R", Skills: []string{"R"}, IsPublic: true, LastActiveAt: time.Now()})
	handler := NewSuggestionsHandler(search.NewSearchService(store, nil, nil, 0, nil))

	w := httptest.NewRecorder()
	handler.HandleSuggestions(w, httptest.NewRequest(http.MethodPost, "/api/search/suggestions",
		strings.NewReader(`{"query":"r"}`)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"suggestions":{"skills":[],"locations":[],"usernames":[]}}`, w.Body.String())
}

func TestHandleSuggestions_MalformedBody(t *testing.T) {
	mockService := new(MockSearchService)
	handler := NewSuggestionsHandler(mockService)

	w := httptest.NewRecorder()
	handler.HandleSuggestions(w, httptest.NewRequest(http.MethodPost, "/api/search/suggestions",
		strings.NewReader(`{"query":`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Suggest", mock.Anything, mock.Anything)
}

func TestHandleSuggestions_ServiceFailure(t *testing.T) {
	mockService := new(MockSearchService)
	handler := NewSuggestionsHandler(mockService)

	mockService.On("Suggest", mock.Anything, "golang").Return(nil, errors.New("db down"))

	w := httptest.NewRecorder()
	handler.HandleSuggestions(w, httptest.NewRequest(http.MethodPost, "/api/search/suggestions",
		strings.NewReader(`{"query":"golang"}`)))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to load suggestions"}`, w.Body.String())
}

func TestHandleSuggestions_MethodNotAllowed(t *testing.T) {
	handler := NewSuggestionsHandler(new(MockSearchService))

	w := httptest.NewRecorder()
	handler.HandleSuggestions(w, httptest.NewRequest(http.MethodGet, "/api/search/suggestions", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
