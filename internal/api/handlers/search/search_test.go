package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"Gitcaster/internal/core/profiles"
	"Gitcaster/internal/core/search"
	"Gitcaster/internal/db/memory"
)

// MockSearchService is a mock implementation of search.Service
type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, req search.Request) (*search.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*search.Result), args.Error(1)
}

func (m *MockSearchService) Suggest(ctx context.Context, query string) (*search.Suggestions, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*search.Suggestions), args.Error(1)
}

func intPtr(n int) *int { return &n }

func TestHandleSearch_ParsesQueryParameters(t *testing.T) {
	mockService := new(MockSearchService)
	handler := NewSearchHandler(mockService)

	expected := search.Request{
		Filters: search.Filters{
			Query:              "ada",
			Location:           "Berlin",
			Skills:             []string{"React", " TypeScript"},
			Languages:          []string{"English"},
			ExperienceLevel:    []string{"mid", "senior"},
			MinYearsExperience: intPtr(3),
			MaxYearsExperience: intPtr(10),
			MinTalentScore:     intPtr(40),
			SortBy:             search.SortScore,
			SortOrder:          search.SortAsc,
			IsFeatured:         true,
			HasGitHub:          true,
			HasTalentProtocol:  false,
		},
		Page:     2,
		PageSize: 10,
	}
	mockService.On("Search", mock.Anything, expected).Return(&search.Result{
		Profiles:   []*profiles.Summary{},
		Filters:    expected.Filters.Normalize(),
		Pagination: search.NewPageMeta(2, 10, 0),
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/search/developers?q=ada&location=Berlin"+
		"&skills=React,%20TypeScript&languages=English&experienceLevel=mid,senior"+
		"&minYears=3&maxYears=10&minScore=40&sortBy=Score&sortOrder=asc"+
		"&featured=true&hasGitHub=true&hasTalentProtocol=yes&page=2&pageSize=10", nil)
	w := httptest.NewRecorder()

	handler.HandleSearch(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	mockService.AssertExpectations(t)
}

func TestHandleSearch_Defaults(t *testing.T) {
	mockService := new(MockSearchService)
	handler := NewSearchHandler(mockService)

	mockService.On("Search", mock.Anything, search.Request{Page: 1, PageSize: search.DefaultPageSize}).
		Return(&search.Result{Profiles: []*profiles.Summary{}}, nil)

	w := httptest.NewRecorder()
	handler.HandleSearch(w, httptest.NewRequest(http.MethodGet, "/api/search/developers", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestHandleSearch_NonIntegerParameter(t *testing.T) {
	for _, param := range []string{"minYears=three", "maxYears=1.5", "minScore=x", "page=first", "pageSize=ten"} {
		t.Run(param, func(t *testing.T) {
			mockService := new(MockSearchService)
			handler := NewSearchHandler(mockService)

			w := httptest.NewRecorder()
			handler.HandleSearch(w, httptest.NewRequest(http.MethodGet, "/api/search/developers?"+param, nil))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "InvalidRequest", body.Error)
			assert.Contains(t, body.Message, strings.Split(param, "=")[0])
			mockService.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
		})
	}
}

func TestHandleSearch_ValidationError(t *testing.T) {
	mockService := new(MockSearchService)
	handler := NewSearchHandler(mockService)

	mockService.On("Search", mock.Anything, mock.Anything).
		Return(nil, search.NewValidationError("page", "page must be at least 1"))

	w := httptest.NewRecorder()
	handler.HandleSearch(w, httptest.NewRequest(http.MethodGet, "/api/search/developers?page=0", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "page must be at least 1")
}

func TestHandleSearch_StorageFailure(t *testing.T) {
	mockService := new(MockSearchService)
	handler := NewSearchHandler(mockService)

	mockService.On("Search", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("failed to search profiles: %w", errors.New("connection reset")))

	w := httptest.NewRecorder()
	handler.HandleSearch(w, httptest.NewRequest(http.MethodGet, "/api/search/developers", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to search profiles"}`, w.Body.String())
}

func TestHandleSearch_MethodNotAllowed(t *testing.T) {
	handler := NewSearchHandler(new(MockSearchService))

	w := httptest.NewRecorder()
	handler.HandleSearch(w, httptest.NewRequest(http.MethodPost, "/api/search/developers", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

// TestHandleSearch_EndToEnd runs the handler against the real service and the memory store
func TestHandleSearch_EndToEnd(t *testing.T) {
	store := memory.NewStore()
	for i := 1; i <= 25; i++ {
		score := i
		store.Seed(&profiles.Profile{
			ID:              fmt.Sprintf("p%02d", i),
			DisplayName:     fmt.Sprintf("Dev %d", i),
			Skills:          []string{"Go"},
			YearsExperience: i % 7,
			TalentScore:     &score,
			IsPublic:        true,
			LastActiveAt:    time.Date(2024, 1, i, 0, 0, 0, 0, time.UTC),
		})
	}
	handler := NewSearchHandler(search.NewSearchService(store, nil, nil, time.Minute, nil))

	w := httptest.NewRecorder()
	handler.HandleSearch(w, httptest.NewRequest(http.MethodGet,
		"/api/search/developers?skills=go&sortBy=score&page=3&pageSize=10", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Profiles []struct {
			ID          string `json:"id"`
			TalentScore int    `json:"talentScore"`
		} `json:"profiles"`
		Pagination search.PageMeta `json:"pagination"`
		Filters    map[string]any  `json:"filters"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, search.PageMeta{
		Page: 3, PageSize: 10, TotalCount: 25, TotalPages: 3, HasNextPage: false, HasPrevPage: true,
	}, body.Pagination)
	require.Len(t, body.Profiles, 5)
	assert.Equal(t, 5, body.Profiles[0].TalentScore)
	assert.Equal(t, 1, body.Profiles[4].TalentScore)
	assert.Equal(t, "score", body.Filters["sortBy"])

	w = httptest.NewRecorder()
	handler.HandleSearch(w, httptest.NewRequest(http.MethodGet, "/api/search/developers?page=0", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	handler.HandleSearch(w, httptest.NewRequest(http.MethodGet, "/api/search/developers?pageSize=101", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 100, body.Pagination.PageSize)
}

func TestHandleSearch_HugePage(t *testing.T) {
	store := memory.NewStore()
	store.Seed(&profiles.Profile{ID: "p1", DisplayName: "Dev", IsPublic: true})
	handler := NewSearchHandler(search.NewSearchService(store, nil, nil, time.Minute, nil))

	w := httptest.NewRecorder()
	handler.HandleSearch(w, httptest.NewRequest(http.MethodGet,
		"/api/search/developers?pageSize=20&page=9223372036854775807", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "page must be at most")

	w = httptest.NewRecorder()
	handler.HandleSearch(w, httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/search/developers?pageSize=100&page=%d", search.MaxPage), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Profiles   []json.RawMessage `json:"profiles"`
		Pagination search.PageMeta   `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Profiles)
	assert.Equal(t, 1, body.Pagination.TotalCount)
	assert.Equal(t, search.MaxPage, body.Pagination.Page)
}
