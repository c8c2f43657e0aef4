package search

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"Gitcaster/internal/core/search"
)

// SearchHandler handles developer search
type SearchHandler struct {
	service search.Service
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service search.Service) *SearchHandler {
	return &SearchHandler{
		service: service,
	}
}

// HandleSearch searches public developer profiles
// GET /api/search/developers?q=&skills=a,b&minYears=3&sortBy=score&page=2&pageSize=10
func (h *SearchHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, err := parseSearchRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}

	result, err := h.service.Search(r.Context(), req)
	if err != nil {
		handleServiceError(w, err, "Failed to search profiles")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func parseSearchRequest(query url.Values) (search.Request, error) {
	f := search.Filters{
		Query:             query.Get("q"),
		Location:          query.Get("location"),
		Skills:            splitList(query.Get("skills")),
		Languages:         splitList(query.Get("languages")),
		ExperienceLevel:   splitList(query.Get("experienceLevel")),
		SortBy:            search.SortBy(strings.ToLower(strings.TrimSpace(query.Get("sortBy")))),
		SortOrder:         search.SortOrder(strings.ToLower(strings.TrimSpace(query.Get("sortOrder")))),
		IsFeatured:        query.Get("featured") == "true",
		HasGitHub:         query.Get("hasGitHub") == "true",
		HasTalentProtocol: query.Get("hasTalentProtocol") == "true",
	}

	var err error
	if f.MinYearsExperience, err = optionalInt(query, "minYears"); err != nil {
		return search.Request{}, err
	}
	if f.MaxYearsExperience, err = optionalInt(query, "maxYears"); err != nil {
		return search.Request{}, err
	}
	if f.MinTalentScore, err = optionalInt(query, "minScore"); err != nil {
		return search.Request{}, err
	}

	req := search.Request{Filters: f, Page: 1, PageSize: search.DefaultPageSize}
	if p, err := optionalInt(query, "page"); err != nil {
		return search.Request{}, err
	} else if p != nil {
		req.Page = *p
	}
	if ps, err := optionalInt(query, "pageSize"); err != nil {
		return search.Request{}, err
	} else if ps != nil {
		req.PageSize = *ps
	}

	return req, nil
}

// optionalInt returns nil for an absent or blank parameter
func optionalInt(query url.Values, name string) (*int, error) {
	raw := strings.TrimSpace(query.Get(name))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, search.NewValidationError(name, name+" must be an integer")
	}
	return &n, nil
}

// splitList splits a comma-separated parameter; Filters.Normalize drops blanks
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
