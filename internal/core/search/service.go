package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"Gitcaster/internal/cache"
	"Gitcaster/internal/core/profiles"
)

const (
	// SuggestionLimit caps each suggestion category
	SuggestionLimit = 5
	// minSuggestionQueryLength is the shortest query that produces suggestions
	minSuggestionQueryLength = 2
	// sharedQueryTimeout bounds a deduplicated search detached from its callers
	sharedQueryTimeout = 30 * time.Second
)

type searchService struct {
	repo   Repository
	local  *cache.MemoryCache[*Result]
	shared SharedCache
	logger *slog.Logger
	group  singleflight.Group
	ttl    time.Duration
}

// NewSearchService creates a search service.
// local and shared are optional cache tiers; pass nil to disable either.
func NewSearchService(repo Repository, local *cache.MemoryCache[*Result], shared SharedCache, ttl time.Duration, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = cache.SearchTTL
	}
	return &searchService{
		repo:   repo,
		local:  local,
		shared: shared,
		ttl:    ttl,
		logger: logger,
	}
}

// cacheKeyInput is the value serialized into the result cache key
type cacheKeyInput struct {
	Filters  Filters `json:"filters"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
}

// Search validates the request, consults the cache tiers and runs the query on a miss
func (s *searchService) Search(ctx context.Context, req Request) (*Result, error) {
	if err := ValidatePaging(req.Page, req.PageSize); err != nil {
		return nil, err
	}

	filters := req.Filters.Normalize()
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	page, pageSize := ClampPage(req.Page, req.PageSize)

	key, err := cache.CanonicalKey("search", cacheKeyInput{Filters: filters, Page: page, PageSize: pageSize})
	if err != nil {
		// Cache failures never abort the request
		s.logger.Warn("[SEARCH] failed to build cache key, bypassing cache", "error", err)
		return s.execute(ctx, filters, page, pageSize)
	}

	if result, ok := s.lookup(ctx, key); ok {
		return result, nil
	}

	// The shared query outlives any single caller, so one client going away
	// does not fail the others waiting on the same key
	ch := s.group.DoChan(key, func() (interface{}, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedQueryTimeout)
		defer cancel()

		result, err := s.execute(sharedCtx, filters, page, pageSize)
		if err != nil {
			return nil, err
		}
		s.store(sharedCtx, key, result)
		return result, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Result), nil
	}
}

func (s *searchService) lookup(ctx context.Context, key string) (*Result, bool) {
	if s.local != nil {
		if result, ok := s.local.Get(key); ok {
			return result, true
		}
	}

	if s.shared == nil {
		return nil, false
	}

	var result Result
	found, err := s.shared.GetJSON(ctx, key, &result)
	if err != nil {
		s.logger.Warn("[SEARCH] shared cache read failed, treating as miss", "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	if s.local != nil {
		s.local.SetWithTTL(key, &result, s.ttl)
	}
	return &result, true
}

func (s *searchService) store(ctx context.Context, key string, result *Result) {
	if s.local != nil {
		s.local.SetWithTTL(key, result, s.ttl)
	}
	if s.shared != nil {
		if err := s.shared.SetJSON(ctx, key, result, s.ttl); err != nil {
			s.logger.Warn("[SEARCH] shared cache write failed", "error", err)
		}
	}
}

func (s *searchService) execute(ctx context.Context, filters Filters, page, pageSize int) (*Result, error) {
	skip, limit := Window(page, pageSize)

	rows, total, err := s.repo.Find(ctx, Query{
		Where:   BuildPredicate(filters),
		OrderBy: ResolveOrdering(filters.SortBy, filters.SortOrder),
		Offset:  skip,
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}

	if rows == nil {
		rows = []*profiles.Summary{}
	}

	return &Result{
		Profiles:   rows,
		Pagination: NewPageMeta(page, pageSize, total),
		Filters:    filters,
	}, nil
}

// Suggest returns autocomplete candidates. Queries shorter than two
// characters yield empty suggestions rather than an error.
func (s *searchService) Suggest(ctx context.Context, query string) (*Suggestions, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSuggestionQueryLength {
		return EmptySuggestions(), nil
	}

	suggestions, err := s.repo.Suggest(ctx, query, SuggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load suggestions: %w", err)
	}
	if suggestions == nil {
		return EmptySuggestions(), nil
	}

	suggestions.Skills = capList(suggestions.Skills, SuggestionLimit)
	suggestions.Locations = capList(suggestions.Locations, SuggestionLimit)
	suggestions.Usernames = capList(suggestions.Usernames, SuggestionLimit)
	return suggestions, nil
}

// EmptySuggestions returns suggestions with every category present and empty
func EmptySuggestions() *Suggestions {
	return &Suggestions{
		Skills:    []string{},
		Locations: []string{},
		Usernames: []string{},
	}
}

func capList(items []string, limit int) []string {
	if items == nil {
		return []string{}
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
