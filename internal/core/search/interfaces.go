package search

import (
	"context"
	"time"

	"Gitcaster/internal/core/profiles"
)

// Query is what a storage adapter executes: a predicate, an ordering and an offset window
type Query struct {
	Where   Predicate
	OrderBy []OrderTerm
	Offset  int
	Limit   int
}

// Request is one invocation of the search entry point
type Request struct {
	Filters  Filters
	Page     int
	PageSize int
}

// Result is one page of search results with the filters that produced it
type Result struct {
	Profiles   []*profiles.Summary `json:"profiles"`
	Filters    Filters             `json:"filters"`
	Pagination PageMeta            `json:"pagination"`
}

// Suggestions holds autocomplete candidates for the search box
type Suggestions struct {
	Skills    []string `json:"skills"`
	Locations []string `json:"locations"`
	Usernames []string `json:"usernames"`
}

// Repository executes search queries against a profile store
type Repository interface {
	// Find returns the rows inside the query window plus the total number of matching rows.
	Find(ctx context.Context, q Query) ([]*profiles.Summary, int, error)

	// Suggest returns up to limit distinct skills, locations and GitHub usernames
	// from public profiles containing the query (case-insensitive).
	Suggest(ctx context.Context, query string, limit int) (*Suggestions, error)
}

// SharedCache is a cross-process cache tier consulted after the local cache
type SharedCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Service defines search business logic
type Service interface {
	Search(ctx context.Context, req Request) (*Result, error)
	Suggest(ctx context.Context, query string) (*Suggestions, error)
}
