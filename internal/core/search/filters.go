package search

import (
	"strings"

	"Gitcaster/internal/core/profiles"
)

// SortBy names the logical ordering of search results
type SortBy string

// Supported sort keys
const (
	SortRelevance  SortBy = "relevance"
	SortActivity   SortBy = "activity"
	SortScore      SortBy = "score"
	SortExperience SortBy = "experience"
)

// SortOrder is the direction applied to user-orderable sort keys
type SortOrder string

// Supported sort directions
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

var validSorts = map[SortBy]bool{
	SortRelevance:  true,
	SortActivity:   true,
	SortScore:      true,
	SortExperience: true,
}

var validOrders = map[SortOrder]bool{
	SortAsc:  true,
	SortDesc: true,
}

// Filters is the set of optional search criteria for one search.
// Zero values mean "no constraint" for every field.
type Filters struct {
	MinYearsExperience *int      `json:"minYearsExperience,omitempty"`
	MaxYearsExperience *int      `json:"maxYearsExperience,omitempty"`
	MinTalentScore     *int      `json:"minTalentScore,omitempty"`
	Query              string    `json:"query,omitempty"`
	Location           string    `json:"location,omitempty"`
	SortBy             SortBy    `json:"sortBy,omitempty"`
	SortOrder          SortOrder `json:"sortOrder,omitempty"`
	Skills             []string  `json:"skills,omitempty"`
	Languages          []string  `json:"languages,omitempty"`
	ExperienceLevel    []string  `json:"experienceLevel,omitempty"`
	IsFeatured         bool      `json:"isFeatured,omitempty"`
	HasGitHub          bool      `json:"hasGitHub,omitempty"`
	HasTalentProtocol  bool      `json:"hasTalentProtocol,omitempty"`
}

// Normalize returns a copy with text trimmed, empty list items dropped,
// duplicate list items removed, and sort defaults applied.
func (f Filters) Normalize() Filters {
	out := f
	out.Query = strings.TrimSpace(f.Query)
	out.Location = strings.TrimSpace(f.Location)
	out.Skills = cleanList(f.Skills, false)
	out.Languages = cleanList(f.Languages, false)
	out.ExperienceLevel = cleanList(f.ExperienceLevel, true)

	if out.SortBy == "" {
		out.SortBy = SortRelevance
	}
	if out.SortOrder == "" {
		out.SortOrder = SortDesc
	}
	return out
}

// Validate rejects malformed filter values
func (f Filters) Validate() error {
	if f.SortBy != "" && !validSorts[f.SortBy] {
		return NewValidationError("sortBy", "sortBy must be one of: relevance, activity, score, experience")
	}
	if f.SortOrder != "" && !validOrders[f.SortOrder] {
		return NewValidationError("sortOrder", "sortOrder must be one of: asc, desc")
	}
	if f.MinYearsExperience != nil && *f.MinYearsExperience < 0 {
		return NewValidationError("minYears", "minYears must be non-negative")
	}
	if f.MaxYearsExperience != nil && *f.MaxYearsExperience < 0 {
		return NewValidationError("maxYears", "maxYears must be non-negative")
	}
	if f.MinYearsExperience != nil && f.MaxYearsExperience != nil &&
		*f.MinYearsExperience > *f.MaxYearsExperience {
		return NewValidationError("minYears", "minYears must not exceed maxYears")
	}
	if f.MinTalentScore != nil && *f.MinTalentScore < 0 {
		return NewValidationError("minScore", "minScore must be non-negative")
	}
	for _, level := range f.ExperienceLevel {
		if !profiles.ExperienceLevels[strings.ToLower(level)] {
			return NewValidationError("experienceLevel", "unknown experience level: "+level)
		}
	}
	return nil
}

func cleanList(items []string, lower bool) []string {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if lower {
			item = strings.ToLower(item)
		}
		if item == "" || seen[strings.ToLower(item)] {
			continue
		}
		seen[strings.ToLower(item)] = true
		out = append(out, item)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
