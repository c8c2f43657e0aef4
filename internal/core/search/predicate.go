package search

import (
	"strings"
)

// Field identifies a searchable profile attribute.
// Storage adapters map each field to their own column or struct member.
type Field string

// Searchable profile fields
const (
	FieldID              Field = "id"
	FieldIsPublic        Field = "is_public"
	FieldIsFeatured      Field = "is_featured"
	FieldDisplayName     Field = "display_name"
	FieldBio             Field = "bio"
	FieldSearchTags      Field = "search_tags"
	FieldGitHubUsername  Field = "github_username"
	FieldLocation        Field = "location"
	FieldExperienceLevel Field = "experience_level"
	FieldYearsExperience Field = "years_experience"
	FieldTalentScore     Field = "talent_score"
	FieldSkills          Field = "skills"
	FieldLanguages       Field = "languages"
	FieldLastActiveAt    Field = "last_active_at"
)

// Op is a comparison operator in a Cond
type Op string

// Comparison operators
const (
	// OpIsTrue matches a boolean field that is true
	OpIsTrue Op = "is_true"
	// OpContainsFold matches a text field containing Value (string), ignoring case
	OpContainsFold Op = "contains_fold"
	// OpInFold matches a text field equal to one of Value ([]string), ignoring case
	OpInFold Op = "in_fold"
	// OpHasElem matches a list field containing Value (string) exactly
	OpHasElem Op = "has_elem"
	// OpOverlapsFold matches a list field sharing at least one element with Value ([]string), ignoring case
	OpOverlapsFold Op = "overlaps_fold"
	// OpGte matches a numeric field >= Value (int)
	OpGte Op = "gte"
	// OpLte matches a numeric field <= Value (int)
	OpLte Op = "lte"
	// OpNotNull matches a nullable field that has a value
	OpNotNull Op = "not_null"
)

// Predicate is a boolean expression over profiles
type Predicate interface {
	predicate()
}

// And matches when every child matches. An empty And matches everything.
type And []Predicate

// Or matches when any child matches. An empty Or matches nothing.
type Or []Predicate

// Cond compares a single field
type Cond struct {
	Value any
	Field Field
	Op    Op
}

func (And) predicate()  {}
func (Or) predicate()   {}
func (Cond) predicate() {}

// BuildPredicate translates filters into a predicate.
// Filters are expected to be normalized; unset fields add no clause.
func BuildPredicate(f Filters) Predicate {
	where := And{
		Cond{Field: FieldIsPublic, Op: OpIsTrue},
	}

	if f.Query != "" {
		where = append(where, Or{
			Cond{Field: FieldDisplayName, Op: OpContainsFold, Value: f.Query},
			Cond{Field: FieldBio, Op: OpContainsFold, Value: f.Query},
			Cond{Field: FieldSearchTags, Op: OpHasElem, Value: strings.ToLower(f.Query)},
			Cond{Field: FieldGitHubUsername, Op: OpContainsFold, Value: f.Query},
		})
	}

	if f.Location != "" {
		where = append(where, Cond{Field: FieldLocation, Op: OpContainsFold, Value: f.Location})
	}

	if len(f.ExperienceLevel) > 0 {
		where = append(where, Cond{Field: FieldExperienceLevel, Op: OpInFold, Value: f.ExperienceLevel})
	}

	if f.MinYearsExperience != nil {
		where = append(where, Cond{Field: FieldYearsExperience, Op: OpGte, Value: *f.MinYearsExperience})
	}
	if f.MaxYearsExperience != nil {
		where = append(where, Cond{Field: FieldYearsExperience, Op: OpLte, Value: *f.MaxYearsExperience})
	}

	if f.MinTalentScore != nil {
		where = append(where, Cond{Field: FieldTalentScore, Op: OpGte, Value: *f.MinTalentScore})
	}

	// One-directional: false never means "only non-featured"
	if f.IsFeatured {
		where = append(where, Cond{Field: FieldIsFeatured, Op: OpIsTrue})
	}

	if len(f.Skills) > 0 {
		where = append(where, Cond{Field: FieldSkills, Op: OpOverlapsFold, Value: f.Skills})
	}
	if len(f.Languages) > 0 {
		where = append(where, Cond{Field: FieldLanguages, Op: OpOverlapsFold, Value: f.Languages})
	}

	if f.HasGitHub {
		where = append(where, Cond{Field: FieldGitHubUsername, Op: OpNotNull})
	}
	if f.HasTalentProtocol {
		where = append(where, Cond{Field: FieldTalentScore, Op: OpNotNull})
	}

	return where
}
