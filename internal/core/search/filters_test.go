package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilters_Normalize(t *testing.T) {
	f := Filters{
		Query:           "  react dev ",
		Location:        " Berlin ",
		Skills:          []string{"React", " react", "", "Go"},
		ExperienceLevel: []string{"Senior", "senior", " LEAD "},
	}.Normalize()

	assert.Equal(t, "react dev", f.Query)
	assert.Equal(t, "Berlin", f.Location)
	assert.Equal(t, []string{"React", "Go"}, f.Skills)
	assert.Equal(t, []string{"senior", "lead"}, f.ExperienceLevel)
	assert.Nil(t, f.Languages)
	assert.Equal(t, SortRelevance, f.SortBy)
	assert.Equal(t, SortDesc, f.SortOrder)
}

func TestFilters_Validate(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		field   string
	}{
		{"unknown sort", Filters{SortBy: "popularity"}, "sortBy"},
		{"unknown order", Filters{SortOrder: "sideways"}, "sortOrder"},
		{"negative min years", Filters{MinYearsExperience: intPtr(-1)}, "minYears"},
		{"negative max years", Filters{MaxYearsExperience: intPtr(-2)}, "maxYears"},
		{"inverted range", Filters{MinYearsExperience: intPtr(10), MaxYearsExperience: intPtr(2)}, "minYears"},
		{"negative score", Filters{MinTalentScore: intPtr(-5)}, "minScore"},
		{"unknown level", Filters{ExperienceLevel: []string{"wizard"}}, "experienceLevel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filters.Validate()
			require.Error(t, err)

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.field, valErr.Field)
		})
	}
}

func TestFilters_ValidateAcceptsWellFormed(t *testing.T) {
	f := Filters{
		Query:              "go",
		SortBy:             SortExperience,
		SortOrder:          SortAsc,
		MinYearsExperience: intPtr(2),
		MaxYearsExperience: intPtr(2),
		MinTalentScore:     intPtr(0),
		ExperienceLevel:    []string{"Mid", "principal"},
	}
	assert.NoError(t, f.Validate())
	assert.NoError(t, Filters{}.Validate())
}
