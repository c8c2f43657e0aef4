package profiles

import (
	"time"
)

// Experience levels accepted on profiles and in search filters
const (
	LevelEntry     = "entry"
	LevelJunior    = "junior"
	LevelMid       = "mid"
	LevelSenior    = "senior"
	LevelLead      = "lead"
	LevelPrincipal = "principal"
)

// ExperienceLevels is the set of valid experience level values
var ExperienceLevels = map[string]bool{
	LevelEntry:     true,
	LevelJunior:    true,
	LevelMid:       true,
	LevelSenior:    true,
	LevelLead:      true,
	LevelPrincipal: true,
}

// Profile is a developer's public GitCaster profile.
// GitHubUsername and TalentScore are nil when the account has not linked
// GitHub or has no Talent Protocol passport.
type Profile struct {
	LastActiveAt    time.Time `json:"lastActiveAt" db:"last_active_at"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
	TalentScore     *int      `json:"talentScore,omitempty" db:"talent_score"`
	GitHubUsername  *string   `json:"githubUsername,omitempty" db:"github_username"`
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"userId" db:"user_id"`
	DisplayName     string    `json:"displayName" db:"display_name"`
	Bio             string    `json:"bio,omitempty" db:"bio"`
	Location        string    `json:"location,omitempty" db:"location"`
	ExperienceLevel string    `json:"experienceLevel,omitempty" db:"experience_level"`
	WalletAddress   string    `json:"-" db:"wallet_address"`
	Skills          []string  `json:"skills" db:"skills"`
	Languages       []string  `json:"languages" db:"languages"`
	SearchTags      []string  `json:"-" db:"search_tags"`
	YearsExperience int       `json:"yearsExperience" db:"years_experience"`
	IsPublic        bool      `json:"isPublic" db:"is_public"`
	IsFeatured      bool      `json:"isFeatured" db:"is_featured"`
}

// Summary is the projection of a profile returned in search results
type Summary struct {
	LastActiveAt    time.Time `json:"lastActiveAt"`
	TalentScore     *int      `json:"talentScore,omitempty"`
	GitHubUsername  *string   `json:"githubUsername,omitempty"`
	ID              string    `json:"id"`
	DisplayName     string    `json:"displayName"`
	Bio             string    `json:"bio,omitempty"`
	Location        string    `json:"location,omitempty"`
	ExperienceLevel string    `json:"experienceLevel,omitempty"`
	Skills          []string  `json:"skills"`
	Languages       []string  `json:"languages"`
	YearsExperience int       `json:"yearsExperience"`
	IsFeatured      bool      `json:"isFeatured"`
}

// ToSummary projects a profile into its search result form
func (p *Profile) ToSummary() *Summary {
	return &Summary{
		ID:              p.ID,
		DisplayName:     p.DisplayName,
		Bio:             p.Bio,
		Location:        p.Location,
		ExperienceLevel: p.ExperienceLevel,
		YearsExperience: p.YearsExperience,
		TalentScore:     p.TalentScore,
		GitHubUsername:  p.GitHubUsername,
		Skills:          nonNil(p.Skills),
		Languages:       nonNil(p.Languages),
		IsFeatured:      p.IsFeatured,
		LastActiveAt:    p.LastActiveAt,
	}
}

// UpsertProfileRequest is the body of PUT /api/profiles/me
type UpsertProfileRequest struct {
	GitHubUsername  *string  `json:"githubUsername,omitempty"`
	IsPublic        *bool    `json:"isPublic,omitempty"`
	DisplayName     string   `json:"displayName"`
	Bio             string   `json:"bio"`
	Location        string   `json:"location"`
	ExperienceLevel string   `json:"experienceLevel"`
	WalletAddress   string   `json:"walletAddress"`
	Skills          []string `json:"skills"`
	Languages       []string `json:"languages"`
	YearsExperience int      `json:"yearsExperience"`
}

// WalletProfile identifies a profile whose reputation score can be synced
type WalletProfile struct {
	ID            string
	WalletAddress string
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
