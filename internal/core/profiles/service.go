package profiles

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"Gitcaster/internal/cache"
)

// Field limits for profile writes
const (
	MaxDisplayNameLength = 100
	MaxBioLength         = 1000
	MaxLocationLength    = 100
	MaxYearsExperience   = 60
	MaxListItems         = 50
	MaxListItemLength    = 50
)

// GitHub usernames: alphanumeric or single hyphens, no leading/trailing hyphen, max 39 chars
var githubUsernameRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,37}[a-zA-Z0-9])?$`)

var walletAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

type profileService struct {
	repo  Repository
	cache *cache.MemoryCache[*Profile]
	now   func() time.Time
}

// NewProfileService creates a profile service. profileCache may be nil to disable caching.
func NewProfileService(repo Repository, profileCache *cache.MemoryCache[*Profile]) Service {
	return &profileService{
		repo:  repo,
		cache: profileCache,
		now:   time.Now,
	}
}

// GetProfile returns a public profile by its GitHub username
func (s *profileService) GetProfile(ctx context.Context, githubUsername string) (*Profile, error) {
	username := strings.ToLower(strings.TrimSpace(githubUsername))
	if username == "" {
		return nil, NewValidationError("username", "username is required")
	}

	key := profileCacheKey(username)
	if s.cache != nil {
		if p, ok := s.cache.Get(key); ok {
			return p, nil
		}
	}

	p, err := s.repo.GetByGitHubUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	// Private profiles are indistinguishable from missing ones
	if !p.IsPublic {
		return nil, ErrProfileNotFound
	}

	if s.cache != nil {
		s.cache.Set(key, p)
	}
	return p, nil
}

// UpsertProfile validates and stores the profile owned by userID
func (s *profileService) UpsertProfile(ctx context.Context, userID string, req UpsertProfileRequest) (*Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthenticated
	}

	req = normalizeRequest(req)
	if err := validateUpsertRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return nil, fmt.Errorf("failed to load existing profile: %w", err)
	}

	isPublic := true
	if existing != nil {
		isPublic = existing.IsPublic
	}
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	profile := &Profile{
		UserID:          userID,
		DisplayName:     req.DisplayName,
		Bio:             req.Bio,
		Location:        req.Location,
		ExperienceLevel: req.ExperienceLevel,
		YearsExperience: req.YearsExperience,
		WalletAddress:   req.WalletAddress,
		GitHubUsername:  req.GitHubUsername,
		Skills:          req.Skills,
		Languages:       req.Languages,
		IsPublic:        isPublic,
		LastActiveAt:    s.now().UTC(),
	}
	profile.SearchTags = BuildSearchTags(profile)

	stored, err := s.repo.Upsert(ctx, profile)
	if err != nil {
		if IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.invalidate(existing)
	s.invalidate(stored)
	return stored, nil
}

func (s *profileService) invalidate(p *Profile) {
	if s.cache == nil || p == nil || p.GitHubUsername == nil {
		return
	}
	s.cache.Delete(profileCacheKey(strings.ToLower(*p.GitHubUsername)))
}

func profileCacheKey(username string) string {
	return "profile:" + username
}

func normalizeRequest(req UpsertProfileRequest) UpsertProfileRequest {
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	req.Bio = strings.TrimSpace(req.Bio)
	req.Location = strings.TrimSpace(req.Location)
	req.ExperienceLevel = strings.ToLower(strings.TrimSpace(req.ExperienceLevel))
	req.WalletAddress = strings.TrimSpace(req.WalletAddress)
	req.Skills = dedupe(req.Skills)
	req.Languages = dedupe(req.Languages)

	if req.GitHubUsername != nil {
		username := strings.TrimSpace(*req.GitHubUsername)
		if username == "" {
			req.GitHubUsername = nil
		} else {
			req.GitHubUsername = &username
		}
	}
	return req
}

func validateUpsertRequest(req UpsertProfileRequest) error {
	nameLen := utf8.RuneCountInString(req.DisplayName)
	if nameLen == 0 {
		return NewValidationError("displayName", "display name is required")
	}
	if nameLen > MaxDisplayNameLength {
		return NewValidationError("displayName", fmt.Sprintf("display name must not exceed %d characters", MaxDisplayNameLength))
	}
	if utf8.RuneCountInString(req.Bio) > MaxBioLength {
		return NewValidationError("bio", fmt.Sprintf("bio must not exceed %d characters", MaxBioLength))
	}
	if utf8.RuneCountInString(req.Location) > MaxLocationLength {
		return NewValidationError("location", fmt.Sprintf("location must not exceed %d characters", MaxLocationLength))
	}
	if req.ExperienceLevel != "" && !ExperienceLevels[req.ExperienceLevel] {
		return NewValidationError("experienceLevel", "experience level must be one of: entry, junior, mid, senior, lead, principal")
	}
	if req.YearsExperience < 0 || req.YearsExperience > MaxYearsExperience {
		return NewValidationError("yearsExperience", fmt.Sprintf("years of experience must be between 0 and %d", MaxYearsExperience))
	}
	if err := validateList("skills", req.Skills); err != nil {
		return err
	}
	if err := validateList("languages", req.Languages); err != nil {
		return err
	}
	if req.GitHubUsername != nil {
		if !githubUsernameRegex.MatchString(*req.GitHubUsername) || strings.Contains(*req.GitHubUsername, "--") {
			return NewValidationError("githubUsername", "invalid GitHub username")
		}
	}
	if req.WalletAddress != "" && !walletAddressRegex.MatchString(req.WalletAddress) {
		return NewValidationError("walletAddress", "wallet address must be a 0x-prefixed 40 character hex string")
	}
	return nil
}

func validateList(field string, items []string) error {
	if len(items) > MaxListItems {
		return NewValidationError(field, fmt.Sprintf("at most %d entries allowed", MaxListItems))
	}
	for _, item := range items {
		if utf8.RuneCountInString(item) > MaxListItemLength {
			return NewValidationError(field, fmt.Sprintf("entries must not exceed %d characters", MaxListItemLength))
		}
	}
	return nil
}

func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
