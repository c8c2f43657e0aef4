// Package memory provides an in-process profile store. It evaluates search
// predicates directly against stored profiles and backs STORAGE=memory
// deployments and service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"Gitcaster/internal/core/profiles"
	"Gitcaster/internal/core/search"
)

// Store keeps profiles in a map keyed by profile id
type Store struct {
	profiles map[string]*profiles.Profile
	now      func() time.Time
	mu       sync.RWMutex
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		profiles: make(map[string]*profiles.Profile),
		now:      time.Now,
	}
}

// Seed inserts profiles verbatim, assigning ids to those without one
func (s *Store) Seed(items ...*profiles.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range items {
		cp := clone(p)
		if cp.ID == "" {
			cp.ID = uuid.NewString()
		}
		s.profiles[cp.ID] = cp
	}
}

// GetByGitHubUsername returns the profile linked to a GitHub username, ignoring case
func (s *Store) GetByGitHubUsername(ctx context.Context, username string) (*profiles.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.profiles {
		if p.GitHubUsername != nil && strings.EqualFold(*p.GitHubUsername, username) {
			return clone(p), nil
		}
	}
	return nil, profiles.ErrProfileNotFound
}

// GetByUserID returns the profile owned by an account
func (s *Store) GetByUserID(ctx context.Context, userID string) (*profiles.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p := s.byUserID(userID); p != nil {
		return clone(p), nil
	}
	return nil, profiles.ErrProfileNotFound
}

// Upsert inserts or replaces the profile owned by profile.UserID
func (s *Store) Upsert(ctx context.Context, profile *profiles.Profile) (*profiles.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if profile.GitHubUsername != nil {
		for _, p := range s.profiles {
			if p.UserID != profile.UserID && p.GitHubUsername != nil &&
				strings.EqualFold(*p.GitHubUsername, *profile.GitHubUsername) {
				return nil, profiles.ErrGitHubUsernameTaken
			}
		}
	}

	stored := clone(profile)
	now := s.now()
	if existing := s.byUserID(profile.UserID); existing != nil {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
		stored.IsFeatured = existing.IsFeatured
		stored.TalentScore = existing.TalentScore
	} else {
		stored.ID = uuid.NewString()
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	s.profiles[stored.ID] = stored
	return clone(stored), nil
}

// ListWalletProfiles returns profiles that have a wallet address
func (s *Store) ListWalletProfiles(ctx context.Context) ([]profiles.WalletProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []profiles.WalletProfile
	for _, p := range s.profiles {
		if p.WalletAddress != "" {
			out = append(out, profiles.WalletProfile{ID: p.ID, WalletAddress: p.WalletAddress})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateTalentScore sets the reputation score of a profile
func (s *Store) UpdateTalentScore(ctx context.Context, profileID string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[profileID]
	if !ok {
		return profiles.ErrProfileNotFound
	}
	p.TalentScore = &score
	p.UpdatedAt = s.now()
	return nil
}

// Find evaluates the query predicate over every profile, orders the matches
// and returns the requested window with the total match count
func (s *Store) Find(ctx context.Context, q search.Query) ([]*profiles.Summary, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	matches := make([]*profiles.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if search.Match(q.Where, p) {
			matches = append(matches, p)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matches, func(i, j int) bool {
		return search.Less(q.OrderBy, matches[i], matches[j])
	})

	total := len(matches)
	start := min(max(q.Offset, 0), total)
	end := start + min(max(q.Limit, 0), total-start)

	out := make([]*profiles.Summary, 0, end-start)
	for _, p := range matches[start:end] {
		out = append(out, clone(p).ToSummary())
	}
	return out, total, nil
}

// Suggest returns distinct skills, locations and GitHub usernames of public
// profiles that contain the query
func (s *Store) Suggest(ctx context.Context, query string, limit int) (*search.Suggestions, error) {
	needle := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	skills := newCollector(limit)
	locations := newCollector(limit)
	usernames := newCollector(limit)

	for _, p := range s.sortedPublic() {
		for _, skill := range p.Skills {
			if strings.Contains(strings.ToLower(skill), needle) {
				skills.add(skill)
			}
		}
		if p.Location != "" && strings.Contains(strings.ToLower(p.Location), needle) {
			locations.add(p.Location)
		}
		if p.GitHubUsername != nil && strings.Contains(strings.ToLower(*p.GitHubUsername), needle) {
			usernames.add(*p.GitHubUsername)
		}
	}

	return &search.Suggestions{
		Skills:    skills.items,
		Locations: locations.items,
		Usernames: usernames.items,
	}, nil
}

func (s *Store) sortedPublic() []*profiles.Profile {
	out := make([]*profiles.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if p.IsPublic {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) byUserID(userID string) *profiles.Profile {
	for _, p := range s.profiles {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

type collector struct {
	seen  map[string]bool
	items []string
	limit int
}

func newCollector(limit int) *collector {
	return &collector{seen: make(map[string]bool), items: []string{}, limit: limit}
}

func (c *collector) add(v string) {
	key := strings.ToLower(v)
	if len(c.items) >= c.limit || c.seen[key] {
		return
	}
	c.seen[key] = true
	c.items = append(c.items, v)
}

func clone(p *profiles.Profile) *profiles.Profile {
	cp := *p
	cp.Skills = append([]string(nil), p.Skills...)
	cp.Languages = append([]string(nil), p.Languages...)
	cp.SearchTags = append([]string(nil), p.SearchTags...)
	if p.TalentScore != nil {
		score := *p.TalentScore
		cp.TalentScore = &score
	}
	if p.GitHubUsername != nil {
		username := *p.GitHubUsername
		cp.GitHubUsername = &username
	}
	return &cp
}
