package profiles

import "context"

// Repository defines the interface for profile persistence
type Repository interface {
	// GetByGitHubUsername returns the profile linked to a GitHub username (case-insensitive).
	// Returns ErrProfileNotFound when no profile links the username.
	GetByGitHubUsername(ctx context.Context, username string) (*Profile, error)

	// GetByUserID returns the profile owned by an account.
	// Returns ErrProfileNotFound when the account has no profile yet.
	GetByUserID(ctx context.Context, userID string) (*Profile, error)

	// Upsert inserts the profile or replaces the one owned by profile.UserID.
	// The stored ID and CreatedAt of an existing row are preserved.
	Upsert(ctx context.Context, profile *Profile) (*Profile, error)

	// ListWalletProfiles returns every profile that has a wallet address on file.
	ListWalletProfiles(ctx context.Context) ([]WalletProfile, error)

	// UpdateTalentScore sets the reputation score of a profile.
	UpdateTalentScore(ctx context.Context, profileID string, score int) error
}

// Service defines the interface for profile business logic
type Service interface {
	// GetProfile returns a public profile by its linked GitHub username.
	GetProfile(ctx context.Context, githubUsername string) (*Profile, error)

	// UpsertProfile creates or updates the profile owned by userID.
	UpsertProfile(ctx context.Context, userID string, req UpsertProfileRequest) (*Profile, error)
}
