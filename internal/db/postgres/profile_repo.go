package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"Gitcaster/internal/core/profiles"
)

const profileColumns = `id, user_id, display_name, bio, location, experience_level, years_experience,
	talent_score, github_username, wallet_address, skills, languages, search_tags,
	is_public, is_featured, last_active_at, created_at, updated_at`

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const uniqueViolation = "23505"

type postgresProfileRepo struct {
	db *sql.DB
}

// NewProfileRepository creates a new PostgreSQL profile repository
func NewProfileRepository(db *sql.DB) profiles.Repository {
	return &postgresProfileRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*profiles.Profile, error) {
	p := &profiles.Profile{}
	var talentScore sql.NullInt64
	var githubUsername sql.NullString

	err := row.Scan(
		&p.ID, &p.UserID, &p.DisplayName, &p.Bio, &p.Location, &p.ExperienceLevel, &p.YearsExperience,
		&talentScore, &githubUsername, &p.WalletAddress,
		pq.Array(&p.Skills), pq.Array(&p.Languages), pq.Array(&p.SearchTags),
		&p.IsPublic, &p.IsFeatured, &p.LastActiveAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if talentScore.Valid {
		score := int(talentScore.Int64)
		p.TalentScore = &score
	}
	if githubUsername.Valid {
		username := githubUsername.String
		p.GitHubUsername = &username
	}
	return p, nil
}

// GetByGitHubUsername retrieves a profile by its linked GitHub username, ignoring case
func (r *postgresProfileRepo) GetByGitHubUsername(ctx context.Context, username string) (*profiles.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM developer_profiles WHERE lower(github_username) = lower($1)`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, username))
	if err == sql.ErrNoRows {
		return nil, profiles.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by GitHub username: %w", err)
	}
	return p, nil
}

// GetByUserID retrieves the profile owned by an account
func (r *postgresProfileRepo) GetByUserID(ctx context.Context, userID string) (*profiles.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM developer_profiles WHERE user_id = $1`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, profiles.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by user ID: %w", err)
	}
	return p, nil
}

// Upsert inserts the profile or updates the one owned by profile.UserID.
// id, created_at, is_featured and talent_score survive updates.
func (r *postgresProfileRepo) Upsert(ctx context.Context, profile *profiles.Profile) (*profiles.Profile, error) {
	query := `
		INSERT INTO developer_profiles (
			id, user_id, display_name, bio, location, experience_level, years_experience,
			github_username, wallet_address, skills, languages, search_tags,
			is_public, last_active_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			bio = EXCLUDED.bio,
			location = EXCLUDED.location,
			experience_level = EXCLUDED.experience_level,
			years_experience = EXCLUDED.years_experience,
			github_username = EXCLUDED.github_username,
			wallet_address = EXCLUDED.wallet_address,
			skills = EXCLUDED.skills,
			languages = EXCLUDED.languages,
			search_tags = EXCLUDED.search_tags,
			is_public = EXCLUDED.is_public,
			last_active_at = EXCLUDED.last_active_at,
			updated_at = NOW()
		RETURNING ` + profileColumns

	var githubUsername sql.NullString
	if profile.GitHubUsername != nil {
		githubUsername = sql.NullString{String: *profile.GitHubUsername, Valid: true}
	}

	row := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), profile.UserID, profile.DisplayName, profile.Bio, profile.Location,
		profile.ExperienceLevel, profile.YearsExperience,
		githubUsername, profile.WalletAddress,
		pq.Array(nonNilStrings(profile.Skills)), pq.Array(nonNilStrings(profile.Languages)),
		pq.Array(nonNilStrings(profile.SearchTags)),
		profile.IsPublic, profile.LastActiveAt,
	)

	stored, err := scanProfile(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation &&
			strings.Contains(pqErr.Constraint, "github_username") {
			return nil, profiles.ErrGitHubUsernameTaken
		}
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return stored, nil
}

// ListWalletProfiles returns every profile that has a wallet address
func (r *postgresProfileRepo) ListWalletProfiles(ctx context.Context) ([]profiles.WalletProfile, error) {
	query := `SELECT id, wallet_address FROM developer_profiles WHERE wallet_address <> '' ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet profiles: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var result []profiles.WalletProfile
	for rows.Next() {
		var wp profiles.WalletProfile
		if err := rows.Scan(&wp.ID, &wp.WalletAddress); err != nil {
			return nil, fmt.Errorf("failed to scan wallet profile: %w", err)
		}
		result = append(result, wp)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallet profiles: %w", err)
	}
	return result, nil
}

// UpdateTalentScore sets the reputation score of a profile
func (r *postgresProfileRepo) UpdateTalentScore(ctx context.Context, profileID string, score int) error {
	query := `UPDATE developer_profiles SET talent_score = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, profileID, score)
	if err != nil {
		return fmt.Errorf("failed to update talent score: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rowsAffected == 0 {
		return profiles.ErrProfileNotFound
	}
	return nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
