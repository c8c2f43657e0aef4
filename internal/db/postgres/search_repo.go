package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"Gitcaster/internal/core/profiles"
	"Gitcaster/internal/core/search"
)

const summaryColumns = `id, display_name, bio, location, experience_level, years_experience,
	talent_score, github_username, skills, languages, is_featured, last_active_at`

type postgresSearchRepo struct {
	db *sql.DB
}

// NewSearchRepository creates a new PostgreSQL search repository
func NewSearchRepository(db *sql.DB) search.Repository {
	return &postgresSearchRepo{db: db}
}

// Find counts the matching profiles and loads the requested window from one
// read-only snapshot so the total always agrees with the rows
func (r *postgresSearchRepo) Find(ctx context.Context, q search.Query) (result []*profiles.Summary, totalCount int, err error) {
	where, args, err := renderWhere(q.Where)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build search filter: %w", err)
	}
	orderBy, err := renderOrderBy(q.OrderBy)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build search ordering: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin search transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				slog.Warn("failed to rollback search transaction", slog.String("error", rbErr.Error()))
			}
		}
	}()

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM developer_profiles WHERE %s", where)
	if err = tx.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	result, err = querySummaries(ctx, tx, where, orderBy, args, q.Limit, q.Offset)
	if err != nil {
		return nil, 0, err
	}

	if err = tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit search transaction: %w", err)
	}
	return result, totalCount, nil
}

func querySummaries(ctx context.Context, tx *sql.Tx, where, orderBy string, args []interface{}, limit, offset int) ([]*profiles.Summary, error) {
	pageArgs := append(append([]interface{}{}, args...), limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM developer_profiles
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		summaryColumns, where, orderBy, len(args)+1, len(args)+2)

	rows, err := tx.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	page := []*profiles.Summary{}
	for rows.Next() {
		s, scanErr := scanSummary(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", scanErr)
		}
		page = append(page, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search results: %w", err)
	}
	return page, nil
}

func scanSummary(row rowScanner) (*profiles.Summary, error) {
	s := &profiles.Summary{}
	var talentScore sql.NullInt64
	var githubUsername sql.NullString

	err := row.Scan(
		&s.ID, &s.DisplayName, &s.Bio, &s.Location, &s.ExperienceLevel, &s.YearsExperience,
		&talentScore, &githubUsername, pq.Array(&s.Skills), pq.Array(&s.Languages),
		&s.IsFeatured, &s.LastActiveAt,
	)
	if err != nil {
		return nil, err
	}

	if talentScore.Valid {
		score := int(talentScore.Int64)
		s.TalentScore = &score
	}
	if githubUsername.Valid {
		username := githubUsername.String
		s.GitHubUsername = &username
	}
	s.Skills = nonNilStrings(s.Skills)
	s.Languages = nonNilStrings(s.Languages)
	return s, nil
}

// Suggest returns distinct skills, locations and GitHub usernames of public profiles
// containing the query, each list ordered alphabetically and capped at limit
func (r *postgresSearchRepo) Suggest(ctx context.Context, query string, limit int) (*search.Suggestions, error) {
	pattern := "%" + escapeLike(query) + "%"
	out := &search.Suggestions{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		out.Skills, err = r.distinct(gctx, `
			SELECT DISTINCT ON (lower(skill)) skill
			FROM developer_profiles, unnest(skills) AS skill
			WHERE is_public = TRUE AND skill ILIKE $1
			ORDER BY lower(skill), skill
			LIMIT $2`, pattern, limit)
		return err
	})

	g.Go(func() error {
		var err error
		out.Locations, err = r.distinct(gctx, `
			SELECT DISTINCT ON (lower(location)) location
			FROM developer_profiles
			WHERE is_public = TRUE AND location <> '' AND location ILIKE $1
			ORDER BY lower(location), location
			LIMIT $2`, pattern, limit)
		return err
	})

	g.Go(func() error {
		var err error
		out.Usernames, err = r.distinct(gctx, `
			SELECT github_username
			FROM developer_profiles
			WHERE is_public = TRUE AND github_username ILIKE $1
			ORDER BY lower(github_username)
			LIMIT $2`, pattern, limit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load suggestions: %w", err)
	}
	return out, nil
}

func (r *postgresSearchRepo) distinct(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
