package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Gitcaster/internal/core/profiles"
	"Gitcaster/internal/core/search"
)

// setupProfileTestDB connects to TEST_DATABASE_URL and runs migrations.
// Tests are skipped when no database is configured.
func setupProfileTestDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL integration test")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, Migrate(db), "Failed to run migrations")

	_, err = db.Exec("DELETE FROM developer_profiles")
	require.NoError(t, err)

	t.Cleanup(func() {
		if _, err := db.Exec("DELETE FROM developer_profiles"); err != nil {
			t.Logf("cleanup failed: %v", err)
		}
		if err := db.Close(); err != nil {
			t.Logf("Failed to close database: %v", err)
		}
	})
	return db
}

func strPtr(s string) *string { return &s }

func newProfile(userID, displayName string, github *string) *profiles.Profile {
	p := &profiles.Profile{
		UserID:         userID,
		DisplayName:    displayName,
		GitHubUsername: github,
		Skills:         []string{"Go"},
		IsPublic:       true,
		LastActiveAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
	p.SearchTags = profiles.BuildSearchTags(p)
	return p
}

func TestProfileRepo_UpsertAndGet(t *testing.T) {
	db := setupProfileTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	created, err := repo.Upsert(ctx, newProfile("user-1", "Ada", strPtr("AdaDev")))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Nil(t, created.TalentScore)

	got, err := repo.GetByGitHubUsername(ctx, "adadev")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, []string{"Go"}, got.Skills)

	updated := newProfile("user-1", "Ada Lovelace", strPtr("AdaDev"))
	stored, err := repo.Upsert(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, created.ID, stored.ID, "upsert keeps the profile id")
	assert.Equal(t, "Ada Lovelace", stored.DisplayName)
	assert.True(t, created.CreatedAt.Equal(stored.CreatedAt))
}

func TestProfileRepo_GitHubUsernameTaken(t *testing.T) {
	db := setupProfileTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, newProfile("user-1", "One", strPtr("shared")))
	require.NoError(t, err)

	_, err = repo.Upsert(ctx, newProfile("user-2", "Two", strPtr("SHARED")))
	assert.ErrorIs(t, err, profiles.ErrGitHubUsernameTaken)
}

func TestProfileRepo_NotFound(t *testing.T) {
	db := setupProfileTestDB(t)
	repo := NewProfileRepository(db)

	_, err := repo.GetByUserID(context.Background(), "nobody")
	assert.ErrorIs(t, err, profiles.ErrProfileNotFound)

	err = repo.UpdateTalentScore(context.Background(), "00000000-0000-0000-0000-000000000000", 10)
	assert.ErrorIs(t, err, profiles.ErrProfileNotFound)
}

func TestProfileRepo_WalletProfilesAndScores(t *testing.T) {
	db := setupProfileTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	withWallet := newProfile("user-1", "Wallet Owner", nil)
	withWallet.WalletAddress = "0x0000000000000000000000000000000000000001"
	stored, err := repo.Upsert(ctx, withWallet)
	require.NoError(t, err)

	_, err = repo.Upsert(ctx, newProfile("user-2", "No Wallet", nil))
	require.NoError(t, err)

	wallets, err := repo.ListWalletProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	assert.Equal(t, stored.ID, wallets[0].ID)

	require.NoError(t, repo.UpdateTalentScore(ctx, stored.ID, 64))

	got, err := repo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got.TalentScore)
	assert.Equal(t, 64, *got.TalentScore)

	// Score survives a profile edit
	_, err = repo.Upsert(ctx, withWallet)
	require.NoError(t, err)
	got, err = repo.GetByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got.TalentScore)
	assert.Equal(t, 64, *got.TalentScore)
}

func TestSearchRepo_FindAndSuggest(t *testing.T) {
	db := setupProfileTestDB(t)
	profileRepo := NewProfileRepository(db)
	searchRepo := NewSearchRepository(db)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		p := newProfile(fmt.Sprintf("user-%02d", i), fmt.Sprintf("Dev %02d", i), strPtr(fmt.Sprintf("dev%02d", i)))
		p.Skills = []string{"TypeScript"}
		p.Location = "Lisbon"
		p.IsPublic = i != 11
		p.SearchTags = profiles.BuildSearchTags(p)
		stored, err := profileRepo.Upsert(ctx, p)
		require.NoError(t, err)
		if i < 10 {
			require.NoError(t, profileRepo.UpdateTalentScore(ctx, stored.ID, i*10))
		}
	}

	filters := search.Filters{Skills: []string{"typescript"}, SortBy: search.SortScore, SortOrder: search.SortAsc}.Normalize()
	rows, total, err := searchRepo.Find(ctx, search.Query{
		Where:   search.BuildPredicate(filters),
		OrderBy: search.ResolveOrdering(filters.SortBy, filters.SortOrder),
		Offset:  5,
		Limit:   10,
	})
	require.NoError(t, err)
	assert.Equal(t, 11, total, "private profile excluded")
	require.Len(t, rows, 6)
	assert.Equal(t, 50, *rows[0].TalentScore)
	assert.Nil(t, rows[5].TalentScore, "null scores sort last even ascending")

	suggestions, err := searchRepo.Suggest(ctx, "typ", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"TypeScript"}, suggestions.Skills)
	assert.Empty(t, suggestions.Locations)
	assert.Empty(t, suggestions.Usernames)

	suggestions, err = searchRepo.Suggest(ctx, "dev", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"dev00", "dev01", "dev02", "dev03", "dev04"}, suggestions.Usernames)
}

func TestSearchRepo_FindCountMatchesRowsUnderWrites(t *testing.T) {
	db := setupProfileTestDB(t)
	profileRepo := NewProfileRepository(db)
	searchRepo := NewSearchRepository(db)
	ctx := context.Background()

	done := make(chan struct{})
	writerErr := make(chan error, 1)
	go func() {
		defer close(writerErr)
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			if _, err := profileRepo.Upsert(ctx, newProfile(fmt.Sprintf("writer-%04d", i), "Writer", nil)); err != nil {
				writerErr <- err
				return
			}
		}
	}()

	filters := search.Filters{}.Normalize()
	for i := 0; i < 50; i++ {
		rows, total, err := searchRepo.Find(ctx, search.Query{
			Where:   search.BuildPredicate(filters),
			OrderBy: search.ResolveOrdering(filters.SortBy, filters.SortOrder),
			Limit:   100000,
		})
		require.NoError(t, err)
		assert.Equal(t, total, len(rows), "count and page must come from the same snapshot")
	}

	close(done)
	require.NoError(t, <-writerErr)
}
