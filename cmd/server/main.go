package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"Gitcaster/internal/api/middleware"
	"Gitcaster/internal/cache"
	"Gitcaster/internal/config"
	"Gitcaster/internal/core/profiles"
	"Gitcaster/internal/core/reputation"
	"Gitcaster/internal/core/search"
	"Gitcaster/internal/db/memory"
	postgresRepo "Gitcaster/internal/db/postgres"
)

const shutdownTimeout = 15 * time.Second

// store is what the server needs from a storage backend
type store interface {
	profiles.Repository
	search.Repository
	reputation.Store
}

func main() {
	cfg := config.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		repo store
		db   *sql.DB
	)
	switch cfg.Storage {
	case config.StorageMemory:
		repo = memory.NewStore()
		log.Println("Using in-memory profile store")
	default:
		var err error
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			log.Fatal("Failed to ping database:", err)
		}
		log.Println("Connected to database")

		if err := postgresRepo.Migrate(db); err != nil {
			log.Fatal(err)
		}
		log.Println("Migrations completed successfully")

		type profileRepository = profiles.Repository
		type searchRepository = search.Repository
		repo = struct {
			profileRepository
			searchRepository
		}{postgresRepo.NewProfileRepository(db), postgresRepo.NewSearchRepository(db)}
	}

	// Local caches, swept in the background
	searchCache := cache.NewMemoryCache[*search.Result](cfg.SearchCacheTTL, cache.WithName("SEARCH-CACHE"))
	defer searchCache.Close()
	if err := searchCache.StartSweeper(cfg.CacheSweepInterval); err != nil {
		log.Fatal("Failed to start search cache sweeper:", err)
	}

	profileCache := cache.NewMemoryCache[*profiles.Profile](cfg.APICacheTTL, cache.WithName("PROFILE-CACHE"))
	defer profileCache.Close()
	if err := profileCache.StartSweeper(cfg.CacheSweepInterval); err != nil {
		log.Fatal("Failed to start profile cache sweeper:", err)
	}

	// Optional shared tier
	var shared search.SharedCache
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("Failed to connect to redis:", err)
		}
		redisCache := cache.NewRedisCache(client, "gitcaster:")
		defer closeRedis(redisCache)
		shared = redisCache
		log.Println("Shared search cache enabled")
	}

	searchService := search.NewSearchService(repo, searchCache, shared, cfg.SearchCacheTTL, slog.Default())
	profileService := profiles.NewProfileService(repo, profileCache)

	if cfg.ReputationEnabled() {
		client, err := reputation.NewTalentClient(reputation.ClientConfig{
			Logger:  slog.Default(),
			BaseURL: cfg.TalentAPIURL,
			APIKey:  cfg.TalentAPIKey,
		})
		if err != nil {
			log.Fatal("Failed to create Talent Protocol client:", err)
		}

		// New scores change rank order, so cached pages are dropped
		syncer := reputation.NewSyncer(repo, client, reputation.WithOnUpdated(searchCache.Clear))
		if err := syncer.Start(cfg.ReputationSyncSpec); err != nil {
			log.Fatal("Failed to start reputation sync:", err)
		}
		defer syncer.Stop()
	} else {
		log.Println("TALENT_API_KEY not set, reputation sync disabled")
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, 1*time.Minute)
	defer rateLimiter.Stop()

	var authMiddleware *middleware.JWTAuthMiddleware
	if cfg.JWTSecret != "" {
		authMiddleware = middleware.NewJWTAuthMiddleware([]byte(cfg.JWTSecret), middleware.TokenIssuer)
	} else {
		log.Println("AUTH_JWT_SECRET not set, profile writes disabled")
	}

	r := newRouter(cfg, rateLimiter, searchService, profileService, authMiddleware)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		fmt.Printf("Gitcaster search starting on port %s (storage: %s)\n", cfg.Port, cfg.Storage)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server error: %v", err)
		}
	case <-ctx.Done():
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Graceful shutdown failed: %v", err)
		}
	}
}

func closeRedis(c *cache.RedisCache) {
	if err := c.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		log.Printf("Failed to close redis: %v", err)
	}
}
