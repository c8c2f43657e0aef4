package reputation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"Gitcaster/internal/core/profiles"
)

// DefaultSchedule runs the sync every six hours.
const DefaultSchedule = "@every 6h"

const defaultConcurrency = 4

// Store is the subset of the profile repository the syncer needs.
type Store interface {
	ListWalletProfiles(ctx context.Context) ([]profiles.WalletProfile, error)
	UpdateTalentScore(ctx context.Context, profileID string, score int) error
}

// SyncStats summarizes one sync pass.
type SyncStats struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Syncer periodically copies Talent Protocol scores onto profiles.
type Syncer struct {
	store       Store
	source      ScoreSource
	logger      *slog.Logger
	cron        *cron.Cron
	onUpdated   func()
	timeout     time.Duration
	concurrency int
	mu          sync.Mutex
}

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer)

// WithConcurrency bounds how many score lookups run at once.
func WithConcurrency(n int) SyncerOption {
	return func(s *Syncer) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithRunTimeout bounds a scheduled pass.
func WithRunTimeout(d time.Duration) SyncerOption {
	return func(s *Syncer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithOnUpdated registers a callback fired after a pass that changed at least one score.
func WithOnUpdated(fn func()) SyncerOption {
	return func(s *Syncer) {
		s.onUpdated = fn
	}
}

// WithSyncLogger sets the logger.
func WithSyncLogger(logger *slog.Logger) SyncerOption {
	return func(s *Syncer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSyncer creates a syncer. It does nothing until Start or RunOnce is called.
func NewSyncer(store Store, source ScoreSource, opts ...SyncerOption) *Syncer {
	s := &Syncer{
		store:       store,
		source:      source,
		logger:      slog.Default(),
		timeout:     30 * time.Minute,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start schedules RunOnce on the given cron spec (e.g. "@every 6h").
func (s *Syncer) Start(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return ErrSyncRunning
	}
	if spec == "" {
		spec = DefaultSchedule
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger), cron.Recover(cron.DefaultLogger)))
	if _, err := c.AddFunc(spec, s.scheduledRun); err != nil {
		return fmt.Errorf("invalid reputation sync schedule %q: %w", spec, err)
	}
	c.Start()
	s.cron = c

	s.logger.Info("[REPUTATION] Sync scheduled", "spec", spec)
	return nil
}

// Stop unschedules the job and waits for a running pass to finish.
func (s *Syncer) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.logger.Info("[REPUTATION] Sync stopped")
}

func (s *Syncer) scheduledRun() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.Error("[REPUTATION] Sync failed", "error", err)
	}
}

// RunOnce fetches a score for every profile with a wallet address and stores it.
// Per-profile failures are logged and counted; only a failure to list profiles
// is returned as an error.
func (s *Syncer) RunOnce(ctx context.Context) (SyncStats, error) {
	start := time.Now()

	wallets, err := s.store.ListWalletProfiles(ctx)
	if err != nil {
		return SyncStats{}, fmt.Errorf("failed to list wallet profiles: %w", err)
	}

	var updated, skipped, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, w := range wallets {
		g.Go(func() error {
			score, err := s.source.GetScore(gctx, w.WalletAddress)
			if errors.Is(err, ErrPassportNotFound) {
				skipped.Add(1)
				return nil
			}
			if err != nil {
				failed.Add(1)
				s.logger.Warn("[REPUTATION] Score lookup failed", "profile_id", w.ID, "error", err)
				return nil
			}
			if err := s.store.UpdateTalentScore(gctx, w.ID, score); err != nil {
				failed.Add(1)
				s.logger.Warn("[REPUTATION] Score update failed", "profile_id", w.ID, "error", err)
				return nil
			}
			updated.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	stats := SyncStats{
		Updated: int(updated.Load()),
		Skipped: int(skipped.Load()),
		Failed:  int(failed.Load()),
	}
	s.logger.Info("[REPUTATION] Sync complete",
		"profiles", len(wallets),
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"duration", time.Since(start))

	if stats.Updated > 0 && s.onUpdated != nil {
		s.onUpdated()
	}
	return stats, nil
}
