package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/robfig/cron/v3"
)

// Default TTLs for cached results
const (
	// DefaultTTL applies to generic API results
	DefaultTTL = 5 * time.Minute

	// SearchTTL applies to search results, which are more sensitive to staleness
	SearchTTL = 2 * time.Minute

	// DefaultSweepInterval is how often expired entries are evicted in the background
	DefaultSweepInterval = 60 * time.Second

	// DefaultMaxEntries bounds each cache; the least recently used entry is evicted first
	DefaultMaxEntries = 1000
)

var (
	// ErrSweeperRunning is returned when StartSweeper is called twice
	ErrSweeperRunning = errors.New("cache sweeper already running")
	// ErrInvalidSweepInterval is returned when the sweep interval is below one second
	ErrInvalidSweepInterval = errors.New("sweep interval must be at least one second")
)

type entry[V any] struct {
	timestamp time.Time
	data      V
	ttl       time.Duration
}

func (e entry[V]) expired(now time.Time) bool {
	return now.Sub(e.timestamp) > e.ttl
}

// Option configures a MemoryCache
type Option func(*options)

type options struct {
	now        func() time.Time
	logger     *slog.Logger
	name       string
	maxEntries int
}

// WithClock overrides the time source, used by tests to simulate expiry
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLogger sets the logger used for sweep reporting
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithName labels log lines emitted by the cache
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithMaxEntries caps the number of entries held at once
func WithMaxEntries(n int) Option {
	return func(o *options) {
		o.maxEntries = n
	}
}

// MemoryCache is a single-process, size-bounded TTL cache.
// Entries are never updated in place: Set replaces the whole entry.
// Concurrent writers to the same key are last-write-wins.
type MemoryCache[V any] struct {
	now        func() time.Time
	entries    *lru.Cache[string, entry[V]]
	logger     *slog.Logger
	sweeper    *cron.Cron
	name       string
	defaultTTL time.Duration
	// mu serializes writes with expiry checks; entries is safe for concurrent reads on its own
	mu        sync.Mutex
	sweeperMu sync.Mutex
}

// NewMemoryCache creates an empty cache whose entries live for defaultTTL
// unless SetWithTTL is used.
func NewMemoryCache[V any](defaultTTL time.Duration, opts ...Option) *MemoryCache[V] {
	o := options{
		now:        time.Now,
		logger:     slog.Default(),
		name:       "cache",
		maxEntries: DefaultMaxEntries,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	if o.maxEntries <= 0 {
		o.maxEntries = DefaultMaxEntries
	}

	entries, err := lru.New[string, entry[V]](o.maxEntries)
	if err != nil {
		// Only returned for a non-positive size, which is ruled out above
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}

	return &MemoryCache[V]{
		entries:    entries,
		defaultTTL: defaultTTL,
		now:        o.now,
		logger:     o.logger,
		name:       o.name,
	}
}

// Get returns the cached value if present and not older than its TTL.
// An expired entry is evicted and reported as a miss.
func (c *MemoryCache[V]) Get(key string) (V, bool) {
	var zero V

	e, ok := c.entries.Get(key)
	if !ok {
		return zero, false
	}

	if !e.expired(c.now()) {
		return e.data, true
	}

	c.mu.Lock()
	// Only evict if nobody replaced the entry in the meantime
	if current, ok := c.entries.Peek(key); ok && current.timestamp.Equal(e.timestamp) {
		c.entries.Remove(key)
	}
	c.mu.Unlock()

	return zero, false
}

// Set stores value under key with the default TTL
func (c *MemoryCache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores value under key with an explicit TTL.
// A non-positive ttl falls back to the default.
func (c *MemoryCache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	c.entries.Add(key, entry[V]{
		data:      value,
		timestamp: c.now(),
		ttl:       ttl,
	})
	c.mu.Unlock()
}

// Delete removes a single entry
func (c *MemoryCache[V]) Delete(key string) {
	c.mu.Lock()
	c.entries.Remove(key)
	c.mu.Unlock()
}

// Clear removes every entry
func (c *MemoryCache[V]) Clear() {
	c.mu.Lock()
	c.entries.Purge()
	c.mu.Unlock()
}

// Len returns the number of stored entries, including expired ones not yet swept
func (c *MemoryCache[V]) Len() int {
	return c.entries.Len()
}

// Cleanup evicts all expired entries and returns how many were removed
func (c *MemoryCache[V]) Cleanup() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, key := range c.entries.Keys() {
		// Peek so the sweep does not refresh recency
		if e, ok := c.entries.Peek(key); ok && e.expired(now) {
			c.entries.Remove(key)
			removed++
		}
	}
	return removed
}

// StartSweeper schedules Cleanup to run every interval until Close is called
func (c *MemoryCache[V]) StartSweeper(interval time.Duration) error {
	if interval < time.Second {
		return fmt.Errorf("%w: got %v", ErrInvalidSweepInterval, interval)
	}

	c.sweeperMu.Lock()
	defer c.sweeperMu.Unlock()

	if c.sweeper != nil {
		return ErrSweeperRunning
	}

	sweeper := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if _, err := sweeper.AddFunc(fmt.Sprintf("@every %s", interval), c.sweep); err != nil {
		return fmt.Errorf("failed to schedule cache sweep: %w", err)
	}
	sweeper.Start()
	c.sweeper = sweeper

	c.logger.Info("["+c.name+"] sweeper started", "interval", interval)
	return nil
}

func (c *MemoryCache[V]) sweep() {
	removed := c.Cleanup()
	if removed > 0 {
		c.logger.Debug("["+c.name+"] swept expired entries",
			"entries_removed", removed,
			"entries_remaining", c.Len(),
		)
	}
}

// Close stops the background sweeper, waiting for a running sweep to finish.
// The cache remains usable afterwards.
func (c *MemoryCache[V]) Close() {
	c.sweeperMu.Lock()
	sweeper := c.sweeper
	c.sweeper = nil
	c.sweeperMu.Unlock()

	if sweeper == nil {
		return
	}

	<-sweeper.Stop().Done()
	c.logger.Info("[" + c.name + "] sweeper stopped")
}
