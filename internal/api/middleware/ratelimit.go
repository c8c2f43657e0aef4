package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter is an in-memory token bucket limiter keyed by client IP.
// Each client may burst up to requests and refills at requests per window.
// Each process keeps its own buckets.
type RateLimiter struct {
	clients  map[string]*clientLimit
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
	limit    rate.Limit
	requests int
	window   time.Duration
	mu       sync.Mutex
}

type clientLimit struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter and starts its cleanup goroutine.
// requests: maximum number of requests allowed per window
// window: time window duration (e.g., 1 minute)
// Call Stop to release the goroutine.
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	if requests < 1 {
		requests = 1
	}
	rl := &RateLimiter{
		clients:  make(map[string]*clientLimit),
		now:      time.Now,
		done:     make(chan struct{}),
		limit:    rate.Every(window / time.Duration(requests)),
		requests: requests,
		window:   window,
	}

	go rl.cleanup()

	return rl
}

// Middleware returns a rate limiting middleware.
// The client is identified by RemoteAddr; put chi's RealIP in front of it
// when running behind a trusted proxy.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := getClientIP(r)

		allowed, retryAfter := rl.allow(clientID)
		if !allowed {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			w.WriteHeader(http.StatusTooManyRequests)
			if err := json.NewEncoder(w).Encode(map[string]string{
				"error":   "RateLimitExceeded",
				"message": "Rate limit exceeded. Please try again later.",
			}); err != nil {
				slog.Error("failed to write rate limit response", "error", err)
			}
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow takes a token for the client and, when none is left, reports how long
// until the next one is available
func (rl *RateLimiter) allow(clientID string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	client, exists := rl.clients[clientID]
	if !exists {
		client = &clientLimit{limiter: rate.NewLimiter(rl.limit, rl.requests)}
		rl.clients[clientID] = client
	}
	client.lastSeen = now

	reservation := client.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, rl.window
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		// Give the token back; a rejected request must not consume budget
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

// cleanup removes idle client entries periodically
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

// sweep drops clients idle for a full window; their bucket would be full again anyway
func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for clientID, client := range rl.clients {
		if now.Sub(client.lastSeen) >= rl.window {
			delete(rl.clients, clientID)
		}
	}
}

// getClientIP returns the host part of RemoteAddr.
// Forwarding headers are not read here since any client can set them.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
