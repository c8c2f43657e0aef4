package main

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Gitcaster/internal/api/middleware"
	"Gitcaster/internal/cache"
	"Gitcaster/internal/config"
	"Gitcaster/internal/core/profiles"
	"Gitcaster/internal/core/search"
	"Gitcaster/internal/db/memory"
)

func newTestRouter(t *testing.T, cfg config.Config, auth *middleware.JWTAuthMiddleware) http.Handler {
	t.Helper()

	store := memory.NewStore()
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	t.Cleanup(rateLimiter.Stop)

	return newRouter(cfg, rateLimiter,
		search.NewSearchService(store, nil, nil, 0, nil),
		profiles.NewProfileService(store, cache.NewMemoryCache[*profiles.Profile](time.Minute)),
		auth,
	)
}

func TestRouter_AccessLogIncludesRequestID(t *testing.T) {
	var buf bytes.Buffer
	original := chiMiddleware.DefaultLogger
	chiMiddleware.DefaultLogger = chiMiddleware.RequestLogger(&chiMiddleware.DefaultLogFormatter{
		Logger:  log.New(&buf, "", 0),
		NoColor: true,
	})
	t.Cleanup(func() { chiMiddleware.DefaultLogger = original })

	r := newTestRouter(t, config.DefaultConfig(), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Regexp(t, `^\[[^\]]+/[^\]]+-\d+\] "GET `, buf.String())
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter(t, config.DefaultConfig(), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/search/developers", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// Writes are not mounted without an auth middleware
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/profiles/me", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	auth := middleware.NewJWTAuthMiddleware([]byte("router-test-secret-with-enough-bytes"), middleware.TokenIssuer)
	r = newTestRouter(t, config.DefaultConfig(), auth)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/profiles/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
