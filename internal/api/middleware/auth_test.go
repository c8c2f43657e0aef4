package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key-at-least-32-bytes!!")

func createTestToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := IssueToken(testSecret, userID, "", time.Hour)
	require.NoError(t, err)
	return token
}

func serve(handler http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_ValidToken(t *testing.T) {
	m := NewJWTAuthMiddleware(testSecret, "")

	handlerCalled := false
	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		assert.Equal(t, "user-123", GetUserID(r))
		require.NotNil(t, GetJWTToken(r))
		assert.Equal(t, "user-123", GetJWTToken(r).Subject())
		w.WriteHeader(http.StatusOK)
	}))

	w := serve(handler, "Bearer "+createTestToken(t, "user-123"))

	assert.True(t, handlerCalled)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth_Rejections(t *testing.T) {
	expired, err := IssueToken(testSecret, "user-123", "", -time.Hour)
	require.NoError(t, err)

	wrongKey, err := IssueToken([]byte("some-other-secret-of-similar-size"), "user-123", "", time.Hour)
	require.NoError(t, err)

	noSubject, err := IssueToken(testSecret, "", "", time.Hour)
	require.NoError(t, err)

	noExpiry, err := jwt.NewBuilder().Subject("user-123").Build()
	require.NoError(t, err)
	noExpirySigned, err := jwt.Sign(noExpiry, jwt.WithKey(jwa.HS256, testSecret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"basic auth", "Basic dGVzdDp0ZXN0"},
		{"malformed token", "Bearer not-a-valid-jwt"},
		{"expired token", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
		{"missing subject", "Bearer " + noSubject},
		{"missing expiry", "Bearer " + string(noExpirySigned)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewJWTAuthMiddleware(testSecret, "")
			handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler should not be called")
			}))

			w := serve(handler, tt.header)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "AuthenticationRequired")
		})
	}
}

func TestRequireAuth_Issuer(t *testing.T) {
	m := NewJWTAuthMiddleware(testSecret, "https://gitcaster.io")
	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	good, err := IssueToken(testSecret, "user-1", "https://gitcaster.io", time.Hour)
	require.NoError(t, err)
	bad, err := IssueToken(testSecret, "user-1", "https://elsewhere.example", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, serve(handler, "Bearer "+good).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(handler, "Bearer "+bad).Code)
}

func TestOptionalAuth(t *testing.T) {
	m := NewJWTAuthMiddleware(testSecret, "")

	var seen string
	handler := m.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	}))

	w := serve(handler, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, seen)

	w = serve(handler, "Bearer garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, seen)

	w = serve(handler, "Bearer "+createTestToken(t, "user-9"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-9", seen)
}

func TestSetTestUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(SetTestUserID(req.Context(), "user-7"))
	assert.Equal(t, "user-7", GetUserID(req))
}
