package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Context keys for storing user information
type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	JWTTokenKey contextKey = "jwt_token"
)

// clockSkew tolerates small clock differences on exp/nbf/iat
const clockSkew = 30 * time.Second

// JWTAuthMiddleware authenticates HS256 bearer tokens.
// The token subject is the account id that owns a profile.
type JWTAuthMiddleware struct {
	secret []byte
	issuer string
}

// NewJWTAuthMiddleware creates a new auth middleware. issuer may be empty to accept any issuer.
func NewJWTAuthMiddleware(secret []byte, issuer string) *JWTAuthMiddleware {
	return &JWTAuthMiddleware{
		secret: secret,
		issuer: issuer,
	}
}

// VerifyToken checks the signature and time claims of a token and returns it
func (m *JWTAuthMiddleware) VerifyToken(raw string) (jwt.Token, error) {
	opts := []jwt.ParseOption{
		jwt.WithKey(jwa.HS256, m.secret),
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(clockSkew),
		jwt.WithRequiredClaim(jwt.ExpirationKey),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	return jwt.Parse([]byte(raw), opts...)
}

// RequireAuth middleware ensures the user is authenticated with a valid JWT
// If not authenticated, returns 401
// If authenticated, injects the user id and token into context
func (m *JWTAuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeAuthError(w, "Missing Authorization header")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeAuthError(w, "Invalid Authorization header format. Expected: Bearer <token>")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		token, err := m.VerifyToken(raw)
		if err != nil {
			slog.Warn("[AUTH_FAILURE] token verification failed",
				"ip", r.RemoteAddr,
				"method", r.Method,
				"path", r.URL.Path,
				"error", err,
			)
			writeAuthError(w, "Invalid or expired token")
			return
		}

		userID := token.Subject()
		if userID == "" {
			writeAuthError(w, "Missing subject in token")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		ctx = context.WithValue(ctx, JWTTokenKey, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth middleware loads user info if authenticated, but doesn't require it
func (m *JWTAuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}

		token, err := m.VerifyToken(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
		if err != nil || token.Subject() == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, token.Subject())
		ctx = context.WithValue(ctx, JWTTokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the authenticated user id from the request context
// Returns empty string if not authenticated
func GetUserID(r *http.Request) string {
	return GetAuthenticatedUserID(r.Context())
}

// GetAuthenticatedUserID extracts the authenticated user id from a context
func GetAuthenticatedUserID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

// GetJWTToken extracts the verified token from the request context
// Returns nil if not authenticated
func GetJWTToken(r *http.Request) jwt.Token {
	token, _ := r.Context().Value(JWTTokenKey).(jwt.Token)
	return token
}

// SetTestUserID sets the user id in the context for testing purposes
// This function should ONLY be used in tests to mock authenticated users
func SetTestUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// writeAuthError writes a JSON error response for authentication failures
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error":   "AuthenticationRequired",
		"message": message,
	}); err != nil {
		slog.Error("failed to write auth error response", "error", err)
	}
}
