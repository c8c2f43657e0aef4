package middleware

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// TokenIssuer is the iss claim on tokens minted and accepted by the server
const TokenIssuer = "gitcaster"

// IssueToken signs an HS256 bearer token for userID that expires after ttl.
// issuer may be empty.
func IssueToken(secret []byte, userID, issuer string, ttl time.Duration) (string, error) {
	now := time.Now()
	builder := jwt.NewBuilder().
		Subject(userID).
		IssuedAt(now).
		Expiration(now.Add(ttl))
	if issuer != "" {
		builder = builder.Issuer(issuer)
	}

	token, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return string(signed), nil
}
