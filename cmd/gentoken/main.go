package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"Gitcaster/internal/api/middleware"
)

// gentoken mints an HS256 bearer token for local testing of profile writes.
// The secret is read from AUTH_JWT_SECRET, the same variable the server uses.
//
// Usage:
//
//	AUTH_JWT_SECRET=... go run ./cmd/gentoken -user <user-id> [-ttl 24h]
//
// The printed token goes in "Authorization: Bearer <token>".
func main() {
	userID := flag.String("user", "", "user id to put in the sub claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user is required")
	}

	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		log.Fatal("AUTH_JWT_SECRET is not set")
	}

	token, err := middleware.IssueToken([]byte(secret), *userID, middleware.TokenIssuer, *ttl)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	fmt.Println(token)
}
