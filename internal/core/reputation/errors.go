package reputation

import "errors"

var (
	// ErrPassportNotFound is returned when the wallet has no Talent Protocol passport.
	ErrPassportNotFound = errors.New("talent passport not found")

	// ErrFetchFailed is returned when the score lookup fails for any other reason.
	ErrFetchFailed = errors.New("failed to fetch talent score")

	// ErrSyncRunning is returned when Start is called on a syncer that is already scheduled.
	ErrSyncRunning = errors.New("reputation sync already running")

	// ErrMissingAPIKey is returned when the client is built without credentials.
	ErrMissingAPIKey = errors.New("talent API key is required")
)
