package reputation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// DefaultBaseURL is the public Talent Protocol API.
const DefaultBaseURL = "https://api.talentprotocol.com/api/v2"

const maxResponseBytes = 64 * 1024

// ScoreSource looks up the reputation score of a wallet.
type ScoreSource interface {
	GetScore(ctx context.Context, walletAddress string) (int, error)
}

// ClientConfig configures the Talent Protocol client.
type ClientConfig struct {
	Logger       *slog.Logger
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// TalentClient fetches passport scores from the Talent Protocol API.
type TalentClient struct {
	http    *retryablehttp.Client
	baseURL string
	apiKey  string
}

type passportResponse struct {
	Passport *struct {
		Score *float64 `json:"score"`
	} `json:"passport"`
}

// NewTalentClient builds a client that retries transient failures (connection
// errors, 429 and 5xx) with exponential backoff.
func NewTalentClient(cfg ClientConfig) (*TalentClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid talent API URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := retryablehttp.NewClient()
	client.HTTPClient = &http.Client{Timeout: timeout}
	if cfg.RetryMax > 0 {
		client.RetryMax = cfg.RetryMax
	}
	if cfg.RetryWaitMin > 0 {
		client.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		client.RetryWaitMax = cfg.RetryWaitMax
	}
	// Hand the final response back so status codes can be mapped below
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = nil
	if cfg.Logger != nil {
		client.Logger = cfg.Logger
	}

	return &TalentClient{
		http:    client,
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
	}, nil
}

// GetScore returns the passport score for a wallet address.
// Returns:
//   - ErrPassportNotFound if the wallet has no passport (404 or empty score)
//   - ErrFetchFailed for any other failure
func (c *TalentClient) GetScore(ctx context.Context, walletAddress string) (int, error) {
	endpoint := c.baseURL + "/passports/" + url.PathEscape(strings.ToLower(walletAddress))

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create request: %v", ErrFetchFailed, err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Gitcaster-Reputation/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("%w: %v", ErrFetchFailed, ctx.Err())
		}
		return 0, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return 0, ErrPassportNotFound
	default:
		return 0, fmt.Errorf("%w: unexpected status code %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read response body: %v", ErrFetchFailed, err)
	}

	var parsed passportResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("%w: failed to decode response: %v", ErrFetchFailed, err)
	}
	if parsed.Passport == nil || parsed.Passport.Score == nil {
		return 0, ErrPassportNotFound
	}

	score := int(math.Round(*parsed.Passport.Score))
	if score < 0 {
		score = 0
	}
	return score, nil
}
