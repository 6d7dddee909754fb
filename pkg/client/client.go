// Package client provides the HTTP client for the remote users API with
// error classification, retries, and metrics.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/social-lookup/pkg/logging"
	"github.com/Sternrassler/social-lookup/pkg/metrics"
	"github.com/Sternrassler/social-lookup/pkg/users"
)

// Prometheus metrics for users API client operations.
var (
	apiRequestsTotal = promauto.With(metrics.Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "lookup_api_requests_total",
		Help: "Total users API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	apiRequestDuration = promauto.With(metrics.Registry).NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lookup_api_request_duration_seconds",
		Help:    "Users API request duration in seconds by endpoint, retries included",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	apiErrorsTotal = promauto.With(metrics.Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "lookup_api_errors_total",
		Help: "Total users API errors by class",
	}, []string{"class"})
)

// Endpoint paths relative to Config.BaseURL.
const (
	UsersLookupPath  = "/1.1/users/lookup.json"
	FollowersIDsPath = "/1.1/followers/ids.json"
	FriendsIDsPath   = "/1.1/friends/ids.json"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.twitter.com"

// maxErrorBody bounds how much of an error response is kept for the message.
const maxErrorBody = 512

// Client talks to the remote users API. It implements users.BatchFetcher
// and users.IDLister and is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retry      RetryPolicy
	config     Config
	logger     zerolog.Logger
}

var (
	_ users.BatchFetcher = (*Client)(nil)
	_ users.IDLister     = (*Client)(nil)
)

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.twitter.com".
	BaseURL string

	// User-Agent header (REQUIRED)
	// Format: "AppName/Version (contact@example.com)"
	UserAgent string

	// Timeout for a single HTTP attempt.
	Timeout time.Duration

	// MaxRetries caps attempts per request (including the first).
	// Zero keeps the per-class defaults.
	MaxRetries int

	// Retry overrides the per-class retry configuration.
	Retry RetryPolicy

	// HTTPClient replaces the default transport when set.
	HTTPClient *http.Client
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		UserAgent:  userAgent,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
	}
}

// New creates a new users API client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be >= 0 (got %s)", cfg.Timeout)
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("max_retries must be >= 0 (got %d)", cfg.MaxRetries)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		retry:      WithMaxAttempts(cfg.Retry, cfg.MaxRetries),
		config:     cfg,
		logger:     logging.NewLogger("api-client"),
	}, nil
}

// FetchBatch resolves up to users.MaxBatchSize ids in one users/lookup call.
// Ids unknown to the API are omitted from the result; a 404 means none of
// them exist and yields an empty result.
func (c *Client) FetchBatch(ctx context.Context, ids []users.ID) ([]users.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > users.MaxBatchSize {
		return nil, fmt.Errorf("batch of %d ids exceeds limit of %d", len(ids), users.MaxBatchSize)
	}

	query := url.Values{}
	query.Set("user_id", users.JoinIDs(ids))

	var result []users.User
	if err := c.getJSON(ctx, UsersLookupPath, query, &result); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			c.logger.Debug().Int("ids", len(ids)).Msg("No users matched batch")
			return []users.User{}, nil
		}
		return nil, err
	}
	return result, nil
}

// idsResponse is the payload of the followers/friends id endpoints.
type idsResponse struct {
	IDs        []users.ID `json:"ids"`
	NextCursor int64      `json:"next_cursor"`
}

// FetchIDs returns the follower or friend ids of screenName in a single call.
func (c *Client) FetchIDs(ctx context.Context, screenName string, relation users.Relation) ([]users.ID, error) {
	screenName = strings.TrimPrefix(strings.TrimSpace(screenName), "@")
	if screenName == "" {
		return nil, fmt.Errorf("screen name is required")
	}

	var path string
	switch relation {
	case users.Followers:
		path = FollowersIDsPath
	case users.Friends:
		path = FriendsIDsPath
	default:
		return nil, fmt.Errorf("unsupported relation %q", relation)
	}

	query := url.Values{}
	query.Set("screen_name", screenName)

	var result idsResponse
	if err := c.getJSON(ctx, path, query, &result); err != nil {
		return nil, fmt.Errorf("fetch %s of %s: %w", relation, screenName, err)
	}
	if result.NextCursor != 0 {
		c.logger.Debug().
			Str("screen_name", screenName).
			Str("relation", string(relation)).
			Int("ids", len(result.IDs)).
			Msg("Id list truncated to first page")
	}
	return result.IDs, nil
}

// getJSON performs a GET with retries and decodes a 2xx body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	startTime := time.Now()
	defer func() {
		apiRequestDuration.WithLabelValues(path).Observe(time.Since(startTime).Seconds())
	}()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	c.logger.Debug().
		Str("endpoint", path).
		Msg("Executing API request")

	return retryWithBackoff(ctx, c.retry, func() error {
		return c.attempt(ctx, path, target, out)
	}, classifyError)
}

// attempt performs one HTTP round trip.
func (c *Client) attempt(ctx context.Context, endpoint, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &APIError{
			Endpoint:   endpoint,
			ErrorClass: ErrorClassClient,
			Message:    "create request",
			Err:        err,
		}
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		apiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		apiRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return &APIError{
			Endpoint:   endpoint,
			ErrorClass: ErrorClassNetwork,
			Message:    "request failed",
			Err:        err,
		}
	}
	defer resp.Body.Close()

	apiRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		errClass := classifyStatus(resp.StatusCode)
		apiErrorsTotal.WithLabelValues(string(errClass)).Inc()

		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message := resp.Status
		if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
			message += ": " + trimmed
		}

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("API request error")

		return &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Message:    message,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		apiErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassDecode,
			Message:    "invalid response body",
			Err:        fmt.Errorf("%w: %w", ErrDecode, err),
		}
	}
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
